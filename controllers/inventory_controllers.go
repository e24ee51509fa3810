package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/resto-pos/broadcast"
	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/utils"
)

type InventoryController struct {
	DB       *gorm.DB
	Notifier broadcast.Notifier
}

func NewInventoryController(db *gorm.DB, notifier broadcast.Notifier) *InventoryController {
	return &InventoryController{DB: db, Notifier: notifier}
}

func (ic *InventoryController) CreateInventoryItem(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Stock       string `json:"stock"`
		Unit        string `json:"unit" binding:"required"`
		MinStock    string `json:"min_stock"`
		CostPerUnit string `json:"cost_per_unit"`
		SupplierID  *uint  `json:"supplier_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	stock, err := utils.ParseAmount(req.Stock)
	if err != nil || stock < 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid stock %q", req.Stock))
		return
	}
	minStock, err := utils.ParseAmount(req.MinStock)
	if err != nil || minStock < 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid min_stock %q", req.MinStock))
		return
	}
	cost, err := utils.ParseAmount(req.CostPerUnit)
	if err != nil || cost < 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid cost_per_unit %q", req.CostPerUnit))
		return
	}

	item := models.InventoryItem{
		Name:        req.Name,
		Stock:       utils.FormatAmount(stock),
		Unit:        req.Unit,
		MinStock:    utils.FormatAmount(minStock),
		CostPerUnit: utils.FormatAmount(cost),
		SupplierID:  req.SupplierID,
	}
	if err := ic.DB.Create(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Inventory item created", item)
}

func (ic *InventoryController) GetAllInventory(c *gin.Context) {
	var items []models.InventoryItem
	if err := ic.DB.Order("id asc").Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of inventory items", items)
}

// GetLowStock -> items at or under their minimum threshold
func (ic *InventoryController) GetLowStock(c *gin.Context) {
	var items []models.InventoryItem
	if err := ic.DB.Order("id asc").Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	low := make([]models.InventoryItem, 0)
	for _, it := range items {
		if utils.MustParseAmount(it.Stock) <= utils.MustParseAmount(it.MinStock) {
			low = append(low, it)
		}
	}
	utils.RespondJSON(c, http.StatusOK, "Low stock items", low)
}

// RecordWastage -> manual write-off. Unlike checkout deduction this path
// refuses to drive the stock negative.
func (ic *InventoryController) RecordWastage(c *gin.Context) {
	id, ok := parseID(c, "item_id")
	if !ok {
		return
	}

	var req struct {
		Quantity string `json:"quantity" binding:"required"`
		Reason   string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	qty, err := utils.ParseAmount(req.Quantity)
	if err != nil || qty <= 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid quantity %q", req.Quantity))
		return
	}

	var item models.InventoryItem
	if err := ic.DB.First(&item, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("inventory item %d not found", id))
		return
	}

	remaining := utils.MustParseAmount(item.Stock) - qty
	if remaining < 0 {
		utils.RespondError(c, http.StatusBadRequest,
			fmt.Errorf("wastage %s exceeds stock %s %s", req.Quantity, item.Stock, item.Unit))
		return
	}

	entry := models.WastageEntry{
		InventoryItemID: item.ID,
		Quantity:        utils.FormatAmount(qty),
		Reason:          req.Reason,
	}
	if err := ic.DB.Create(&entry).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	item.Stock = utils.FormatAmount(remaining)
	if err := ic.DB.Save(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	ic.Notifier.Publish(broadcast.EventInventoryUpdate, item)
	utils.RespondJSON(c, http.StatusCreated, "Wastage recorded", gin.H{
		"entry": entry,
		"item":  item,
	})
}

package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/resto-pos/broadcast"
	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/utils"
)

type SupplierController struct {
	DB       *gorm.DB
	Notifier broadcast.Notifier
}

func NewSupplierController(db *gorm.DB, notifier broadcast.Notifier) *SupplierController {
	return &SupplierController{DB: db, Notifier: notifier}
}

func (sc *SupplierController) CreateSupplier(c *gin.Context) {
	var req struct {
		Name    string `json:"name" binding:"required"`
		Phone   string `json:"phone"`
		Email   string `json:"email"`
		Address string `json:"address"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	supplier := models.Supplier{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
	}
	if err := sc.DB.Create(&supplier).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Supplier created", supplier)
}

func (sc *SupplierController) GetAllSuppliers(c *gin.Context) {
	var suppliers []models.Supplier
	if err := sc.DB.Order("id asc").Find(&suppliers).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of suppliers", suppliers)
}

// CreatePurchaseOrder -> open a restock order with a supplier
func (sc *SupplierController) CreatePurchaseOrder(c *gin.Context) {
	var req struct {
		SupplierID uint `json:"supplier_id" binding:"required"`
		Items      []struct {
			InventoryItemID uint   `json:"inventory_item_id" binding:"required"`
			Quantity        string `json:"quantity" binding:"required"`
		} `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var supplier models.Supplier
	if err := sc.DB.First(&supplier, req.SupplierID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("supplier %d not found", req.SupplierID))
		return
	}

	po := models.PurchaseOrder{SupplierID: supplier.ID, Status: "open"}
	if err := sc.DB.Create(&po).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	for _, line := range req.Items {
		qty, err := utils.ParseAmount(line.Quantity)
		if err != nil || qty <= 0 {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid quantity %q", line.Quantity))
			return
		}
		var inv models.InventoryItem
		if err := sc.DB.First(&inv, line.InventoryItemID).Error; err != nil {
			utils.RespondError(c, http.StatusNotFound,
				fmt.Errorf("inventory item %d not found", line.InventoryItemID))
			return
		}
		item := models.PurchaseOrderItem{
			PurchaseOrderID: po.ID,
			InventoryItemID: inv.ID,
			Quantity:        utils.FormatAmount(qty),
		}
		if err := sc.DB.Create(&item).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		po.Items = append(po.Items, item)
	}

	utils.RespondJSON(c, http.StatusCreated, "Purchase order created", po)
}

func (sc *SupplierController) GetAllPurchaseOrders(c *gin.Context) {
	var orders []models.PurchaseOrder
	if err := sc.DB.Preload("Items").Order("id asc").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of purchase orders", orders)
}

// ReceivePurchaseOrder -> goods arrived: restock every line and close the
// order.
func (sc *SupplierController) ReceivePurchaseOrder(c *gin.Context) {
	id, ok := parseID(c, "po_id")
	if !ok {
		return
	}

	var po models.PurchaseOrder
	if err := sc.DB.Preload("Items").First(&po, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("purchase order %d not found", id))
		return
	}
	if po.Status != "open" {
		utils.RespondError(c, http.StatusConflict,
			fmt.Errorf("purchase order %d is %s", id, po.Status))
		return
	}

	for _, line := range po.Items {
		var inv models.InventoryItem
		if err := sc.DB.First(&inv, line.InventoryItemID).Error; err != nil {
			utils.ErrorLogger.Printf("receive PO %d: inventory item %d: %v", po.ID, line.InventoryItemID, err)
			continue
		}
		restocked := utils.MustParseAmount(inv.Stock) + utils.MustParseAmount(line.Quantity)
		inv.Stock = utils.FormatAmount(restocked)
		if err := sc.DB.Save(&inv).Error; err != nil {
			utils.ErrorLogger.Printf("receive PO %d: restock item %d: %v", po.ID, inv.ID, err)
		}
	}

	now := time.Now()
	po.Status = "received"
	po.ReceivedAt = &now
	if err := sc.DB.Save(&po).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	sc.Notifier.Publish(broadcast.EventInventoryUpdate, gin.H{"purchase_order_id": po.ID})
	utils.RespondJSON(c, http.StatusOK, "Purchase order received", po)
}

package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/resto-pos/broadcast"
	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/utils"
)

type TableController struct {
	DB       *gorm.DB
	Notifier broadcast.Notifier
}

func NewTableController(db *gorm.DB, notifier broadcast.Notifier) *TableController {
	return &TableController{DB: db, Notifier: notifier}
}

// CreateTable -> add a table to a floor
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		TableNumber string `json:"table_number" binding:"required"`
		Seats       int    `json:"seats"`
		FloorID     uint   `json:"floor_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var floor models.Floor
	if err := tc.DB.First(&floor, req.FloorID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("floor %d not found", req.FloorID))
		return
	}

	seats := req.Seats
	if seats <= 0 {
		seats = 2
	}
	table := models.Table{
		TableNumber: req.TableNumber,
		Seats:       seats,
		Status:      models.TableFree,
		FloorID:     req.FloorID,
	}
	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	tc.Notifier.Publish(broadcast.EventTableUpdate, table)
	utils.InfoLogger.Printf("Table %s created on floor %s", table.TableNumber, floor.Name)
	utils.RespondJSON(c, http.StatusCreated, "Table created", table)
}

// GetAllTables -> full floor view
func (tc *TableController) GetAllTables(c *gin.Context) {
	var tables []models.Table
	q := tc.DB.Order("id asc")
	if floorID := c.Query("floor_id"); floorID != "" {
		q = q.Where("floor_id = ?", floorID)
	}
	if err := q.Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// GetTableByID
func (tc *TableController) GetTableByID(c *gin.Context) {
	id, ok := parseID(c, "table_id")
	if !ok {
		return
	}
	var table models.Table
	if err := tc.DB.First(&table, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, fmt.Errorf("table %d not found", id))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// UpdateTableStatus -> manual override. A table holding an active order can
// never be forced back to free; the order must be completed or paid first.
func (tc *TableController) UpdateTableStatus(c *gin.Context) {
	id, ok := parseID(c, "table_id")
	if !ok {
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	status, err := models.ParseTableStatus(body.Status)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var table models.Table
	if err := tc.DB.First(&table, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("table %d not found", id))
		return
	}

	if table.CurrentOrderID != nil && status == models.TableFree {
		utils.RespondError(c, http.StatusConflict,
			fmt.Errorf("table %d has active order %d", table.ID, *table.CurrentOrderID))
		return
	}

	table.Status = status
	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	tc.Notifier.Publish(broadcast.EventTableUpdate, table)
	utils.RespondJSON(c, http.StatusOK, "Table status updated", table)
}

// DeleteTable -> only free tables without an order can go
func (tc *TableController) DeleteTable(c *gin.Context) {
	id, ok := parseID(c, "table_id")
	if !ok {
		return
	}

	var table models.Table
	if err := tc.DB.First(&table, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("table %d not found", id))
		return
	}
	if table.CurrentOrderID != nil {
		utils.RespondError(c, http.StatusConflict,
			fmt.Errorf("table %d has active order %d", table.ID, *table.CurrentOrderID))
		return
	}

	if err := tc.DB.Delete(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	tc.Notifier.Publish(broadcast.EventTableUpdate, gin.H{"deleted": id})
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{"table_id": id})
}

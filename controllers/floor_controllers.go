package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/utils"
)

type FloorController struct {
	DB *gorm.DB
}

func NewFloorController(db *gorm.DB) *FloorController {
	return &FloorController{DB: db}
}

func (fc *FloorController) CreateFloor(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	floor := models.Floor{Name: req.Name}
	if err := fc.DB.Create(&floor).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Floor created", floor)
}

func (fc *FloorController) GetAllFloors(c *gin.Context) {
	var floors []models.Floor
	if err := fc.DB.Order("id asc").Find(&floors).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of floors", floors)
}

// DeleteFloor -> refuses while tables are still assigned
func (fc *FloorController) DeleteFloor(c *gin.Context) {
	id, ok := parseID(c, "floor_id")
	if !ok {
		return
	}

	var floor models.Floor
	if err := fc.DB.First(&floor, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("floor %d not found", id))
		return
	}

	var tableCount int64
	if err := fc.DB.Model(&models.Table{}).
		Where("floor_id = ?", id).Count(&tableCount).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if tableCount > 0 {
		utils.RespondError(c, http.StatusConflict,
			fmt.Errorf("floor %q still has %d tables", floor.Name, tableCount))
		return
	}

	if err := fc.DB.Delete(&floor).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Floor deleted", gin.H{"floor_id": id})
}

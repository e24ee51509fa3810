package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/utils"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

func (mc *MenuController) CreateCategory(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	category := models.MenuCategory{Name: req.Name}
	if err := mc.DB.Create(&category).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Category created", category)
}

func (mc *MenuController) CreateMenuItem(c *gin.Context) {
	var req struct {
		CategoryID  uint   `json:"category_id"`
		Name        string `json:"name" binding:"required"`
		Price       string `json:"price" binding:"required"`
		Vegetarian  bool   `json:"vegetarian"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	price, err := utils.ParseAmount(req.Price)
	if err != nil || price < 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid price %q", req.Price))
		return
	}

	item := models.MenuItem{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Price:       utils.FormatAmount(price),
		Vegetarian:  req.Vegetarian,
		Description: req.Description,
		Available:   true,
	}
	if err := mc.DB.Create(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Menu item created", item)
}

func (mc *MenuController) GetAllMenuItems(c *gin.Context) {
	var items []models.MenuItem
	if err := mc.DB.Order("id asc").Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menu items", items)
}

func (mc *MenuController) UpdateMenuItem(c *gin.Context) {
	id, ok := parseID(c, "menu_id")
	if !ok {
		return
	}

	var item models.MenuItem
	if err := mc.DB.First(&item, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("menu item %d not found", id))
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Price       *string `json:"price"`
		Vegetarian  *bool   `json:"vegetarian"`
		Description *string `json:"description"`
		Available   *bool   `json:"available"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Price != nil {
		price, err := utils.ParseAmount(*req.Price)
		if err != nil || price < 0 {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid price %q", *req.Price))
			return
		}
		item.Price = utils.FormatAmount(price)
	}
	if req.Vegetarian != nil {
		item.Vegetarian = *req.Vegetarian
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Available != nil {
		item.Available = *req.Available
	}

	if err := mc.DB.Save(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item updated", item)
}

// CreateRecipe -> attach a bill of materials to a menu item. The most
// recently created recipe wins when several exist.
func (mc *MenuController) CreateRecipe(c *gin.Context) {
	id, ok := parseID(c, "menu_id")
	if !ok {
		return
	}

	var menuItem models.MenuItem
	if err := mc.DB.First(&menuItem, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("menu item %d not found", id))
		return
	}

	var req struct {
		Name        string `json:"name"`
		Ingredients []struct {
			InventoryItemID uint   `json:"inventory_item_id" binding:"required"`
			QuantityPerUnit string `json:"quantity_per_unit" binding:"required"`
			Unit            string `json:"unit"`
		} `json:"ingredients" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	recipe := models.Recipe{MenuItemID: menuItem.ID, Name: req.Name}
	if err := mc.DB.Create(&recipe).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	for _, ing := range req.Ingredients {
		var inv models.InventoryItem
		if err := mc.DB.First(&inv, ing.InventoryItemID).Error; err != nil {
			utils.RespondError(c, http.StatusNotFound,
				fmt.Errorf("inventory item %d not found", ing.InventoryItemID))
			return
		}
		qty, err := utils.ParseAmount(ing.QuantityPerUnit)
		if err != nil || qty <= 0 {
			utils.RespondError(c, http.StatusBadRequest,
				fmt.Errorf("invalid quantity %q", ing.QuantityPerUnit))
			return
		}
		unit := ing.Unit
		if unit == "" {
			unit = inv.Unit
		}
		ingredient := models.RecipeIngredient{
			RecipeID:        recipe.ID,
			InventoryItemID: inv.ID,
			QuantityPerUnit: utils.FormatAmount(qty),
			Unit:            unit,
		}
		if err := mc.DB.Create(&ingredient).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		recipe.Ingredients = append(recipe.Ingredients, ingredient)
	}

	utils.RespondJSON(c, http.StatusCreated, "Recipe created", recipe)
}

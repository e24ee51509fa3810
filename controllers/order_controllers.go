package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/services"
	"github.com/yeremiapane/resto-pos/utils"
)

type OrderController struct {
	DB     *gorm.DB
	Orders *services.OrderService
}

func NewOrderController(db *gorm.DB, orders *services.OrderService) *OrderController {
	return &OrderController{DB: db, Orders: orders}
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return 0, false
	}
	return uint(id), true
}

// GetAllOrders -> list orders with their items
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	var orders []models.Order
	if err := oc.DB.Preload("OrderItems").Order("id asc").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetOrderByID -> detail of one order
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, ok := parseID(c, "order_id")
	if !ok {
		return
	}
	order, err := oc.Orders.GetOrder(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// CreateOrder -> new order, optionally bound to a table
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var body struct {
		services.CreateOrderInput
		Print bool `json:"print"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, print, err := oc.Orders.CreateOrder(body.CreateOrderInput, body.Print)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order created", gin.H{
		"order": order,
		"print": print,
	})
}

// AddItem -> append an item and recompute the total
func (oc *OrderController) AddItem(c *gin.Context) {
	id, ok := parseID(c, "order_id")
	if !ok {
		return
	}

	var body struct {
		services.AddItemInput
		Print bool `json:"print"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item, print, err := oc.Orders.AddItem(id, body.AddItemInput, body.Print)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Item added", gin.H{
		"item":  item,
		"print": print,
	})
}

// UpdateItemStatus -> new/preparing/ready/served
func (oc *OrderController) UpdateItemStatus(c *gin.Context) {
	id, ok := parseID(c, "item_id")
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

	item, err := oc.Orders.UpdateItemStatus(id, body.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item status updated", item)
}

// DeleteItem -> remove an item and recompute the total
func (oc *OrderController) DeleteItem(c *gin.Context) {
	id, ok := parseID(c, "item_id")
	if !ok {
		return
	}
	if err := oc.Orders.DeleteItem(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item deleted", gin.H{"item_id": id})
}

// SendToKitchen -> saved order goes to the kitchen; print flag is the KOT
// intent and is passed through untouched
func (oc *OrderController) SendToKitchen(c *gin.Context) {
	id, ok := parseID(c, "order_id")
	if !ok {
		return
	}

	var body struct {
		Print bool `json:"print"`
	}
	// body is optional
	_ = c.ShouldBindJSON(&body)

	order, print, err := oc.Orders.SendToKitchen(id, body.Print)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order sent to kitchen", gin.H{
		"order": order,
		"print": print,
	})
}

// MarkReadyToBill -> waiter requests the bill for the table
func (oc *OrderController) MarkReadyToBill(c *gin.Context) {
	id, ok := parseID(c, "order_id")
	if !ok {
		return
	}
	order, err := oc.Orders.MarkReadyToBill(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order ready to bill", order)
}

// CompleteOrder -> terminal non-payment completion, frees the table
func (oc *OrderController) CompleteOrder(c *gin.Context) {
	id, ok := parseID(c, "order_id")
	if !ok {
		return
	}
	order, err := oc.Orders.CompleteOrder(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order completed", order)
}

// GetKitchenDisplay -> orders the kitchen still works on
func (oc *OrderController) GetKitchenDisplay(c *gin.Context) {
	var orders []models.Order
	if err := oc.DB.Preload("OrderItems").
		Where("status IN ?", []string{
			string(models.OrderSentToKitchen),
			string(models.OrderReadyToBill),
		}).
		Order("created_at asc").
		Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Kitchen display orders", orders)
}

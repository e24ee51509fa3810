package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/services"
	"github.com/yeremiapane/resto-pos/utils"
)

type BillingController struct {
	DB      *gorm.DB
	Billing *services.BillingService
}

func NewBillingController(db *gorm.DB, billing *services.BillingService) *BillingController {
	return &BillingController{DB: db, Billing: billing}
}

type billRequest struct {
	services.BillInput
	Print bool `json:"print"`
}

// SaveOrder -> park the order, optionally printing a Saved invoice
func (bc *BillingController) SaveOrder(c *gin.Context) {
	id, ok := parseID(c, "order_id")
	if !ok {
		return
	}

	var body billRequest
	_ = c.ShouldBindJSON(&body)

	res, err := bc.Billing.SaveOrder(id, body.BillInput, body.Print)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order saved", res)
}

// BillOrder -> emit the bill, table stays occupied
func (bc *BillingController) BillOrder(c *gin.Context) {
	id, ok := parseID(c, "order_id")
	if !ok {
		return
	}

	var body billRequest
	_ = c.ShouldBindJSON(&body)

	res, err := bc.Billing.Bill(id, body.BillInput, body.Print)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order billed", res)
}

// Checkout -> settle the order, free the table, deduct stock
func (bc *BillingController) Checkout(c *gin.Context) {
	id, ok := parseID(c, "order_id")
	if !ok {
		return
	}

	var body billRequest
	_ = c.ShouldBindJSON(&body)

	res, err := bc.Billing.Checkout(id, body.BillInput, body.Print)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order paid", res)
}

// GetInvoices -> invoice history
func (bc *BillingController) GetInvoices(c *gin.Context) {
	var invoices []models.Invoice
	if err := bc.DB.Order("id asc").Find(&invoices).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of invoices", invoices)
}

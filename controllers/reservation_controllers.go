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

type ReservationController struct {
	DB       *gorm.DB
	Notifier broadcast.Notifier
}

func NewReservationController(db *gorm.DB, notifier broadcast.Notifier) *ReservationController {
	return &ReservationController{DB: db, Notifier: notifier}
}

// CreateReservation -> reserve a table. A table with an active reservation
// or an active order cannot be reserved again.
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var req struct {
		TableID    uint   `json:"table_id" binding:"required"`
		GuestName  string `json:"guest_name" binding:"required"`
		GuestPhone string `json:"guest_phone"`
		Guests     int    `json:"guests"`
		ReservedAt string `json:"reserved_at"` // RFC 3339, defaults to now
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var table models.Table
	if err := rc.DB.First(&table, req.TableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("table %d not found", req.TableID))
		return
	}
	if table.CurrentOrderID != nil {
		utils.RespondError(c, http.StatusConflict,
			fmt.Errorf("table %s has an active order", table.TableNumber))
		return
	}

	var active int64
	if err := rc.DB.Model(&models.Reservation{}).
		Where("table_id = ? AND status = ?", req.TableID, "active").
		Count(&active).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if active > 0 {
		utils.RespondError(c, http.StatusConflict,
			fmt.Errorf("table %s is already reserved", table.TableNumber))
		return
	}

	reservedAt := time.Now()
	if req.ReservedAt != "" {
		t, err := time.Parse(time.RFC3339, req.ReservedAt)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		reservedAt = t
	}

	guests := req.Guests
	if guests <= 0 {
		guests = 2
	}
	reservation := models.Reservation{
		TableID:    req.TableID,
		GuestName:  req.GuestName,
		GuestPhone: req.GuestPhone,
		Guests:     guests,
		Status:     "active",
		ReservedAt: reservedAt,
	}

	if err := rc.DB.Create(&reservation).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	table.Status = models.TableReserved
	if err := rc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	rc.Notifier.Publish(broadcast.EventTableUpdate, table)
	utils.RespondJSON(c, http.StatusCreated, "Reservation created", reservation)
}

func (rc *ReservationController) GetAllReservations(c *gin.Context) {
	var reservations []models.Reservation
	q := rc.DB.Order("reserved_at asc")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&reservations).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of reservations", reservations)
}

// CancelReservation -> the table goes back to free unless an order claimed
// it in the meantime.
func (rc *ReservationController) CancelReservation(c *gin.Context) {
	id, ok := parseID(c, "reservation_id")
	if !ok {
		return
	}

	var reservation models.Reservation
	if err := rc.DB.First(&reservation, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("reservation %d not found", id))
		return
	}
	if reservation.Status != "active" {
		utils.RespondError(c, http.StatusConflict,
			fmt.Errorf("reservation %d is %s", id, reservation.Status))
		return
	}

	reservation.Status = "cancelled"
	if err := rc.DB.Save(&reservation).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var table models.Table
	if err := rc.DB.First(&table, reservation.TableID).Error; err == nil {
		if table.CurrentOrderID == nil && table.Status == models.TableReserved {
			table.Status = models.TableFree
			rc.DB.Save(&table)
			rc.Notifier.Publish(broadcast.EventTableUpdate, table)
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Reservation cancelled", reservation)
}

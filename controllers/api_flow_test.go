package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/resto-pos/broadcast"
	"github.com/yeremiapane/resto-pos/router"
	"github.com/yeremiapane/resto-pos/services"
	"github.com/yeremiapane/resto-pos/store"
	"github.com/yeremiapane/resto-pos/utils"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.InitLogger()

	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, store.AutoMigrate(db))

	hub := broadcast.NewHub()
	st := store.NewGormStore(db)
	orders := services.NewOrderService(st, hub, nil)
	billing := services.NewBillingService(st, hub, nil)

	return router.SetupRouter(db, hub, router.Services{
		Orders:  orders,
		Billing: billing,
	})
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, utils.JSONResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var envelope utils.JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return w, envelope
}

// data decodes the envelope's data field into out.
func data(t *testing.T, envelope utils.JSONResponse, out interface{}) {
	t.Helper()
	raw, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}

func TestDineInFlowOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	w, _ := doJSON(t, r, http.MethodPost, "/api/floors", gin.H{"name": "Ground"})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := doJSON(t, r, http.MethodPost, "/api/tables", gin.H{
		"table_number": "T1", "seats": 4, "floor_id": 1,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var table struct {
		ID uint `json:"id"`
	}
	data(t, env, &table)

	w, _ = doJSON(t, r, http.MethodPost, "/api/menu/categories", gin.H{"name": "Mains"})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env = doJSON(t, r, http.MethodPost, "/api/menu", gin.H{
		"category_id": 1, "name": "Margherita", "price": "199.00",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var menuItem struct {
		ID uint `json:"id"`
	}
	data(t, env, &menuItem)

	w, env = doJSON(t, r, http.MethodPost, "/api/orders", gin.H{
		"type": "dine-in", "table_id": table.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Order struct {
			ID     uint   `json:"id"`
			Status string `json:"status"`
			Total  string `json:"total"`
		} `json:"order"`
	}
	data(t, env, &created)
	assert.Equal(t, "saved", created.Order.Status)
	assert.Equal(t, "0.00", created.Order.Total)

	orderPath := fmt.Sprintf("/api/orders/%d", created.Order.ID)

	w, _ = doJSON(t, r, http.MethodPost, orderPath+"/items", gin.H{
		"menu_item_id": menuItem.ID, "quantity": 2,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env = doJSON(t, r, http.MethodGet, orderPath, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		Total string `json:"total"`
	}
	data(t, env, &detail)
	assert.Equal(t, "398.00", detail.Total)

	w, _ = doJSON(t, r, http.MethodPost, orderPath+"/kitchen", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env = doJSON(t, r, http.MethodPost, orderPath+"/checkout", gin.H{
		"payment_mode": "card", "print": true,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var paid struct {
		Order struct {
			Status string `json:"status"`
		} `json:"order"`
		Invoice struct {
			Number string `json:"number"`
			Total  string `json:"total"`
		} `json:"invoice"`
		PrintReceipt bool `json:"print_receipt"`
	}
	data(t, env, &paid)
	assert.Equal(t, "paid", paid.Order.Status)
	assert.Equal(t, "INV-0001", paid.Invoice.Number)
	assert.Equal(t, "417.90", paid.Invoice.Total)
	assert.True(t, paid.PrintReceipt)

	// The table came back free.
	w, env = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/tables/%d", table.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var gotTable struct {
		Status string `json:"status"`
	}
	data(t, env, &gotTable)
	assert.Equal(t, "free", gotTable.Status)

	// Settling the same order twice is rejected.
	w, env = doJSON(t, r, http.MethodPost, orderPath+"/checkout", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Status)
}

func TestOrderNotFoundOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	w, env := doJSON(t, r, http.MethodGet, "/api/orders/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Status)

	w, _ = doJSON(t, r, http.MethodGet, "/api/orders/not-a-number", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTableCannotBeFreedWhileOrderActive(t *testing.T) {
	r := newTestRouter(t)

	w, _ := doJSON(t, r, http.MethodPost, "/api/floors", gin.H{"name": "Ground"})
	require.Equal(t, http.StatusCreated, w.Code)
	w, _ = doJSON(t, r, http.MethodPost, "/api/tables", gin.H{
		"table_number": "T1", "floor_id": 1,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/api/orders", gin.H{
		"type": "dine-in", "table_id": 1,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := doJSON(t, r, http.MethodPatch, "/api/tables/1/status", gin.H{"status": "free"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, env.Status)
}

func TestFloorDeleteConflictsWithTables(t *testing.T) {
	r := newTestRouter(t)

	w, _ := doJSON(t, r, http.MethodPost, "/api/floors", gin.H{"name": "Ground"})
	require.Equal(t, http.StatusCreated, w.Code)
	w, _ = doJSON(t, r, http.MethodPost, "/api/tables", gin.H{
		"table_number": "T1", "floor_id": 1,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := doJSON(t, r, http.MethodDelete, "/api/floors/1", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, env.Status)

	w, _ = doJSON(t, r, http.MethodDelete, "/api/tables/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = doJSON(t, r, http.MethodDelete, "/api/floors/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReservationConflicts(t *testing.T) {
	r := newTestRouter(t)

	w, _ := doJSON(t, r, http.MethodPost, "/api/floors", gin.H{"name": "Ground"})
	require.Equal(t, http.StatusCreated, w.Code)
	w, _ = doJSON(t, r, http.MethodPost, "/api/tables", gin.H{
		"table_number": "T1", "floor_id": 1,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/api/reservations", gin.H{
		"table_id": 1, "guest_name": "Asha",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Reserved table shows it.
	w, env := doJSON(t, r, http.MethodGet, "/api/tables/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var table struct {
		Status string `json:"status"`
	}
	data(t, env, &table)
	assert.Equal(t, "reserved", table.Status)

	// A second active reservation on the same table is refused.
	w, env = doJSON(t, r, http.MethodPost, "/api/reservations", gin.H{
		"table_id": 1, "guest_name": "Noor",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, env.Status)

	// Cancelling releases the table again.
	w, _ = doJSON(t, r, http.MethodPost, "/api/reservations/1/cancel", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, env = doJSON(t, r, http.MethodGet, "/api/tables/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data(t, env, &table)
	assert.Equal(t, "free", table.Status)
}

func TestWastageCannotGoNegative(t *testing.T) {
	r := newTestRouter(t)

	w, _ := doJSON(t, r, http.MethodPost, "/api/inventory", gin.H{
		"name": "Flour", "stock": "100.00", "unit": "g",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := doJSON(t, r, http.MethodPost, "/api/inventory/1/wastage", gin.H{
		"quantity": "150.00", "reason": "spoiled",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Status)

	w, _ = doJSON(t, r, http.MethodPost, "/api/inventory/1/wastage", gin.H{
		"quantity": "40.00", "reason": "spoiled",
	})
	require.Equal(t, http.StatusCreated, w.Code)
}

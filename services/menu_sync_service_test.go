package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yeremiapane/resto-pos/broadcast"
	"github.com/yeremiapane/resto-pos/digitalmenu"
	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/store"
)

// fakeChannel is an in-memory MenuChannel. Mutations through the write-back
// methods are visible to the next CustomersWithOrders call, like the real
// document store.
type fakeChannel struct {
	mu        sync.Mutex
	customers []digitalmenu.Customer
	failMark  bool
}

func (f *fakeChannel) CustomersWithOrders(ctx context.Context) ([]digitalmenu.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]digitalmenu.Customer, len(f.customers))
	copy(out, f.customers)
	return out, nil
}

func (f *fakeChannel) MarkOrderSynced(ctx context.Context, customerID, orderID string, posOrderID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failMark {
		return context.DeadlineExceeded
	}
	now := time.Now()
	for ci := range f.customers {
		if f.customers[ci].ID != customerID {
			continue
		}
		for oi := range f.customers[ci].Orders {
			if f.customers[ci].Orders[oi].ID == orderID {
				f.customers[ci].Orders[oi].SyncedToPOS = true
				f.customers[ci].Orders[oi].SyncedAt = &now
				f.customers[ci].Orders[oi].POSOrderID = posOrderID
			}
		}
	}
	return nil
}

func (f *fakeChannel) SetCustomerTableStatus(ctx context.Context, customerID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ci := range f.customers {
		if f.customers[ci].ID == customerID {
			f.customers[ci].TableStatus = status
		}
	}
	return nil
}

func (f *fakeChannel) setOrderStatus(orderID, status, payment string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ci := range f.customers {
		for oi := range f.customers[ci].Orders {
			if f.customers[ci].Orders[oi].ID == orderID {
				if status != "" {
					f.customers[ci].Orders[oi].Status = status
				}
				if payment != "" {
					f.customers[ci].Orders[oi].PaymentStatus = payment
				}
			}
		}
	}
}

func newSyncService(db *gorm.DB, channel MenuChannel) (*MenuSyncService, *OrderService) {
	st := store.NewGormStore(db)
	orders := NewOrderService(st, broadcast.NopNotifier{}, channel)
	billing := NewBillingService(st, broadcast.NopNotifier{}, channel)
	return NewMenuSyncService(st, channel, orders, billing, broadcast.NopNotifier{}, NewSyncState()), orders
}

func extOrder(id, status string, items ...digitalmenu.CartItem) digitalmenu.Order {
	var total float64
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	return digitalmenu.Order{
		ID:          id,
		OrderDate:   "2026-08-30",
		Status:      status,
		TableNumber: "T1",
		Total:       total * (1 + TaxRate),
		Items:       items,
	}
}

func TestSyncIngestsPendingOrderOnce(t *testing.T) {
	db := newTestDB(t)
	seedTable(t, db, "T1", "Ground")
	seedMenuItem(t, db, "Margherita", "199.00")

	channel := &fakeChannel{customers: []digitalmenu.Customer{{
		ID:    "cust-1",
		Name:  "Asha",
		Phone: "555-0101",
		Orders: []digitalmenu.Order{
			extOrder("ext-1", digitalmenu.ExtStatusPending,
				digitalmenu.CartItem{Name: "Margherita", Price: 199.00, Quantity: 2}),
		},
	}}}
	svc, _ := newSyncService(db, channel)

	synced, updated, err := svc.SyncOrders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, synced)
	assert.Equal(t, 0, updated)

	// Second pass with nothing changed converts nothing.
	synced, updated, err = svc.SyncOrders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, synced)
	assert.Equal(t, 0, updated)

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var order models.Order
	require.NoError(t, db.Preload("OrderItems").Where("external_order_id = ?", "ext-1").First(&order).Error)
	assert.Equal(t, models.OrderSentToKitchen, order.Status)
	assert.Equal(t, models.OrderDineIn, order.Type)
	assert.Equal(t, "417.90", order.Total)
	require.Len(t, order.OrderItems, 1)
	assert.Equal(t, "Margherita", order.OrderItems[0].Name)
	require.NotNil(t, order.TableID)

	// Write-backs landed on the channel side.
	customers, err := channel.CustomersWithOrders(context.Background())
	require.NoError(t, err)
	assert.True(t, customers[0].Orders[0].SyncedToPOS)
	assert.Equal(t, order.ID, customers[0].Orders[0].POSOrderID)
	assert.Equal(t, string(models.TableOccupied), customers[0].TableStatus)
}

func TestSyncIngestExactlyOnceWhenMarkFails(t *testing.T) {
	db := newTestDB(t)
	seedTable(t, db, "T1", "Ground")
	seedMenuItem(t, db, "Margherita", "199.00")

	channel := &fakeChannel{
		failMark: true,
		customers: []digitalmenu.Customer{{
			ID: "cust-1",
			Orders: []digitalmenu.Order{
				extOrder("ext-1", digitalmenu.ExtStatusPending,
					digitalmenu.CartItem{Name: "Margherita", Price: 199.00, Quantity: 1}),
			},
		}},
	}
	svc, _ := newSyncService(db, channel)

	// The flag never persists, so the in-memory processed set is the only
	// duplicate guard.
	for i := 0; i < 3; i++ {
		_, _, err := svc.SyncOrders(context.Background())
		require.NoError(t, err)
	}

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSyncSkipsUningestableStatuses(t *testing.T) {
	db := newTestDB(t)
	seedTable(t, db, "T1", "Ground")

	channel := &fakeChannel{customers: []digitalmenu.Customer{{
		ID: "cust-1",
		Orders: []digitalmenu.Order{
			extOrder("ext-1", digitalmenu.ExtStatusCancelled,
				digitalmenu.CartItem{Name: "Margherita", Price: 199.00, Quantity: 1}),
		},
	}}}
	svc, _ := newSyncService(db, channel)

	synced, _, err := svc.SyncOrders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, synced)

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSyncUnknownMenuItemFallsBack(t *testing.T) {
	db := newTestDB(t)
	seedTable(t, db, "T1", "Ground")

	channel := &fakeChannel{customers: []digitalmenu.Customer{{
		ID: "cust-1",
		Orders: []digitalmenu.Order{
			extOrder("ext-1", digitalmenu.ExtStatusPending,
				digitalmenu.CartItem{Name: "Secret Special", Price: 50.00, Quantity: 1}),
		},
	}}}
	svc, _ := newSyncService(db, channel)

	synced, _, err := svc.SyncOrders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, synced)

	var order models.Order
	require.NoError(t, db.Preload("OrderItems").Where("external_order_id = ?", "ext-1").First(&order).Error)
	require.Len(t, order.OrderItems, 1)

	// The line keeps its channel name but points at the seeded placeholder.
	var fallback models.MenuItem
	require.NoError(t, db.Where("name = ?", models.UnknownMenuItemName).First(&fallback).Error)
	assert.Equal(t, fallback.ID, order.OrderItems[0].MenuItemID)
	assert.Equal(t, "Secret Special", order.OrderItems[0].Name)
}

func TestSyncResolvesTableByFloor(t *testing.T) {
	db := newTestDB(t)
	seedTable(t, db, "T1", "Ground")
	upstairs := seedTable(t, db, "T1", "First")
	seedMenuItem(t, db, "Margherita", "199.00")

	ext := extOrder("ext-1", digitalmenu.ExtStatusPending,
		digitalmenu.CartItem{Name: "Margherita", Price: 199.00, Quantity: 1})
	ext.FloorName = "First"

	channel := &fakeChannel{customers: []digitalmenu.Customer{{
		ID:     "cust-1",
		Orders: []digitalmenu.Order{ext},
	}}}
	svc, _ := newSyncService(db, channel)

	_, _, err := svc.SyncOrders(context.Background())
	require.NoError(t, err)

	var order models.Order
	require.NoError(t, db.Where("external_order_id = ?", "ext-1").First(&order).Error)
	require.NotNil(t, order.TableID)
	assert.Equal(t, upstairs.ID, *order.TableID)
}

func TestSyncStatusDeltaMapsOntoItems(t *testing.T) {
	db := newTestDB(t)
	seedTable(t, db, "T1", "Ground")
	seedMenuItem(t, db, "Margherita", "199.00")

	channel := &fakeChannel{customers: []digitalmenu.Customer{{
		ID: "cust-1",
		Orders: []digitalmenu.Order{
			extOrder("ext-1", digitalmenu.ExtStatusPending,
				digitalmenu.CartItem{Name: "Margherita", Price: 199.00, Quantity: 1}),
		},
	}}}
	svc, _ := newSyncService(db, channel)

	_, _, err := svc.SyncOrders(context.Background())
	require.NoError(t, err)

	channel.setOrderStatus("ext-1", digitalmenu.ExtStatusPreparing, "")
	_, updated, err := svc.SyncOrders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	var order models.Order
	require.NoError(t, db.Preload("OrderItems").Where("external_order_id = ?", "ext-1").First(&order).Error)
	require.Len(t, order.OrderItems, 1)
	assert.Equal(t, models.ItemPreparing, order.OrderItems[0].Status)

	// Same observation again: no further update.
	_, updated, err = svc.SyncOrders(context.Background())
	require.NoError(t, err)
	assert.Zero(t, updated)

	// Cancelled clears the items off the kitchen board.
	channel.setOrderStatus("ext-1", digitalmenu.ExtStatusCancelled, "")
	_, updated, err = svc.SyncOrders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
	require.NoError(t, db.Preload("OrderItems").Where("external_order_id = ?", "ext-1").First(&order).Error)
	assert.Equal(t, models.ItemServed, order.OrderItems[0].Status)
}

func TestSyncStatusDeltaDerivesTableStatus(t *testing.T) {
	db := newTestDB(t)
	table := seedTable(t, db, "T1", "Ground")
	seedMenuItem(t, db, "Margherita", "199.00")

	channel := &fakeChannel{customers: []digitalmenu.Customer{{
		ID: "cust-1",
		Orders: []digitalmenu.Order{
			extOrder("ext-1", digitalmenu.ExtStatusPending,
				digitalmenu.CartItem{Name: "Margherita", Price: 199.00, Quantity: 1}),
		},
	}}}
	svc, _ := newSyncService(db, channel)

	_, _, err := svc.SyncOrders(context.Background())
	require.NoError(t, err)

	channel.setOrderStatus("ext-1", digitalmenu.ExtStatusPreparing, "")
	_, _, err = svc.SyncOrders(context.Background())
	require.NoError(t, err)

	require.NoError(t, db.First(&table, table.ID).Error)
	assert.Equal(t, models.TablePreparing, table.Status)

	// Channel says the order is done: every item is served, so the bound
	// table follows and the customer document sees it too.
	channel.setOrderStatus("ext-1", digitalmenu.ExtStatusCompleted, "")
	_, _, err = svc.SyncOrders(context.Background())
	require.NoError(t, err)

	require.NoError(t, db.First(&table, table.ID).Error)
	assert.Equal(t, models.TableServed, table.Status)

	customers, err := channel.CustomersWithOrders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, string(models.TableServed), customers[0].TableStatus)
}

func TestSyncInvoiceGeneratedTriggersCheckout(t *testing.T) {
	spellings := []string{
		digitalmenu.ExtStatusInvoiceGenerated,
		digitalmenu.ExtStatusInvoiceGeneratedSpace,
	}

	for _, spelling := range spellings {
		t.Run(spelling, func(t *testing.T) {
			db := newTestDB(t)
			seedTable(t, db, "T1", "Ground")
			seedMenuItem(t, db, "Margherita", "199.00")

			channel := &fakeChannel{customers: []digitalmenu.Customer{{
				ID: "cust-1",
				Orders: []digitalmenu.Order{
					extOrder("ext-1", digitalmenu.ExtStatusPending,
						digitalmenu.CartItem{Name: "Margherita", Price: 199.00, Quantity: 1}),
				},
			}}}
			svc, _ := newSyncService(db, channel)

			_, _, err := svc.SyncOrders(context.Background())
			require.NoError(t, err)

			channel.setOrderStatus("ext-1", "", spelling)
			_, updated, err := svc.SyncOrders(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 1, updated)

			var order models.Order
			require.NoError(t, db.Where("external_order_id = ?", "ext-1").First(&order).Error)
			assert.Equal(t, models.OrderPaid, order.Status)

			var invoices int64
			require.NoError(t, db.Model(&models.Invoice{}).Count(&invoices).Error)
			assert.EqualValues(t, 1, invoices)

			// The settled order is left alone afterwards.
			_, updated, err = svc.SyncOrders(context.Background())
			require.NoError(t, err)
			assert.Zero(t, updated)
			require.NoError(t, db.Model(&models.Invoice{}).Count(&invoices).Error)
			assert.EqualValues(t, 1, invoices)
		})
	}
}

func TestSyncRehydrateRestoresProcessedSet(t *testing.T) {
	db := newTestDB(t)
	seedTable(t, db, "T1", "Ground")
	seedMenuItem(t, db, "Margherita", "199.00")

	synced := extOrder("ext-1", digitalmenu.ExtStatusPending,
		digitalmenu.CartItem{Name: "Margherita", Price: 199.00, Quantity: 1})
	synced.SyncedToPOS = true
	synced.POSOrderID = 42

	channel := &fakeChannel{customers: []digitalmenu.Customer{{
		ID:     "cust-1",
		Orders: []digitalmenu.Order{synced},
	}}}
	svc, _ := newSyncService(db, channel)

	svc.Start(time.Hour)
	defer svc.Stop()

	status := svc.Status()
	assert.True(t, status.Running)
	assert.Equal(t, 1, status.ProcessedOrders)

	// The restored order is not converted again.
	_, _, err := svc.SyncOrders(context.Background())
	require.NoError(t, err)
	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSyntheticIDFallsBackToCustomerAndDate(t *testing.T) {
	ext := digitalmenu.Order{OrderDate: "2026-08-30"}
	assert.Equal(t, "cust-1_2026-08-30", ext.SyntheticID("cust-1"))

	ext.ID = "ext-9"
	assert.Equal(t, "ext-9", ext.SyntheticID("cust-1"))
}

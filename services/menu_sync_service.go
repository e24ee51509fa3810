package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/yeremiapane/resto-pos/broadcast"
	"github.com/yeremiapane/resto-pos/digitalmenu"
	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/store"
	"github.com/yeremiapane/resto-pos/utils"
)

// DefaultSyncInterval is how often the reconciliation loop polls the
// digital-menu channel.
const DefaultSyncInterval = 5000 * time.Millisecond

// MenuSyncService reconciles the digital-menu channel with the POS. Each
// tick runs two passes: ingest (convert unseen external orders into native
// ones, exactly once per process lifetime) and update (propagate external
// status/payment deltas onto the linked native orders). One external order's
// failure never aborts the tick for the others.
type MenuSyncService struct {
	store    store.Store
	channel  MenuChannel
	orders   *OrderService
	billing  *BillingService
	notifier broadcast.Notifier
	state    *SyncState

	interval time.Duration
	stopChan chan struct{}

	mu      sync.Mutex
	running bool
	// tickMu serializes ticks: if a tick outlives the interval the next one
	// is skipped, not queued.
	tickMu sync.Mutex
}

func NewMenuSyncService(st store.Store, channel MenuChannel, orders *OrderService,
	billing *BillingService, notifier broadcast.Notifier, state *SyncState) *MenuSyncService {
	return &MenuSyncService{
		store:    st,
		channel:  channel,
		orders:   orders,
		billing:  billing,
		notifier: notifier,
		state:    state,
		interval: DefaultSyncInterval,
	}
}

// Start rehydrates the reconciliation state from the channel's persisted
// syncedToPos flags and launches the polling loop. interval <= 0 keeps the
// default.
func (s *MenuSyncService) Start(interval time.Duration) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	if interval > 0 {
		s.interval = interval
	}
	s.running = true
	s.stopChan = make(chan struct{})
	s.mu.Unlock()

	if err := s.rehydrate(context.Background()); err != nil {
		utils.ErrorLogger.Printf("menu sync: rehydrate: %v", err)
	}

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, _, err := s.SyncOrders(context.Background()); err != nil {
					utils.ErrorLogger.Printf("menu sync: tick: %v", err)
				}
			case <-s.stopChan:
				return
			}
		}
	}()

	utils.InfoLogger.Printf("menu sync started, interval %s", s.interval)
}

func (s *MenuSyncService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	close(s.stopChan)
	s.running = false
	utils.InfoLogger.Println("menu sync stopped")
}

type SyncStatus struct {
	Running         bool `json:"running"`
	ProcessedOrders int  `json:"processed_orders"`
}

func (s *MenuSyncService) Status() SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SyncStatus{
		Running:         s.running,
		ProcessedOrders: s.state.ProcessedCount(),
	}
}

// rehydrate rebuilds the processed set, links and observations from orders
// already flagged syncedToPos, so a restart does not reprocess them.
func (s *MenuSyncService) rehydrate(ctx context.Context) error {
	customers, err := s.channel.CustomersWithOrders(ctx)
	if err != nil {
		return err
	}

	restored := 0
	for _, customer := range customers {
		for _, ext := range customer.Orders {
			if !ext.SyncedToPOS {
				continue
			}
			sid := ext.SyntheticID(customer.ID)
			s.state.MarkProcessed(sid)
			s.state.Record(sid, ext.Status, ext.PaymentStatus)
			if ext.POSOrderID != 0 {
				s.state.Link(sid, ext.POSOrderID)
			}
			restored++
		}
	}
	if restored > 0 {
		utils.InfoLogger.Printf("menu sync: restored %d synced orders", restored)
	}
	return nil
}

// SyncOrders runs one full reconciliation pass and returns how many external
// orders were newly synced and how many updated. Also the body of every
// timer tick.
func (s *MenuSyncService) SyncOrders(ctx context.Context) (synced, updated int, err error) {
	if !s.tickMu.TryLock() {
		// previous tick still running
		return 0, 0, nil
	}
	defer s.tickMu.Unlock()

	customers, err := s.channel.CustomersWithOrders(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("list digital-menu customers: %w", err)
	}

	for _, customer := range customers {
		for _, ext := range customer.Orders {
			sid := ext.SyntheticID(customer.ID)

			if !ext.SyncedToPOS && ingestable(ext) {
				if s.ingest(ctx, customer, ext, sid) {
					synced++
				}
				continue
			}

			if s.state.Processed(sid) || ext.SyncedToPOS {
				if s.update(ctx, ext, sid) {
					updated++
				}
			}
		}
	}
	return synced, updated, nil
}

// ingestable: only orders the kitchen should see get converted.
func ingestable(ext digitalmenu.Order) bool {
	return ext.Status == digitalmenu.ExtStatusPending || ext.Status == digitalmenu.ExtStatusConfirmed
}

// ingest converts one unseen external order into a native one. The id is
// marked processed before any external call to keep the duplicate window as
// small as possible, and unmarked again when conversion fails so the next
// tick retries.
func (s *MenuSyncService) ingest(ctx context.Context, customer digitalmenu.Customer, ext digitalmenu.Order, sid string) bool {
	if !s.state.MarkProcessed(sid) {
		return false
	}

	order, err := s.convert(ctx, customer, ext, sid)
	if err != nil {
		s.state.Unmark(sid)
		utils.ErrorLogger.Printf("menu sync: convert order %s: %v", sid, err)
		return false
	}

	s.state.Link(sid, order.ID)
	s.state.Record(sid, ext.Status, ext.PaymentStatus)

	if err := s.channel.MarkOrderSynced(ctx, customer.ID, ext.ID, order.ID); err != nil {
		// The native order exists; the in-memory mark still prevents a
		// duplicate until restart.
		utils.ErrorLogger.Printf("menu sync: mark order %s synced: %v", sid, err)
	}

	s.notifier.Publish(broadcast.EventMenuOrderSynced, order)
	utils.InfoLogger.Printf("menu sync: external order %s -> order %d", sid, order.ID)
	return true
}

// convert builds the native order: dine-in, billed when the channel reports
// it paid, sent_to_kitchen otherwise; table resolved by number and optional
// floor name; items matched by menu name case-insensitively with the
// "unknown" placeholder as fallback; the channel's own total kept.
func (s *MenuSyncService) convert(ctx context.Context, customer digitalmenu.Customer, ext digitalmenu.Order, sid string) (*models.Order, error) {
	status := models.OrderSentToKitchen
	if ext.Paid() {
		status = models.OrderBilled
	}

	table, err := s.resolveTable(ext.TableNumber, ext.FloorName)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		Type:               models.OrderDineIn,
		Status:             status,
		Total:              "0.00",
		CustomerName:       customer.Name,
		CustomerPhone:      customer.Phone,
		PaymentMode:        ext.PaymentMethod,
		ExternalOrderID:    sid,
		ExternalCustomerID: customer.ID,
	}
	if table != nil {
		order.TableID = &table.ID
	}
	if err := s.store.CreateOrder(order); err != nil {
		return nil, err
	}

	if table != nil {
		if err := s.store.UpdateTableOrder(table.ID, &order.ID); err != nil {
			return nil, err
		}
		if err := s.store.UpdateTableStatus(table.ID, models.TableOccupied); err != nil {
			return nil, err
		}
	}

	var subtotal float64
	for _, line := range ext.Items {
		menuItem, err := s.store.GetMenuItemByName(line.Name)
		if err != nil {
			return nil, err
		}
		if menuItem == nil {
			menuItem, err = s.store.GetMenuItemByName(models.UnknownMenuItemName)
			if err != nil {
				return nil, err
			}
			if menuItem == nil {
				return nil, fmt.Errorf("no menu item matches %q and the %q fallback is missing",
					line.Name, models.UnknownMenuItemName)
			}
			utils.InfoLogger.Printf("menu sync: order %s: no menu item named %q, using fallback", sid, line.Name)
		}

		item := &models.OrderItem{
			OrderID:    order.ID,
			MenuItemID: menuItem.ID,
			Name:       line.Name,
			Price:      utils.FormatAmount(line.Price),
			Quantity:   line.Quantity,
			Status:     models.ItemNew,
			Vegetarian: menuItem.Vegetarian,
			Notes:      line.Notes,
		}
		if err := s.store.CreateOrderItem(item); err != nil {
			return nil, err
		}
		order.OrderItems = append(order.OrderItems, *item)
		subtotal += line.Price * float64(line.Quantity)
	}

	// The channel's total is authoritative; a mismatch against the local
	// recomputation is logged, not rejected.
	recomputed := subtotal + subtotal*TaxRate
	if !utils.AmountsEqual(ext.Total, recomputed) {
		utils.InfoLogger.Printf("menu sync: order %s total %s differs from recomputed %s",
			sid, utils.FormatAmount(ext.Total), utils.FormatAmount(recomputed))
	}
	order.Total = utils.FormatAmount(ext.Total)
	if err := s.store.UpdateOrderTotal(order.ID, order.Total); err != nil {
		return nil, err
	}

	if err := s.channel.SetCustomerTableStatus(ctx, customer.ID, string(models.TableOccupied)); err != nil {
		utils.ErrorLogger.Printf("menu sync: mirror occupied for order %s: %v", sid, err)
	}

	return order, nil
}

// resolveTable finds the table by number, narrowing by floor name when one
// is given. An unknown floor or an ambiguous number falls back to the first
// match with a warning; no match at all is not an error, the order simply
// stays unbound.
func (s *MenuSyncService) resolveTable(number, floorName string) (*models.Table, error) {
	if number == "" {
		return nil, nil
	}

	tables, err := s.store.GetTablesByNumber(number)
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		utils.InfoLogger.Printf("menu sync: no table numbered %q", number)
		return nil, nil
	}

	if floorName != "" {
		floor, err := s.store.GetFloorByName(floorName)
		if err != nil {
			return nil, err
		}
		if floor != nil {
			for i := range tables {
				if tables[i].FloorID == floor.ID {
					return &tables[i], nil
				}
			}
		}
		utils.InfoLogger.Printf("menu sync: table %q: floor %q not matched, using first of %d candidates",
			number, floorName, len(tables))
	} else if len(tables) > 1 {
		utils.InfoLogger.Printf("menu sync: table %q is ambiguous (%d floors), using first", number, len(tables))
	}
	return &tables[0], nil
}

// update is the catch-up half of the tick. invoice_generated (either
// spelling) forces auto checkout regardless of whether the cached status
// changed; any other delta maps the external status onto every item of the
// linked native order.
func (s *MenuSyncService) update(ctx context.Context, ext digitalmenu.Order, sid string) bool {
	orderID, ok := s.state.LinkedOrder(sid)
	if !ok {
		if ext.POSOrderID != 0 {
			orderID = ext.POSOrderID
		} else {
			order, err := s.store.GetOrderByExternalID(sid)
			if err != nil || order == nil {
				return false
			}
			orderID = order.ID
		}
		s.state.Link(sid, orderID)
	}

	if ext.InvoiceRequested() {
		done, err := s.autoCheckout(orderID, ext)
		if err != nil {
			utils.ErrorLogger.Printf("menu sync: auto checkout order %s: %v", sid, err)
			return false
		}
		s.state.Record(sid, ext.Status, ext.PaymentStatus)
		return done
	}

	if !s.state.Changed(sid, ext.Status, ext.PaymentStatus) {
		return false
	}

	itemStatus, ok := mapExternalStatus(ext.Status)
	if !ok {
		// Unknown vocabulary: record so we stop re-examining it.
		s.state.Record(sid, ext.Status, ext.PaymentStatus)
		return false
	}

	items, err := s.store.GetOrderItems(orderID)
	if err != nil {
		utils.ErrorLogger.Printf("menu sync: items of order %d: %v", orderID, err)
		return false
	}
	// Through the order service, so table-status derivation and the customer
	// mirror run exactly as they do for a waiter-made change.
	for _, it := range items {
		if _, err := s.orders.UpdateItemStatus(it.ID, string(itemStatus)); err != nil {
			// Leave the observation stale so next tick retries.
			utils.ErrorLogger.Printf("menu sync: update item %d: %v", it.ID, err)
			return false
		}
	}

	s.state.Record(sid, ext.Status, ext.PaymentStatus)
	s.notifier.Publish(broadcast.EventOrderUpdate, map[string]interface{}{
		"order_id":    orderID,
		"item_status": itemStatus,
	})
	return true
}

// mapExternalStatus is the fixed external-to-item status table. Cancelled
// maps to served: the channel handles its own cancellation flow, the POS
// only stops showing the items as pending work.
func mapExternalStatus(ext string) (models.OrderItemStatus, bool) {
	switch strings.ToLower(ext) {
	case digitalmenu.ExtStatusPending, digitalmenu.ExtStatusConfirmed:
		return models.ItemNew, true
	case digitalmenu.ExtStatusPreparing:
		return models.ItemPreparing, true
	case digitalmenu.ExtStatusCompleted, digitalmenu.ExtStatusCancelled:
		return models.ItemServed, true
	}
	return "", false
}

// autoCheckout settles a channel-side-invoiced order through the same
// checkout path the cashier uses, with identical tolerance and side-effect
// ordering. Orders already billed, paid or completed are left alone.
func (s *MenuSyncService) autoCheckout(orderID uint, ext digitalmenu.Order) (bool, error) {
	order, err := s.store.GetOrder(orderID)
	if err != nil {
		return false, err
	}
	if order == nil {
		return false, notFoundErr("order", orderID)
	}
	switch order.Status {
	case models.OrderBilled, models.OrderPaid, models.OrderCompleted:
		return false, nil
	}

	mode := ext.PaymentMethod
	if mode == "" {
		mode = "cash"
	}

	if _, err := s.billing.Checkout(orderID, BillInput{PaymentMode: mode}, false); err != nil {
		return false, err
	}
	return true, nil
}

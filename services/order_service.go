package services

import (
	"context"
	"time"

	"github.com/yeremiapane/resto-pos/broadcast"
	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/store"
	"github.com/yeremiapane/resto-pos/utils"
)

// OrderService owns the order lifecycle:
// saved -> sent_to_kitchen -> ready_to_bill -> billed -> paid -> completed.
// Billing transitions (billed/paid) live in BillingService; everything else
// is here. Every mutation broadcasts after the write lands.
type OrderService struct {
	store    store.Store
	notifier broadcast.Notifier
	channel  MenuChannel // nil when no digital-menu channel is wired
}

func NewOrderService(st store.Store, notifier broadcast.Notifier, channel MenuChannel) *OrderService {
	return &OrderService{store: st, notifier: notifier, channel: channel}
}

type CreateOrderInput struct {
	Type          string `json:"type"`
	TableID       *uint  `json:"table_id,omitempty"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
}

// CreateOrder creates a fresh order with status saved and total 0.00. When a
// table is supplied the table is linked and moved to occupied; the link and
// the status change are two separate writes, in that order.
func (s *OrderService) CreateOrder(in CreateOrderInput, printTicket bool) (*models.Order, bool, error) {
	orderType, err := models.ParseOrderType(in.Type)
	if err != nil {
		return nil, false, validationErr("%v", err)
	}

	var table *models.Table
	if in.TableID != nil {
		table, err = s.store.GetTable(*in.TableID)
		if err != nil {
			return nil, false, err
		}
		if table == nil {
			return nil, false, notFoundErr("table", *in.TableID)
		}
	}

	order := &models.Order{
		TableID:       in.TableID,
		Type:          orderType,
		Status:        models.OrderSaved,
		Total:         "0.00",
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
	}
	if err := s.store.CreateOrder(order); err != nil {
		return nil, false, err
	}

	if table != nil {
		if err := s.store.UpdateTableOrder(table.ID, &order.ID); err != nil {
			return nil, false, err
		}
		if err := s.store.UpdateTableStatus(table.ID, models.TableOccupied); err != nil {
			return nil, false, err
		}
		s.notifier.Publish(broadcast.EventTableUpdate, map[string]interface{}{
			"table_id": table.ID,
			"status":   models.TableOccupied,
		})
	}

	s.notifier.Publish(broadcast.EventOrderCreated, order)
	return order, printTicket, nil
}

func (s *OrderService) GetOrder(id uint) (*models.Order, error) {
	order, err := s.store.GetOrder(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, notFoundErr("order", id)
	}
	return order, nil
}

type AddItemInput struct {
	MenuItemID uint   `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
	Notes      string `json:"notes"`
}

// AddItem appends an item with the menu item's name and price snapshotted,
// recomputes the order total and re-derives the table status.
func (s *OrderService) AddItem(orderID uint, in AddItemInput, printTicket bool) (*models.OrderItem, bool, error) {
	if in.Quantity <= 0 {
		return nil, false, validationErr("quantity must be positive, got %d", in.Quantity)
	}

	order, err := s.store.GetOrder(orderID)
	if err != nil {
		return nil, false, err
	}
	if order == nil {
		return nil, false, notFoundErr("order", orderID)
	}

	picked, err := s.store.GetMenuItem(in.MenuItemID)
	if err != nil {
		return nil, false, err
	}
	if picked == nil {
		return nil, false, notFoundErr("menu item", in.MenuItemID)
	}

	item := &models.OrderItem{
		OrderID:    orderID,
		MenuItemID: picked.ID,
		Name:       picked.Name,
		Price:      picked.Price,
		Quantity:   in.Quantity,
		Status:     models.ItemNew,
		Vegetarian: picked.Vegetarian,
		Notes:      in.Notes,
	}
	if err := s.store.CreateOrderItem(item); err != nil {
		return nil, false, err
	}

	if _, err := s.recomputeTotal(orderID); err != nil {
		return nil, false, err
	}
	s.deriveTableStatus(order)

	s.notifier.Publish(broadcast.EventOrderItemUpdate, item)
	return item, printTicket, nil
}

// UpdateItemStatus sets an item to one of new/preparing/ready/served, then
// re-derives the table status from the full item set.
func (s *OrderService) UpdateItemStatus(itemID uint, status string) (*models.OrderItem, error) {
	parsed, err := models.ParseOrderItemStatus(status)
	if err != nil {
		return nil, validationErr("%v", err)
	}

	item, err := s.store.GetOrderItem(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, notFoundErr("order item", itemID)
	}

	if err := s.store.UpdateOrderItemStatus(itemID, parsed); err != nil {
		return nil, err
	}
	item.Status = parsed

	order, err := s.store.GetOrder(item.OrderID)
	if err != nil {
		return nil, err
	}
	if order != nil {
		s.deriveTableStatus(order)
	}

	s.notifier.Publish(broadcast.EventOrderItemUpdate, item)
	s.notifier.Publish(broadcast.EventKitchenUpdate, map[string]interface{}{
		"order_id": item.OrderID,
		"item_id":  item.ID,
		"status":   parsed,
	})
	return item, nil
}

// DeleteItem removes the item and recomputes the order total. It does not
// re-derive the table status; removal cannot make the remaining set less
// ready, and the next status change re-derives anyway.
func (s *OrderService) DeleteItem(itemID uint) error {
	item, err := s.store.GetOrderItem(itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return notFoundErr("order item", itemID)
	}

	if err := s.store.DeleteOrderItem(itemID); err != nil {
		return err
	}
	if _, err := s.recomputeTotal(item.OrderID); err != nil {
		return err
	}

	s.notifier.Publish(broadcast.EventOrderUpdate, map[string]interface{}{
		"order_id":     item.OrderID,
		"deleted_item": itemID,
	})
	return nil
}

// SendToKitchen moves a saved order to sent_to_kitchen. No side effects
// beyond the status write and the broadcast; the print flag is the caller's
// KOT intent, passed through unchanged.
func (s *OrderService) SendToKitchen(orderID uint, printTicket bool) (*models.Order, bool, error) {
	order, err := s.store.GetOrder(orderID)
	if err != nil {
		return nil, false, err
	}
	if order == nil {
		return nil, false, notFoundErr("order", orderID)
	}
	if order.Status != models.OrderSaved {
		return nil, false, validationErr("order %d is %s, only saved orders can be sent to kitchen", orderID, order.Status)
	}

	if err := s.store.UpdateOrderStatus(orderID, models.OrderSentToKitchen); err != nil {
		return nil, false, err
	}
	order.Status = models.OrderSentToKitchen

	s.notifier.Publish(broadcast.EventOrderUpdate, order)
	return order, printTicket, nil
}

// MarkReadyToBill is the waiter's explicit signal that the table wants the
// bill. Derivation never enters this state on its own.
func (s *OrderService) MarkReadyToBill(orderID uint) (*models.Order, error) {
	order, err := s.store.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, notFoundErr("order", orderID)
	}
	switch order.Status {
	case models.OrderSaved, models.OrderSentToKitchen:
	default:
		return nil, validationErr("order %d is %s, cannot mark ready to bill", orderID, order.Status)
	}

	if err := s.store.UpdateOrderStatus(orderID, models.OrderReadyToBill); err != nil {
		return nil, err
	}
	order.Status = models.OrderReadyToBill

	s.notifier.Publish(broadcast.EventOrderUpdate, order)
	return order, nil
}

// CompleteOrder is the terminal non-payment completion path (picked-up or
// delivered orders fulfilled without a bill step). A bound table is released.
func (s *OrderService) CompleteOrder(orderID uint) (*models.Order, error) {
	order, err := s.store.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, notFoundErr("order", orderID)
	}

	if err := s.store.CompleteOrder(orderID, time.Now()); err != nil {
		return nil, err
	}
	order.Status = models.OrderCompleted

	if order.TableID != nil {
		if err := s.store.UpdateTableOrder(*order.TableID, nil); err != nil {
			return nil, err
		}
		if err := s.store.UpdateTableStatus(*order.TableID, models.TableFree); err != nil {
			return nil, err
		}
		s.notifier.Publish(broadcast.EventTableUpdate, map[string]interface{}{
			"table_id": *order.TableID,
			"status":   models.TableFree,
		})
	}

	s.notifier.Publish(broadcast.EventOrderUpdate, order)
	return order, nil
}

// recomputeTotal reads all current items and writes the derived total back.
// Last write wins; an interleaved add between the read and the write is
// accepted for this workload.
func (s *OrderService) recomputeTotal(orderID uint) (string, error) {
	items, err := s.store.GetOrderItems(orderID)
	if err != nil {
		return "", err
	}
	var sum float64
	for _, it := range items {
		sum += utils.MustParseAmount(it.Price) * float64(it.Quantity)
	}
	total := utils.FormatAmount(sum)
	if err := s.store.UpdateOrderTotal(orderID, total); err != nil {
		return "", err
	}
	return total, nil
}

// deriveTableStatus maps the aggregate of the order's item statuses onto the
// bound table. Precedence, highest first: all served -> served; all
// ready/served -> ready; any preparing -> preparing; any new -> occupied.
// With no items nothing fires. Failures are logged, never returned: status
// derivation is a side effect of the triggering mutation.
func (s *OrderService) deriveTableStatus(order *models.Order) {
	if order.TableID == nil {
		return
	}

	items, err := s.store.GetOrderItems(order.ID)
	if err != nil {
		utils.ErrorLogger.Printf("derive table status for order %d: %v", order.ID, err)
		return
	}
	if len(items) == 0 {
		return
	}

	allServed, allReadyOrServed := true, true
	anyPreparing, anyNew := false, false
	for _, it := range items {
		switch it.Status {
		case models.ItemServed:
		case models.ItemReady:
			allServed = false
		case models.ItemPreparing:
			allServed = false
			allReadyOrServed = false
			anyPreparing = true
		case models.ItemNew:
			allServed = false
			allReadyOrServed = false
			anyNew = true
		}
	}

	var status models.TableStatus
	switch {
	case allServed:
		status = models.TableServed
	case allReadyOrServed:
		status = models.TableReady
	case anyPreparing:
		status = models.TablePreparing
	case anyNew:
		status = models.TableOccupied
	default:
		return
	}

	if err := s.store.UpdateTableStatus(*order.TableID, status); err != nil {
		utils.ErrorLogger.Printf("update table %d status: %v", *order.TableID, err)
		return
	}

	s.notifier.Publish(broadcast.EventTableUpdate, map[string]interface{}{
		"table_id": *order.TableID,
		"status":   status,
	})
	s.mirrorTableStatus(order, string(status))
}

// mirrorTableStatus pushes the derived table state to the digital-menu
// customer document when the order came from that channel. Best effort.
func (s *OrderService) mirrorTableStatus(order *models.Order, status string) {
	if s.channel == nil || order.ExternalCustomerID == "" {
		return
	}
	if err := s.channel.SetCustomerTableStatus(context.Background(), order.ExternalCustomerID, status); err != nil {
		utils.ErrorLogger.Printf("mirror table status for order %d: %v", order.ID, err)
	}
}

package models

import "fmt"

// Status values are closed sets. Handlers parse incoming strings through the
// Parse helpers below and reject anything outside the set, so the rest of the
// code can switch exhaustively.

type TableStatus string

const (
	TableFree      TableStatus = "free"
	TableOccupied  TableStatus = "occupied"
	TableReserved  TableStatus = "reserved"
	TablePreparing TableStatus = "preparing"
	TableReady     TableStatus = "ready"
	TableServed    TableStatus = "served"
)

func ParseTableStatus(s string) (TableStatus, error) {
	switch TableStatus(s) {
	case TableFree, TableOccupied, TableReserved, TablePreparing, TableReady, TableServed:
		return TableStatus(s), nil
	}
	return "", fmt.Errorf("unknown table status %q", s)
}

type OrderStatus string

const (
	OrderSaved         OrderStatus = "saved"
	OrderSentToKitchen OrderStatus = "sent_to_kitchen"
	OrderReadyToBill   OrderStatus = "ready_to_bill"
	OrderBilled        OrderStatus = "billed"
	OrderPaid          OrderStatus = "paid"
	OrderCompleted     OrderStatus = "completed"
)

func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderSaved, OrderSentToKitchen, OrderReadyToBill, OrderBilled, OrderPaid, OrderCompleted:
		return OrderStatus(s), nil
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

type OrderType string

const (
	OrderDineIn   OrderType = "dine-in"
	OrderDelivery OrderType = "delivery"
	OrderPickup   OrderType = "pickup"
)

func ParseOrderType(s string) (OrderType, error) {
	switch OrderType(s) {
	case OrderDineIn, OrderDelivery, OrderPickup:
		return OrderType(s), nil
	}
	return "", fmt.Errorf("unknown order type %q", s)
}

type OrderItemStatus string

const (
	ItemNew       OrderItemStatus = "new"
	ItemPreparing OrderItemStatus = "preparing"
	ItemReady     OrderItemStatus = "ready"
	ItemServed    OrderItemStatus = "served"
)

func ParseOrderItemStatus(s string) (OrderItemStatus, error) {
	switch OrderItemStatus(s) {
	case ItemNew, ItemPreparing, ItemReady, ItemServed:
		return OrderItemStatus(s), nil
	}
	return "", fmt.Errorf("unknown order item status %q", s)
}

type InvoiceStatus string

const (
	InvoiceSaved  InvoiceStatus = "Saved"
	InvoiceBilled InvoiceStatus = "Billed"
	InvoicePaid   InvoiceStatus = "Paid"
)

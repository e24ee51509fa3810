package services

import (
	"context"

	"github.com/yeremiapane/resto-pos/digitalmenu"
)

// MenuChannel is the digital-menu ordering channel as the POS sees it:
// readable customer documents with embedded orders, plus the three fields
// the POS is allowed to write back. Implemented by digitalmenu.Client; tests
// inject an in-memory fake.
type MenuChannel interface {
	CustomersWithOrders(ctx context.Context) ([]digitalmenu.Customer, error)
	MarkOrderSynced(ctx context.Context, customerID, orderID string, posOrderID uint) error
	SetCustomerTableStatus(ctx context.Context, customerID, status string) error
}

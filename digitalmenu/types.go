package digitalmenu

import (
	"fmt"
	"time"
)

// The digital-menu channel is owned by a foreign system. Its customer
// documents embed the orders placed there. The POS reads them and writes
// back only syncedToPos/syncedAt/posOrderId on an order, and tableStatus on
// a customer; everything else stays theirs.

// External status vocabulary as the channel reports it.
const (
	ExtStatusPending   = "pending"
	ExtStatusConfirmed = "confirmed"
	ExtStatusPreparing = "preparing"
	ExtStatusCompleted = "completed"
	ExtStatusCancelled = "cancelled"

	// Both spellings occur in the wild.
	ExtStatusInvoiceGenerated      = "invoice_generated"
	ExtStatusInvoiceGeneratedSpace = "invoice generated"

	ExtPaymentPaid = "paid"
)

type Customer struct {
	ID          string  `bson:"_id,omitempty" json:"id"`
	Name        string  `bson:"name" json:"name"`
	Phone       string  `bson:"phone" json:"phone"`
	TableStatus string  `bson:"tableStatus" json:"table_status"`
	Orders      []Order `bson:"orders" json:"orders"`
}

type Order struct {
	ID            string     `bson:"id" json:"id"`
	OrderDate     string     `bson:"orderDate" json:"order_date"`
	Status        string     `bson:"status" json:"status"`
	PaymentStatus string     `bson:"paymentStatus" json:"payment_status"`
	PaymentMethod string     `bson:"paymentMethod" json:"payment_method"`
	TableNumber   string     `bson:"tableNumber" json:"table_number"`
	FloorName     string     `bson:"floorName" json:"floor_name"`
	Total         float64    `bson:"total" json:"total"`
	Items         []CartItem `bson:"items" json:"items"`
	SyncedToPOS   bool       `bson:"syncedToPos" json:"synced_to_pos"`
	SyncedAt      *time.Time `bson:"syncedAt,omitempty" json:"synced_at,omitempty"`
	POSOrderID    uint       `bson:"posOrderId,omitempty" json:"pos_order_id,omitempty"`
}

type CartItem struct {
	Name     string  `bson:"name" json:"name"`
	Price    float64 `bson:"price" json:"price"`
	Quantity int     `bson:"quantity" json:"quantity"`
	Notes    string  `bson:"notes" json:"notes"`
}

// SyntheticID is the stable identifier the synchronizer keys its processed
// set and observation maps by: the order's own id, or customerID_orderDate
// when the channel did not assign one.
func (o Order) SyntheticID(customerID string) string {
	if o.ID != "" {
		return o.ID
	}
	return fmt.Sprintf("%s_%s", customerID, o.OrderDate)
}

// InvoiceRequested reports whether either the status or the payment status
// carries the invoice_generated marker, in either spelling.
func (o Order) InvoiceRequested() bool {
	for _, s := range []string{o.Status, o.PaymentStatus} {
		if s == ExtStatusInvoiceGenerated || s == ExtStatusInvoiceGeneratedSpace {
			return true
		}
	}
	return false
}

// Paid reports whether the channel considers the order settled.
func (o Order) Paid() bool {
	return o.PaymentStatus == ExtPaymentPaid || o.InvoiceRequested()
}

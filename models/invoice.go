package models

import "time"

// Invoice numbers are INV-%04d over the current invoice count plus one. The
// count is read immediately before insert, so the sequence is monotonic only
// for sequential callers.
type Invoice struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Number  string `gorm:"type:varchar(20);not null" json:"number"`
	OrderID uint   `gorm:"not null;index" json:"order_id"`
	Order   Order  `gorm:"foreignKey:OrderID" json:"-"`

	Subtotal string `gorm:"type:varchar(20);not null" json:"subtotal"`
	Tax      string `gorm:"type:varchar(20);not null" json:"tax"`
	Discount string `gorm:"type:varchar(20);not null;default:'0.00'" json:"discount"`
	Total    string `gorm:"type:varchar(20);not null" json:"total"`

	PaymentMode string `gorm:"type:varchar(30)" json:"payment_mode"`
	// JSON-encoded []SplitPayment when the bill was divided across payers.
	SplitPayments string `gorm:"type:text" json:"split_payments,omitempty"`

	Status InvoiceStatus `gorm:"type:varchar(10);not null" json:"status"`

	// JSON-encoded copy of the order items at billing time.
	ItemsSnapshot string `gorm:"type:text" json:"items_snapshot"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// SplitPayment is one payer's share of an invoice.
type SplitPayment struct {
	Amount string `json:"amount"`
	Mode   string `json:"mode"`
}

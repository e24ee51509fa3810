package models

import "time"

// Order is the unit the state machine drives through
// saved -> sent_to_kitchen -> ready_to_bill -> billed -> paid -> completed.
// Total is a two-decimal amount string and is recomputed from the items on
// every add/delete, never accumulated.
type Order struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	TableID *uint  `gorm:"index" json:"table_id,omitempty"`
	Table   *Table `gorm:"foreignKey:TableID" json:"-"`

	Type   OrderType   `gorm:"type:varchar(20);not null;default:'dine-in'" json:"type"`
	Status OrderStatus `gorm:"type:varchar(20);not null;default:'saved'" json:"status"`
	Total  string      `gorm:"type:varchar(20);not null;default:'0.00'" json:"total"`

	CustomerName  string `gorm:"type:varchar(100)" json:"customer_name"`
	CustomerPhone string `gorm:"type:varchar(30)" json:"customer_phone"`
	PaymentMode   string `gorm:"type:varchar(30)" json:"payment_mode"`

	// Set when the order originated on the digital menu channel.
	ExternalOrderID    string `gorm:"type:varchar(100);index" json:"external_order_id,omitempty"`
	ExternalCustomerID string `gorm:"type:varchar(100)" json:"external_customer_id,omitempty"`

	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
	BilledAt    *time.Time `json:"billed_at,omitempty"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	OrderItems []OrderItem `gorm:"foreignKey:OrderID" json:"order_items,omitempty"`
}

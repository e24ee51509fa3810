package models

import "time"

// OrderItem snapshots the menu item's name and price at creation time, so
// later menu edits do not change an open order.
type OrderItem struct {
	ID      uint  `gorm:"primaryKey" json:"id"`
	OrderID uint  `gorm:"not null;index" json:"order_id"`
	Order   Order `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	MenuItemID uint     `gorm:"not null" json:"menu_item_id"`
	MenuItem   MenuItem `gorm:"foreignKey:MenuItemID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`

	Name       string          `gorm:"type:varchar(255);not null" json:"name"`
	Price      string          `gorm:"type:varchar(20);not null" json:"price"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	Status     OrderItemStatus `gorm:"type:varchar(20);not null;default:'new'" json:"status"`
	Vegetarian bool            `gorm:"not null;default:false" json:"vegetarian"`
	Notes      string          `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

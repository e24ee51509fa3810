package models

import "time"

// Table derives its status from the items of its current order while one is
// active. CurrentOrderID non-nil implies Status != free.
type Table struct {
	ID             uint        `gorm:"primaryKey" json:"id"`
	TableNumber    string      `gorm:"type:varchar(50);not null" json:"table_number"`
	Seats          int         `gorm:"not null;default:2" json:"seats"`
	Status         TableStatus `gorm:"type:varchar(20);not null;default:'free'" json:"status"`
	FloorID        uint        `gorm:"index" json:"floor_id"`
	Floor          Floor       `gorm:"foreignKey:FloorID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	CurrentOrderID *uint       `json:"current_order_id,omitempty"`
	CreatedAt      time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time   `gorm:"not null" json:"updated_at"`
}

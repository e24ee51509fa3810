package models

import "time"

type Reservation struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TableID    uint      `gorm:"not null;index" json:"table_id"`
	Table      Table     `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	GuestName  string    `gorm:"type:varchar(100);not null" json:"guest_name"`
	GuestPhone string    `gorm:"type:varchar(30)" json:"guest_phone"`
	Guests     int       `gorm:"not null;default:2" json:"guests"`
	Status     string    `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	ReservedAt time.Time `gorm:"not null" json:"reserved_at"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

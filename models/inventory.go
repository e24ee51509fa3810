package models

import "time"

// InventoryItem.Stock is a decimal string in the item's Unit. Three writers
// mutate it: checkout deduction, wastage recording, purchase-order receipt.
type InventoryItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Stock       string    `gorm:"type:varchar(20);not null;default:'0.00'" json:"stock"`
	Unit        string    `gorm:"type:varchar(20);not null" json:"unit"`
	MinStock    string    `gorm:"type:varchar(20);not null;default:'0.00'" json:"min_stock"`
	CostPerUnit string    `gorm:"type:varchar(20);not null;default:'0.00'" json:"cost_per_unit"`
	SupplierID  *uint     `gorm:"index" json:"supplier_id,omitempty"`
	Supplier    *Supplier `gorm:"foreignKey:SupplierID" json:"-"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

type Supplier struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Phone     string    `gorm:"type:varchar(30)" json:"phone"`
	Email     string    `gorm:"type:varchar(255)" json:"email"`
	Address   string    `gorm:"type:text" json:"address"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

type PurchaseOrder struct {
	ID         uint                `gorm:"primaryKey" json:"id"`
	SupplierID uint                `gorm:"not null;index" json:"supplier_id"`
	Supplier   Supplier            `gorm:"foreignKey:SupplierID" json:"-"`
	Status     string              `gorm:"type:varchar(20);not null;default:'open'" json:"status"`
	Items      []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID" json:"items,omitempty"`
	ReceivedAt *time.Time          `json:"received_at,omitempty"`
	CreatedAt  time.Time           `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time           `gorm:"not null" json:"updated_at"`
}

type PurchaseOrderItem struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	PurchaseOrderID uint          `gorm:"not null;index" json:"purchase_order_id"`
	InventoryItemID uint          `gorm:"not null" json:"inventory_item_id"`
	InventoryItem   InventoryItem `gorm:"foreignKey:InventoryItemID" json:"-"`
	Quantity        string        `gorm:"type:varchar(20);not null" json:"quantity"`
	CreatedAt       time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time     `gorm:"not null" json:"updated_at"`
}

// WastageEntry records manual stock write-offs. Unlike checkout deduction,
// wastage is rejected when it would drive the stock negative.
type WastageEntry struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	InventoryItemID uint          `gorm:"not null;index" json:"inventory_item_id"`
	InventoryItem   InventoryItem `gorm:"foreignKey:InventoryItemID" json:"-"`
	Quantity        string        `gorm:"type:varchar(20);not null" json:"quantity"`
	Reason          string        `gorm:"type:varchar(255);not null" json:"reason"`
	CreatedAt       time.Time     `gorm:"not null" json:"created_at"`
}

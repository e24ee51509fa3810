package models

import "time"

// Recipe maps a menu item to the inventory quantities consumed per unit
// sold. When duplicates exist for one menu item, the most recently created
// recipe wins.
type Recipe struct {
	ID          uint               `gorm:"primaryKey" json:"id"`
	MenuItemID  uint               `gorm:"not null;index" json:"menu_item_id"`
	MenuItem    MenuItem           `gorm:"foreignKey:MenuItemID" json:"-"`
	Name        string             `gorm:"type:varchar(255)" json:"name"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID" json:"ingredients,omitempty"`
	CreatedAt   time.Time          `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time          `gorm:"not null" json:"updated_at"`
}

type RecipeIngredient struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	RecipeID        uint          `gorm:"not null;index" json:"recipe_id"`
	InventoryItemID uint          `gorm:"not null" json:"inventory_item_id"`
	InventoryItem   InventoryItem `gorm:"foreignKey:InventoryItemID" json:"-"`
	// Quantity consumed per one unit of the menu item, in Unit.
	QuantityPerUnit string    `gorm:"type:varchar(20);not null" json:"quantity_per_unit"`
	Unit            string    `gorm:"type:varchar(20);not null" json:"unit"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}

package store

import (
	"time"

	"github.com/yeremiapane/resto-pos/models"
)

// Store is the persistence gateway the order engine, billing composer, and
// digital-menu synchronizer work through. Getters return (nil, nil) when the
// entity does not exist; an error always means a storage failure, never
// not-found. Supporting CRUD surfaces (floors, suppliers, wastage, ...)
// talk to gorm directly and are not part of this contract.
type Store interface {
	// Tables.
	GetTable(id uint) (*models.Table, error)
	GetTables() ([]models.Table, error)
	// GetTablesByNumber returns every table carrying the number, across
	// floors, ordered by id.
	GetTablesByNumber(number string) ([]models.Table, error)
	UpdateTableStatus(id uint, status models.TableStatus) error
	// UpdateTableOrder links or, with nil, detaches the table's current
	// order reference.
	UpdateTableOrder(id uint, orderID *uint) error

	// Orders.
	CreateOrder(o *models.Order) error
	GetOrder(id uint) (*models.Order, error)
	GetOrderByExternalID(extID string) (*models.Order, error)
	UpdateOrderStatus(id uint, status models.OrderStatus) error
	UpdateOrderTotal(id uint, total string) error
	// BillOrder moves the order to billed and stamps BilledAt.
	BillOrder(id uint, at time.Time) error
	// CheckoutOrder moves the order to paid, records the payment mode and
	// stamps PaidAt and CompletedAt.
	CheckoutOrder(id uint, paymentMode string, at time.Time) error
	// CompleteOrder moves the order to completed and stamps CompletedAt.
	CompleteOrder(id uint, at time.Time) error

	// Order items.
	CreateOrderItem(it *models.OrderItem) error
	GetOrderItem(id uint) (*models.OrderItem, error)
	GetOrderItems(orderID uint) ([]models.OrderItem, error)
	UpdateOrderItemStatus(id uint, status models.OrderItemStatus) error
	DeleteOrderItem(id uint) error

	// Recipes and inventory.
	// GetRecipeByMenuItemID returns the most recently created recipe when
	// duplicates exist for the menu item.
	GetRecipeByMenuItemID(menuItemID uint) (*models.Recipe, error)
	GetRecipeIngredients(recipeID uint) ([]models.RecipeIngredient, error)
	GetInventoryItem(id uint) (*models.InventoryItem, error)
	UpdateInventoryQuantity(id uint, stock string) error

	// Invoices. CountInvoices feeds the INV-%04d sequence; the read happens
	// immediately before the insert, so numbering is monotonic only for
	// sequential callers.
	CreateInvoice(inv *models.Invoice) error
	GetInvoices() ([]models.Invoice, error)
	CountInvoices() (int64, error)

	// Menu.
	GetMenuItem(id uint) (*models.MenuItem, error)
	GetMenuItems() ([]models.MenuItem, error)
	// GetMenuItemByName matches case-insensitively.
	GetMenuItemByName(name string) (*models.MenuItem, error)

	// Floors.
	GetFloors() ([]models.Floor, error)
	GetFloor(id uint) (*models.Floor, error)
	GetFloorByName(name string) (*models.Floor, error)
}

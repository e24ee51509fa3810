package store

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/resto-pos/models"
)

// GormStore implements Store on a gorm connection.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// AutoMigrate migrates every model and seeds the fallback "unknown" menu
// item referenced by digital-menu conversion.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Floor{},
		&models.Table{},
		&models.Customer{},
		&models.MenuCategory{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Invoice{},
		&models.Supplier{},
		&models.InventoryItem{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.PurchaseOrder{},
		&models.PurchaseOrderItem{},
		&models.WastageEntry{},
		&models.Reservation{},
	); err != nil {
		return err
	}

	unknown := models.MenuItem{
		Name:      models.UnknownMenuItemName,
		Price:     "0.00",
		Available: false,
	}
	return db.Where("name = ?", models.UnknownMenuItemName).
		FirstOrCreate(&unknown).Error
}

func notFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func (s *GormStore) GetTable(id uint) (*models.Table, error) {
	var t models.Table
	if err := s.db.First(&t, id).Error; err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (s *GormStore) GetTables() ([]models.Table, error) {
	var tables []models.Table
	if err := s.db.Order("id asc").Find(&tables).Error; err != nil {
		return nil, err
	}
	return tables, nil
}

func (s *GormStore) GetTablesByNumber(number string) ([]models.Table, error) {
	var tables []models.Table
	if err := s.db.Where("table_number = ?", number).
		Order("id asc").Find(&tables).Error; err != nil {
		return nil, err
	}
	return tables, nil
}

func (s *GormStore) UpdateTableStatus(id uint, status models.TableStatus) error {
	return s.db.Model(&models.Table{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

func (s *GormStore) UpdateTableOrder(id uint, orderID *uint) error {
	return s.db.Model(&models.Table{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"current_order_id": orderID,
			"updated_at":       time.Now(),
		}).Error
}

func (s *GormStore) CreateOrder(o *models.Order) error {
	return s.db.Create(o).Error
}

func (s *GormStore) GetOrder(id uint) (*models.Order, error) {
	var o models.Order
	if err := s.db.Preload("OrderItems").First(&o, id).Error; err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (s *GormStore) GetOrderByExternalID(extID string) (*models.Order, error) {
	var o models.Order
	err := s.db.Preload("OrderItems").
		Where("external_order_id = ?", extID).First(&o).Error
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (s *GormStore) UpdateOrderStatus(id uint, status models.OrderStatus) error {
	return s.db.Model(&models.Order{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

func (s *GormStore) UpdateOrderTotal(id uint, total string) error {
	return s.db.Model(&models.Order{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"total":      total,
			"updated_at": time.Now(),
		}).Error
}

func (s *GormStore) BillOrder(id uint, at time.Time) error {
	return s.db.Model(&models.Order{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     models.OrderBilled,
			"billed_at":  at,
			"updated_at": at,
		}).Error
}

func (s *GormStore) CheckoutOrder(id uint, paymentMode string, at time.Time) error {
	return s.db.Model(&models.Order{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       models.OrderPaid,
			"payment_mode": paymentMode,
			"paid_at":      at,
			"completed_at": at,
			"updated_at":   at,
		}).Error
}

func (s *GormStore) CompleteOrder(id uint, at time.Time) error {
	return s.db.Model(&models.Order{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       models.OrderCompleted,
			"completed_at": at,
			"updated_at":   at,
		}).Error
}

func (s *GormStore) CreateOrderItem(it *models.OrderItem) error {
	return s.db.Create(it).Error
}

func (s *GormStore) GetOrderItem(id uint) (*models.OrderItem, error) {
	var it models.OrderItem
	if err := s.db.First(&it, id).Error; err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &it, nil
}

func (s *GormStore) GetOrderItems(orderID uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	if err := s.db.Where("order_id = ?", orderID).
		Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *GormStore) UpdateOrderItemStatus(id uint, status models.OrderItemStatus) error {
	return s.db.Model(&models.OrderItem{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

func (s *GormStore) DeleteOrderItem(id uint) error {
	return s.db.Delete(&models.OrderItem{}, id).Error
}

func (s *GormStore) GetRecipeByMenuItemID(menuItemID uint) (*models.Recipe, error) {
	var r models.Recipe
	err := s.db.Where("menu_item_id = ?", menuItemID).
		Order("created_at desc, id desc").First(&r).Error
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &r, nil
}

func (s *GormStore) GetRecipeIngredients(recipeID uint) ([]models.RecipeIngredient, error) {
	var ings []models.RecipeIngredient
	if err := s.db.Where("recipe_id = ?", recipeID).
		Find(&ings).Error; err != nil {
		return nil, err
	}
	return ings, nil
}

func (s *GormStore) GetInventoryItem(id uint) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := s.db.First(&item, id).Error; err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (s *GormStore) UpdateInventoryQuantity(id uint, stock string) error {
	return s.db.Model(&models.InventoryItem{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"stock":      stock,
			"updated_at": time.Now(),
		}).Error
}

func (s *GormStore) CreateInvoice(inv *models.Invoice) error {
	return s.db.Create(inv).Error
}

func (s *GormStore) GetInvoices() ([]models.Invoice, error) {
	var invs []models.Invoice
	if err := s.db.Order("id asc").Find(&invs).Error; err != nil {
		return nil, err
	}
	return invs, nil
}

func (s *GormStore) CountInvoices() (int64, error) {
	var n int64
	if err := s.db.Model(&models.Invoice{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (s *GormStore) GetMenuItem(id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := s.db.First(&item, id).Error; err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (s *GormStore) GetMenuItems() ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := s.db.Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *GormStore) GetMenuItemByName(name string) (*models.MenuItem, error) {
	var item models.MenuItem
	err := s.db.Where("LOWER(name) = LOWER(?)", name).First(&item).Error
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (s *GormStore) GetFloors() ([]models.Floor, error) {
	var floors []models.Floor
	if err := s.db.Order("id asc").Find(&floors).Error; err != nil {
		return nil, err
	}
	return floors, nil
}

func (s *GormStore) GetFloor(id uint) (*models.Floor, error) {
	var f models.Floor
	if err := s.db.First(&f, id).Error; err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

func (s *GormStore) GetFloorByName(name string) (*models.Floor, error) {
	var f models.Floor
	if err := s.db.Where("name = ?", name).First(&f).Error; err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

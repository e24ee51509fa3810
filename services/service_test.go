package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/resto-pos/broadcast"
	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/store"
	"github.com/yeremiapane/resto-pos/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.InitLogger()

	// One named in-memory database per test, shared across the pool's
	// connections. A "#" in a subtest name would start the URI fragment
	// and silently drop mode=memory, so strip it from the DSN.
	dsn := "file:" + strings.ReplaceAll(t.Name(), "#", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, store.AutoMigrate(db))
	return db
}

func seedTable(t *testing.T, db *gorm.DB, number, floorName string) models.Table {
	t.Helper()
	floor := models.Floor{Name: floorName}
	require.NoError(t, db.Where("name = ?", floorName).FirstOrCreate(&floor).Error)
	table := models.Table{
		TableNumber: number,
		Seats:       4,
		Status:      models.TableFree,
		FloorID:     floor.ID,
	}
	require.NoError(t, db.Create(&table).Error)
	return table
}

func seedMenuItem(t *testing.T, db *gorm.DB, name, price string) models.MenuItem {
	t.Helper()
	item := models.MenuItem{Name: name, Price: price, Available: true}
	require.NoError(t, db.Create(&item).Error)
	return item
}

func seedInventory(t *testing.T, db *gorm.DB, name, stock, unit string) models.InventoryItem {
	t.Helper()
	item := models.InventoryItem{Name: name, Stock: stock, Unit: unit, MinStock: "0.00", CostPerUnit: "0.00"}
	require.NoError(t, db.Create(&item).Error)
	return item
}

func seedRecipe(t *testing.T, db *gorm.DB, menuItemID, inventoryItemID uint, perUnit string) models.Recipe {
	t.Helper()
	recipe := models.Recipe{MenuItemID: menuItemID}
	require.NoError(t, db.Create(&recipe).Error)
	ing := models.RecipeIngredient{
		RecipeID:        recipe.ID,
		InventoryItemID: inventoryItemID,
		QuantityPerUnit: perUnit,
		Unit:            "g",
	}
	require.NoError(t, db.Create(&ing).Error)
	return recipe
}

func newOrderService(db *gorm.DB) (*OrderService, store.Store) {
	st := store.NewGormStore(db)
	return NewOrderService(st, broadcast.NopNotifier{}, nil), st
}

func newBillingService(db *gorm.DB) (*BillingService, store.Store) {
	st := store.NewGormStore(db)
	return NewBillingService(st, broadcast.NopNotifier{}, nil), st
}

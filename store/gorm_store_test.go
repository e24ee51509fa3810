package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/resto-pos/models"
)

func newTestStore(t *testing.T) (*GormStore, *gorm.DB) {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return NewGormStore(db), db
}

func TestNotFoundReturnsNilNil(t *testing.T) {
	st, _ := newTestStore(t)

	table, err := st.GetTable(999)
	require.NoError(t, err)
	assert.Nil(t, table)

	order, err := st.GetOrder(999)
	require.NoError(t, err)
	assert.Nil(t, order)

	item, err := st.GetOrderItem(999)
	require.NoError(t, err)
	assert.Nil(t, item)

	menuItem, err := st.GetMenuItem(999)
	require.NoError(t, err)
	assert.Nil(t, menuItem)

	byExt, err := st.GetOrderByExternalID("nope")
	require.NoError(t, err)
	assert.Nil(t, byExt)

	floor, err := st.GetFloorByName("Roof")
	require.NoError(t, err)
	assert.Nil(t, floor)
}

func TestMigrationSeedsUnknownMenuItem(t *testing.T) {
	st, db := newTestStore(t)

	item, err := st.GetMenuItemByName(models.UnknownMenuItemName)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.False(t, item.Available)

	// Running the migration again does not duplicate the seed.
	require.NoError(t, AutoMigrate(db))
	var count int64
	require.NoError(t, db.Model(&models.MenuItem{}).
		Where("name = ?", models.UnknownMenuItemName).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGetMenuItemByNameIsCaseInsensitive(t *testing.T) {
	st, db := newTestStore(t)
	require.NoError(t, db.Create(&models.MenuItem{Name: "Margherita", Price: "199.00"}).Error)

	item, err := st.GetMenuItemByName("mArGhErItA")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "Margherita", item.Name)
}

func TestGetRecipeByMenuItemIDPrefersNewest(t *testing.T) {
	st, db := newTestStore(t)
	require.NoError(t, db.Create(&models.MenuItem{Name: "Margherita", Price: "199.00"}).Error)

	old := models.Recipe{MenuItemID: 1, Name: "v1"}
	require.NoError(t, db.Create(&old).Error)
	updated := models.Recipe{MenuItemID: 1, Name: "v2"}
	require.NoError(t, db.Create(&updated).Error)

	got, err := st.GetRecipeByMenuItemID(1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "v2", got.Name)
}

func TestCountInvoices(t *testing.T) {
	st, db := newTestStore(t)

	count, err := st.CountInvoices()
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, db.Create(&models.Invoice{Number: "INV-0001", Total: "10.00"}).Error)
	require.NoError(t, db.Create(&models.Invoice{Number: "INV-0002", Total: "20.00"}).Error)

	count, err = st.CountInvoices()
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestUpdateTableOrderClearsLink(t *testing.T) {
	st, db := newTestStore(t)
	require.NoError(t, db.Create(&models.Floor{Name: "Ground"}).Error)
	table := models.Table{TableNumber: "T1", Seats: 2, Status: models.TableFree, FloorID: 1}
	require.NoError(t, db.Create(&table).Error)

	orderID := uint(7)
	require.NoError(t, st.UpdateTableOrder(table.ID, &orderID))
	got, err := st.GetTable(table.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CurrentOrderID)
	assert.Equal(t, orderID, *got.CurrentOrderID)

	require.NoError(t, st.UpdateTableOrder(table.ID, nil))
	got, err = st.GetTable(table.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CurrentOrderID)
}

func TestGetTablesByNumberSpansFloors(t *testing.T) {
	st, db := newTestStore(t)
	require.NoError(t, db.Create(&models.Floor{Name: "Ground"}).Error)
	require.NoError(t, db.Create(&models.Floor{Name: "First"}).Error)
	require.NoError(t, db.Create(&models.Table{TableNumber: "T1", Status: models.TableFree, FloorID: 1}).Error)
	require.NoError(t, db.Create(&models.Table{TableNumber: "T1", Status: models.TableFree, FloorID: 2}).Error)
	require.NoError(t, db.Create(&models.Table{TableNumber: "T2", Status: models.TableFree, FloorID: 1}).Error)

	tables, err := st.GetTablesByNumber("T1")
	require.NoError(t, err)
	assert.Len(t, tables, 2)
}

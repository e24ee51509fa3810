package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/resto-pos/broadcast"
	"github.com/yeremiapane/resto-pos/controllers"
	"github.com/yeremiapane/resto-pos/middlewares"
	"github.com/yeremiapane/resto-pos/services"
)

type Services struct {
	Orders  *services.OrderService
	Billing *services.BillingService
	Sync    *services.MenuSyncService
}

func SetupRouter(db *gorm.DB, hub *broadcast.Hub, svc Services) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	orderCtrl := controllers.NewOrderController(db, svc.Orders)
	billingCtrl := controllers.NewBillingController(db, svc.Billing)
	tableCtrl := controllers.NewTableController(db, hub)
	floorCtrl := controllers.NewFloorController(db)
	menuCtrl := controllers.NewMenuController(db)
	inventoryCtrl := controllers.NewInventoryController(db, hub)
	supplierCtrl := controllers.NewSupplierController(db, hub)
	reservationCtrl := controllers.NewReservationController(db, hub)
	customerCtrl := controllers.NewCustomerController(db)
	wsCtrl := controllers.NewWSController(hub)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	r.GET("/ws", wsCtrl.Handle)

	api := r.Group("/api")
	{
		// floors & tables
		api.POST("/floors", floorCtrl.CreateFloor)
		api.GET("/floors", floorCtrl.GetAllFloors)
		api.DELETE("/floors/:floor_id", floorCtrl.DeleteFloor)

		api.POST("/tables", tableCtrl.CreateTable)
		api.GET("/tables", tableCtrl.GetAllTables)
		api.GET("/tables/:table_id", tableCtrl.GetTableByID)
		api.PATCH("/tables/:table_id/status", tableCtrl.UpdateTableStatus)
		api.DELETE("/tables/:table_id", tableCtrl.DeleteTable)

		// customers & reservations
		api.POST("/customers", customerCtrl.CreateCustomer)
		api.GET("/customers", customerCtrl.GetAllCustomers)

		api.POST("/reservations", reservationCtrl.CreateReservation)
		api.GET("/reservations", reservationCtrl.GetAllReservations)
		api.POST("/reservations/:reservation_id/cancel", reservationCtrl.CancelReservation)

		// menu
		api.POST("/menu/categories", menuCtrl.CreateCategory)
		api.POST("/menu", menuCtrl.CreateMenuItem)
		api.GET("/menu", menuCtrl.GetAllMenuItems)
		api.PATCH("/menu/:menu_id", menuCtrl.UpdateMenuItem)
		api.POST("/menu/:menu_id/recipe", menuCtrl.CreateRecipe)

		// order lifecycle
		api.GET("/orders", orderCtrl.GetAllOrders)
		api.POST("/orders", orderCtrl.CreateOrder)
		api.GET("/orders/:order_id", orderCtrl.GetOrderByID)
		api.POST("/orders/:order_id/items", orderCtrl.AddItem)
		api.PATCH("/order-items/:item_id/status", orderCtrl.UpdateItemStatus)
		api.DELETE("/order-items/:item_id", orderCtrl.DeleteItem)
		api.POST("/orders/:order_id/kitchen", orderCtrl.SendToKitchen)
		api.PATCH("/orders/:order_id/ready-to-bill", orderCtrl.MarkReadyToBill)
		api.POST("/orders/:order_id/complete", orderCtrl.CompleteOrder)
		api.GET("/kitchen/display", orderCtrl.GetKitchenDisplay)

		// billing
		api.POST("/orders/:order_id/save", billingCtrl.SaveOrder)
		api.POST("/orders/:order_id/bill", billingCtrl.BillOrder)
		api.POST("/orders/:order_id/checkout", billingCtrl.Checkout)
		api.GET("/invoices", billingCtrl.GetInvoices)

		// inventory & purchasing
		api.POST("/inventory", inventoryCtrl.CreateInventoryItem)
		api.GET("/inventory", inventoryCtrl.GetAllInventory)
		api.GET("/inventory/low-stock", inventoryCtrl.GetLowStock)
		api.POST("/inventory/:item_id/wastage", inventoryCtrl.RecordWastage)

		api.POST("/suppliers", supplierCtrl.CreateSupplier)
		api.GET("/suppliers", supplierCtrl.GetAllSuppliers)
		api.POST("/purchase-orders", supplierCtrl.CreatePurchaseOrder)
		api.GET("/purchase-orders", supplierCtrl.GetAllPurchaseOrders)
		api.POST("/purchase-orders/:po_id/receive", supplierCtrl.ReceivePurchaseOrder)

		// digital-menu sync
		if svc.Sync != nil {
			syncCtrl := controllers.NewSyncController(svc.Sync)
			api.POST("/sync/run", middlewares.SyncRateLimit(), syncCtrl.RunSync)
			api.GET("/sync/status", syncCtrl.GetSyncStatus)
		}
	}

	return r
}

package broadcast

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yeremiapane/resto-pos/utils"
)

// writeWait bounds a single client write. Publishers queue behind the hub
// mutex, so a stalled connection may hold them up for at most this long
// before it is dropped.
const writeWait = 5 * time.Second

// Event names carried to connected clients. Consumers treat them as refresh
// hints and re-fetch; no sequence number is attached.
const (
	EventOrderCreated      = "order_created"
	EventOrderUpdate       = "order_update"
	EventOrderItemUpdate   = "order_item_update"
	EventOrderPaid         = "order_paid"
	EventInvoiceCreated    = "invoice_created"
	EventTableUpdate       = "table_update"
	EventKitchenUpdate     = "kitchen_update"
	EventInventoryUpdate   = "inventory_update"
	EventMenuOrderSynced   = "menu_order_synced"
	EventStaffNotification = "staff_notification"
)

// Notifier is the fire-and-forget sink mutation paths publish into after the
// triggering state change is persisted. Delivery is not acknowledged.
type Notifier interface {
	Publish(event string, data interface{})
}

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub fans Messages out to every connected websocket client (kitchen
// display, waiter tablets, cashier).
type Hub struct {
	clients map[*websocket.Conn]string // conn -> client role
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]string)}
}

// Register adds a connection with its declared role.
func (h *Hub) Register(conn *websocket.Conn, role string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = role
}

// Unregister removes and closes a connection.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	delete(h.clients, conn)
	conn.Close()
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Publish broadcasts the event to every client. Each write runs under a
// deadline; a connection that fails or stalls past it is dropped so it
// cannot wedge later publishes.
func (h *Hub) Publish(event string, data interface{}) {
	payload, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		utils.ErrorLogger.Printf("broadcast: marshal %s: %v", event, err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()
	for conn, role := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			utils.ErrorLogger.Printf("broadcast: drop %s client after failed %s: %v", role, event, err)
			delete(h.clients, conn)
			conn.Close()
		}
	}
}

// NopNotifier discards every event. Used in tests and as a default when no
// hub is wired.
type NopNotifier struct{}

func (NopNotifier) Publish(string, interface{}) {}

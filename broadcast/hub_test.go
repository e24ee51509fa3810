package broadcast

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/resto-pos/utils"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsPair dials a real websocket into the hub and returns the client end plus
// the server-side connection the hub holds.
func wsPair(t *testing.T, hub *Hub, role string) (client, server *websocket.Conn) {
	t.Helper()

	serverConns := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		hub.Register(conn, role)
		serverConns <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	select {
	case server = <-serverConns:
	case <-time.After(time.Second):
		t.Fatal("server connection was not registered")
	}
	return client, server
}

func TestPublishDeliversToClients(t *testing.T) {
	utils.InitLogger()
	hub := NewHub()
	client, _ := wsPair(t, hub, "kitchen")
	require.Equal(t, 1, hub.ClientCount())

	hub.Publish(EventOrderUpdate, map[string]interface{}{"order_id": 1})

	require.NoError(t, client.SetReadDeadline(time.Now().Add(time.Second)))
	var msg Message
	require.NoError(t, client.ReadJSON(&msg))
	assert.Equal(t, EventOrderUpdate, msg.Event)
}

func TestPublishDropsFailedConnections(t *testing.T) {
	utils.InitLogger()
	hub := NewHub()
	_, server := wsPair(t, hub, "cashier")
	require.Equal(t, 1, hub.ClientCount())

	// Kill the server-side socket: the next publish hits a write error and
	// the connection must leave the client set instead of wedging publishers.
	require.NoError(t, server.Close())
	hub.Publish(EventTableUpdate, nil)
	assert.Zero(t, hub.ClientCount())

	// Subsequent publishes keep working with nobody connected.
	hub.Publish(EventTableUpdate, nil)
}

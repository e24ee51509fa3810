package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/yeremiapane/resto-pos/broadcast"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WSController struct {
	Hub *broadcast.Hub
}

func NewWSController(hub *broadcast.Hub) *WSController {
	return &WSController{Hub: hub}
}

// Handle -> websocket endpoint for kitchen displays, waiter tablets and the
// cashier. The role query parameter is informational only.
func (wc *WSController) Handle(c *gin.Context) {
	role := c.DefaultQuery("role", "staff")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	wc.Hub.Register(ws, role)

	// Clients only listen; drain until the connection drops.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	wc.Hub.Unregister(ws)
}

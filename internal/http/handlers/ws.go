package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"nhooyr.io/websocket"

	"github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/internal/http/middleware"
	"github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/internal/ws"
)

type WSHandler struct {
	Hub                  *ws.Hub
	JWTSecret            string
	WSInsecureSkipVerify bool
}

// Handle upgrades the connection and registers it with the hub. The token
// rides in a query parameter since browser WebSocket clients cannot set an
// Authorization header.
func (h *WSHandler) Handle(c *gin.Context) {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "missing token"})
		return
	}

	userID, err := middleware.ParseUserID(tokenStr, h.JWTSecret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
		return
	}

	opts := &websocket.AcceptOptions{}
	// Accept rejects cross-origin by default; the dev frontend runs on a
	// different port. Dev only.
	if h.WSInsecureSkipVerify {
		opts.InsecureSkipVerify = true
	}

	conn, err := websocket.Accept(c.Writer, c.Request, opts)
	if err != nil {
		return // Accept already wrote the error response
	}

	// Push-only stream: reading keeps control frames (close/ping/pong)
	// processed.
	conn.CloseRead(c.Request.Context())

	client := h.Hub.AddClient(userID, conn)
	defer h.Hub.RemoveClient(client)

	<-c.Request.Context().Done()
}

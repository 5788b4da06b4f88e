package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/gymconnect/gymconnect-backend/internal/services"
)

// WebSocketHandler handles WebSocket connections
func WebSocketHandler(hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")
		role := c.GetString("userRole")

		services.HandleWebSocket(hub, c.Writer, c.Request, userID, role)
	}
}

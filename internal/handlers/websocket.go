package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ronin-tn/blassa-sub000/internal/services"
)

// WebSocketHandler attaches the authenticated connection to the hub.
func WebSocketHandler(hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")
		services.HandleWebSocket(hub, c.Writer, c.Request, userID)
	}
}

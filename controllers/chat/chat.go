package chatcontroller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/fastfood-pos/realtime"
	"go.uber.org/zap"
)

// ServeWS upgrades the request to a websocket client of hub.
func ServeWS(hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		hub.ServeWS(c.Writer, c.Request)
	}
}

// PostMessage relays {"text": "..."} to every websocket client as a chat message.
func PostMessage(hub *realtime.Hub, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Text   string `json:"text"`
			Sender string `json:"sender"`
		}
		_ = c.ShouldBindJSON(&req)
		if strings.TrimSpace(req.Text) == "" {
			logger.Warn("⚠️ received empty message")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Message text is required"})
			return
		}

		msg := hub.Chat(req.Text, req.Sender)
		logger.Info("📨 REST message received", zap.String("id", msg.ID))
		c.JSON(http.StatusOK, gin.H{"message": "Message received successfully", "chat": msg})
	}
}

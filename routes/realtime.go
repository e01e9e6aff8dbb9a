package routes

import (
	"github.com/gin-gonic/gin"
	chatcontroller "github.com/junaidrashid-git/fastfood-pos/controllers/chat"
	mediacontroller "github.com/junaidrashid-git/fastfood-pos/controllers/media"
	"github.com/junaidrashid-git/fastfood-pos/middleware"
)

func SetupRealtimeRoutes(r *gin.Engine, d Dependencies) {
	r.GET("/ws", chatcontroller.ServeWS(d.Hub))
	r.POST("/api/message", chatcontroller.PostMessage(d.Hub, d.Logger))

	uploads := r.Group("/upload", middleware.ValidateToken(d.Auth))
	{
		uploads.POST("", mediacontroller.Upload(d.UploadsDir, d.PublicBaseURL, d.Logger))
		uploads.DELETE("/:name", mediacontroller.DeleteUpload(d.UploadsDir, d.Logger))
	}
	r.Static("/uploads", d.UploadsDir)
}

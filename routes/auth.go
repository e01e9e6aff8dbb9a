package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/fastfood-pos/auth"
)

// SetupAuthRoutes registers the public /api/admin sign-in endpoints.
func SetupAuthRoutes(r *gin.Engine, d Dependencies) {
	authGroup := r.Group("/api/admin")
	{
		authGroup.POST("/register", auth.RegisterHandler(d.Auth))
		authGroup.POST("/login", auth.LoginHandler(d.Auth))
		authGroup.POST("/google", auth.GoogleLoginHandler(d.Auth))
	}
}

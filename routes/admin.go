package routes

import (
	"github.com/gin-gonic/gin"
	admincontroller "github.com/junaidrashid-git/fastfood-pos/controllers/admin"
	"github.com/junaidrashid-git/fastfood-pos/middleware"
	"github.com/junaidrashid-git/fastfood-pos/models"
)

func SetupAdminRoutes(r *gin.Engine, d Dependencies) {
	admins := r.Group("/api/admins", middleware.ValidateToken(d.Auth))
	{
		admins.GET("", admincontroller.GetAllAdmins(d.Auth, d.Logger))

		super := admins.Group("", middleware.RequireRole(models.RoleSuperAdmin))
		super.GET("/pending", admincontroller.ListPendingAdmins(d.Auth))
		super.POST("/approve", admincontroller.ApproveAdmin(d.Auth))
		super.POST("/reject", admincontroller.RejectAdmin(d.Auth))
	}
}

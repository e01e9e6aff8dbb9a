package admincontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/fastfood-pos/auth"
	"go.uber.org/zap"
)

func GetAllAdmins(svc *auth.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		admins, err := svc.Admins(c.Request.Context())
		if err != nil {
			logger.Error("❌ failed to fetch admins", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch admins"})
			return
		}
		c.JSON(http.StatusOK, admins)
	}
}

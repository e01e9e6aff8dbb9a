package admincontroller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/fastfood-pos/auth"
	"github.com/junaidrashid-git/fastfood-pos/store"
)

// approvalRequest names the admin by username or email.
type approvalRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (r approvalRequest) key() string {
	if r.Username != "" {
		return r.Username
	}
	return r.Email
}

// ListPendingAdmins returns all admins awaiting approval.
func ListPendingAdmins(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		pending, err := svc.PendingAdmins(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pending admins"})
			return
		}
		c.JSON(http.StatusOK, pending)
	}
}

func ApproveAdmin(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req approvalRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.key() == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}

		admin, err := svc.Approve(c.Request.Context(), req.key())
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Admin not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve admin"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Admin approved", "admin": admin})
	}
}

func RejectAdmin(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req approvalRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.key() == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}

		err := svc.Reject(c.Request.Context(), req.key())
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Admin not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject admin"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Admin rejected"})
	}
}

package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/fastfood-pos/models"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type googleRequest struct {
	IDToken string `json:"idToken"`
}

func RegisterHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		admin, err := svc.Register(c.Request.Context(), req)
		switch {
		case errors.Is(err, ErrUsernameTaken):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Admin already exists"})
			return
		case errors.Is(err, ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create admin"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Admin created", "admin": admin})
	}
}

func LoginHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		token, admin, err := svc.Login(c.Request.Context(), req.Username, req.Password)
		respondLogin(c, token, admin, err)
	}
}

// GoogleLoginHandler expects {"idToken": "..."} from the Firebase client SDK.
func GoogleLoginHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req googleRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.IDToken == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		token, admin, err := svc.GoogleLogin(c.Request.Context(), req.IDToken)
		respondLogin(c, token, admin, err)
	}
}

func respondLogin(c *gin.Context, token string, admin models.Admin, err error) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid ID token"})
	case errors.Is(err, ErrPendingApproval):
		c.JSON(http.StatusForbidden, gin.H{"error": "Pending approval by super admin"})
	case errors.Is(err, ErrGoogleUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign in"})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Login successful", "token": token, "admin": admin})
	}
}

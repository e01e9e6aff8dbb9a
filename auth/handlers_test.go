package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/admin/register", RegisterHandler(svc))
	r.POST("/api/admin/login", LoginHandler(svc))
	r.POST("/api/admin/google", GoogleLoginHandler(svc))
	return r
}

func postJSON(r http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterAndLoginHandlers(t *testing.T) {
	svc, _ := newTestService(t)
	r := setupAuthRouter(svc)

	w := postJSON(r, "/api/admin/register", gin.H{"username": "owner", "password": "secret1"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "Admin created")
	assert.NotContains(t, w.Body.String(), "secret1")

	w = postJSON(r, "/api/admin/register", gin.H{"username": "owner", "password": "secret1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Admin already exists")

	w = postJSON(r, "/api/admin/login", gin.H{"username": "owner", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(r, "/api/admin/login", gin.H{"username": "owner", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Message string `json:"message"`
		Token   string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Login successful", resp.Message)
	assert.NotEmpty(t, resp.Token)
}

func TestLoginHandlerPendingIsForbidden(t *testing.T) {
	svc, _ := newTestService(t)
	r := setupAuthRouter(svc)

	postJSON(r, "/api/admin/register", gin.H{"username": "cashier", "password": "secret1"})
	w := postJSON(r, "/api/admin/login", gin.H{"username": "cashier", "password": "secret1"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGoogleHandlerWithoutVerifier(t *testing.T) {
	svc, _ := newTestService(t)
	r := setupAuthRouter(svc)

	w := postJSON(r, "/api/admin/google", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(r, "/api/admin/google", gin.H{"idToken": "abc"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/fastfood-pos/inventory"
	"github.com/junaidrashid-git/fastfood-pos/models"
	"github.com/junaidrashid-git/fastfood-pos/settlement"
	"github.com/junaidrashid-git/fastfood-pos/store"
	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	cases := map[error]int{
		inventory.ErrProductNotFound:                       http.StatusNotFound,
		store.ErrNotFound:                                  http.StatusNotFound,
		inventory.ErrOutOfStock:                            http.StatusConflict,
		inventory.ErrDuplicateCategory:                     http.StatusConflict,
		fmt.Errorf("wrapped: %w", inventory.ErrEmptyName):  http.StatusBadRequest,
		settlement.ErrInsufficientPayment:                  http.StatusBadRequest,
		models.ErrInvalidOrderType:                         http.StatusBadRequest,
		store.Wrap("save", errors.New("disk full")):        http.StatusServiceUnavailable,
		errors.New("boom"):                                 http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, Status(err), err.Error())
	}
}

func TestRespondHidesInternalErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Respond(c, errors.New("pq: connection refused"), "Failed to fetch receipts")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch receipts"}`, w.Body.String())

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	Respond(c, inventory.ErrOutOfStock, "unused")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error":"product is out of stock"}`, w.Body.String())
}

// Package apierror maps domain errors to HTTP responses shaped {"error": msg}.
package apierror

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/fastfood-pos/inventory"
	"github.com/junaidrashid-git/fastfood-pos/models"
	"github.com/junaidrashid-git/fastfood-pos/reports"
	"github.com/junaidrashid-git/fastfood-pos/settlement"
	"github.com/junaidrashid-git/fastfood-pos/store"
)

// Status returns the HTTP status for err.
func Status(err error) int {
	switch {
	case errors.Is(err, inventory.ErrProductNotFound), errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, inventory.ErrOutOfStock),
		errors.Is(err, inventory.ErrDuplicateCategory),
		errors.Is(err, inventory.ErrDuplicateProduct),
		errors.Is(err, store.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, inventory.ErrEmptyName),
		errors.Is(err, inventory.ErrInvalidProduct),
		errors.Is(err, inventory.ErrUnknownCategory),
		errors.Is(err, settlement.ErrInsufficientPayment),
		errors.Is(err, settlement.ErrEmptyCustomerName),
		errors.Is(err, settlement.ErrEmptyCart),
		errors.Is(err, models.ErrInvalidOrderType),
		errors.Is(err, reports.ErrUnknownPeriod):
		return http.StatusBadRequest
	case errors.Is(err, inventory.ErrNotOpen), errors.Is(err, store.ErrPersistence):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Respond writes err. Server-side failures answer with fallback so backend details stay
// in the logs.
func Respond(c *gin.Context, err error, fallback string) {
	status := Status(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		msg = fallback
	}
	c.JSON(status, gin.H{"error": msg})
}

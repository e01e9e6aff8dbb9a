package receiptcontroller

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/fastfood-pos/controllers/apierror"
	"github.com/junaidrashid-git/fastfood-pos/settlement"
)

type checkoutRequest struct {
	CustomerName string          `json:"customerName"`
	OrderType    string          `json:"orderType"`
	AmountPaid   json.RawMessage `json:"amountPaid"`
}

// amountText accepts the tendered amount as a JSON number or string.
func amountText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

// PreviewChange returns total and change for the current cart without committing.
func PreviewChange(svc *settlement.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		preview, err := svc.Preview(amountText(req.AmountPaid))
		if err != nil {
			apierror.Respond(c, err, "Failed to calculate change")
			return
		}
		c.JSON(http.StatusOK, preview)
	}
}

// Checkout finalizes the current cart into a receipt.
func Checkout(svc *settlement.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		receipt, err := svc.FinalizeReceipt(c.Request.Context(), settlement.Checkout{
			CustomerName: req.CustomerName,
			OrderType:    req.OrderType,
			AmountPaid:   amountText(req.AmountPaid),
		})
		if err != nil {
			apierror.Respond(c, err, "Failed to finalize receipt")
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Receipt finalized", "receipt": receipt})
	}
}

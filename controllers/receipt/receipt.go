package receiptcontroller

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/junaidrashid-git/fastfood-pos/controllers/apierror"
	"github.com/junaidrashid-git/fastfood-pos/models"
	"github.com/junaidrashid-git/fastfood-pos/realtime"
	"github.com/junaidrashid-git/fastfood-pos/reports"
	"github.com/junaidrashid-git/fastfood-pos/store"
	"github.com/shopspring/decimal"
)

// GetReceipts lists receipts newest first. ?period= narrows to the current day, week or
// month in loc; ?limit= caps the result.
func GetReceipts(backend store.Backend, loc *time.Location) gin.HandlerFunc {
	return func(c *gin.Context) {
		period, err := reports.ParsePeriod(c.Query("period"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		limit := 0
		if raw := c.Query("limit"); raw != "" {
			if limit, err = strconv.Atoi(raw); err != nil || limit < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
				return
			}
		}

		from, to := period.Range(time.Now().In(loc))
		receipts, err := backend.Receipts(c.Request.Context(), store.ReceiptQuery{From: from, To: to, Limit: limit})
		if err != nil {
			apierror.Respond(c, err, "Failed to fetch receipts")
			return
		}
		if receipts == nil {
			receipts = []models.Receipt{}
		}
		c.JSON(http.StatusOK, receipts)
	}
}

func GetReceipt(backend store.Backend) gin.HandlerFunc {
	return func(c *gin.Context) {
		receipt, err := backend.Receipt(c.Request.Context(), c.Param("id"))
		if err != nil {
			apierror.Respond(c, err, "Failed to fetch receipt")
			return
		}
		c.JSON(http.StatusOK, receipt)
	}
}

// CreateReceipt ingests a receipt mirrored by a register. The total is recomputed from
// the items and a missing date becomes the server time.
func CreateReceipt(backend store.Backend, hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ReceiptExport
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "customerName and items are required"})
			return
		}
		if strings.TrimSpace(req.CustomerName) == "" || len(req.Items) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "customerName and items are required"})
			return
		}
		orderType, err := models.ParseOrderType(string(req.OrderType))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		total := decimal.Zero
		items := make([]models.ReceiptItem, 0, len(req.Items))
		for _, it := range req.Items {
			if strings.TrimSpace(it.Product) == "" || it.Quantity <= 0 || it.Price.IsNegative() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "each item needs a product, a positive quantity and a price"})
				return
			}
			items = append(items, models.ReceiptItem{Product: it.Product, Quantity: it.Quantity, Price: it.Price})
			total = total.Add(it.LineTotal())
		}

		date := req.Date
		if date.IsZero() {
			date = time.Now()
		}
		receipt := models.Receipt{
			ID:           uuid.NewString(),
			CustomerName: strings.TrimSpace(req.CustomerName),
			OrderType:    orderType,
			Items:        items,
			Total:        total,
			AmountPaid:   total,
			Change:       decimal.Zero,
			Date:         date.UTC(),
		}
		if err := backend.AddReceipt(c.Request.Context(), &receipt); err != nil {
			apierror.Respond(c, err, "Failed to add receipt")
			return
		}

		if hub != nil {
			hub.Broadcast(realtime.EventReceiptAdded, receipt)
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Receipt added", "receipt": receipt})
	}
}

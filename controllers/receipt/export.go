package receiptcontroller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/fastfood-pos/controllers/apierror"
	"github.com/junaidrashid-git/fastfood-pos/reports"
	"github.com/junaidrashid-git/fastfood-pos/store"
)

// ExportSales downloads the receipts of :period (daily, weekly, monthly, all) as xlsx.
func ExportSales(backend store.Backend, loc *time.Location) gin.HandlerFunc {
	return func(c *gin.Context) {
		period, err := reports.ParsePeriod(c.Param("period"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		now := time.Now().In(loc)
		from, to := period.Range(now)
		receipts, err := backend.Receipts(c.Request.Context(), store.ReceiptQuery{From: from, To: to})
		if err != nil {
			apierror.Respond(c, err, "Failed to fetch receipts")
			return
		}

		file, err := reports.SalesWorkbook(receipts, period, loc)
		if err != nil {
			apierror.Respond(c, err, "Failed to create Excel sheet")
			return
		}

		filename := fmt.Sprintf("sales-%s-%s.xlsx", period, now.Format("2006-01-02"))
		c.Header("Content-Disposition", "attachment; filename="+filename)
		c.Header("Content-Type", reports.ContentType)
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			_ = c.Error(err)
		}
	}
}

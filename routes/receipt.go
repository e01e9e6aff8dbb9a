package routes

import (
	"github.com/gin-gonic/gin"
	receiptcontroller "github.com/junaidrashid-git/fastfood-pos/controllers/receipt"
	"github.com/junaidrashid-git/fastfood-pos/middleware"
)

func SetupReceiptRoutes(r *gin.Engine, d Dependencies) {
	receipts := r.Group("/api/receipts")

	// Ledger mirror ingestion from registers
	receipts.POST("", middleware.ValidateAPIKey(d.LedgerAPIKey), receiptcontroller.CreateReceipt(d.Backend, d.Hub))

	protected := receipts.Group("", middleware.ValidateToken(d.Auth))
	{
		protected.GET("", receiptcontroller.GetReceipts(d.Backend, d.Location))
		protected.GET("/export/:period", receiptcontroller.ExportSales(d.Backend, d.Location))
		protected.GET("/:id", receiptcontroller.GetReceipt(d.Backend))
		protected.GET("/:id/print", receiptcontroller.PrintReceipt(d.Backend, d.Printer))
	}
}

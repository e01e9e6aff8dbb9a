package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/fastfood-pos/inventory"
	"github.com/junaidrashid-git/fastfood-pos/reports"
)

func ExportProductsToExcel(inv *inventory.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := reports.ProductsWorkbook(inv.Products())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Header("Content-Type", reports.ContentType)
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			_ = c.Error(err)
		}
	}
}

package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/fastfood-pos/controllers/apierror"
	"github.com/junaidrashid-git/fastfood-pos/inventory"
	"github.com/junaidrashid-git/fastfood-pos/reports"
)

// ImportProductsFromExcel reads an uploaded workbook (form field "file") and creates or
// updates products matched by name, all in one write.
func ImportProductsFromExcel(inv *inventory.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		header, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}

		file, err := header.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		rows, skipped, err := reports.ParseProductsWorkbook(file, header.Size)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		created, updated, err := inv.ImportProducts(c.Request.Context(), rows)
		if err != nil {
			apierror.Respond(c, err, "Failed to import products")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "Import completed",
			"created_count": created,
			"updated_count": updated,
			"skipped_count": skipped,
		})
	}
}

package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/fastfood-pos/controllers/apierror"
	"github.com/junaidrashid-git/fastfood-pos/inventory"
)

// DeleteProduct removes the product and any cart line holding it.
func DeleteProduct(inv *inventory.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := inv.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
			apierror.Respond(c, err, "Failed to delete product")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}

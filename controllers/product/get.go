package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/fastfood-pos/controllers/apierror"
	"github.com/junaidrashid-git/fastfood-pos/inventory"
)

func GetProduct(inv *inventory.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := inv.Product(c.Param("id"))
		if err != nil {
			apierror.Respond(c, err, "Failed to fetch product")
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

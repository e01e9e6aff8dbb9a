package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/fastfood-pos/inventory"
)

// GetProducts lists the catalog, optionally narrowed by ?category= and ?search=.
func GetProducts(inv *inventory.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		products := inventory.Filter(inv.Products(), c.Query("category"), c.Query("search"))
		c.JSON(http.StatusOK, products)
	}
}

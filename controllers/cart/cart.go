package cartcontroller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/fastfood-pos/controllers/apierror"
	"github.com/junaidrashid-git/fastfood-pos/inventory"
	"github.com/junaidrashid-git/fastfood-pos/settlement"
)

// GetCart returns the reserved lines and their running total.
func GetCart(inv *inventory.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		lines := inv.Cart()
		c.JSON(http.StatusOK, gin.H{
			"items": lines,
			"total": settlement.ComputeTotal(lines),
		})
	}
}

// AddToCart reserves one unit of the product.
func AddToCart(inv *inventory.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ProductID string `json:"product_id" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "product_id is required"})
			return
		}

		line, err := inv.AddToCart(c.Request.Context(), req.ProductID)
		if err != nil {
			apierror.Respond(c, err, "Failed to add to cart")
			return
		}
		c.JSON(http.StatusOK, line)
	}
}

// RemoveFromCart drops the line at :index and returns its units to stock. An index
// outside the cart is a no-op.
func RemoveFromCart(inv *inventory.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		index, err := strconv.Atoi(c.Param("index"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart index"})
			return
		}

		removed, err := inv.RemoveFromCart(c.Request.Context(), index)
		if err != nil {
			apierror.Respond(c, err, "Failed to remove from cart")
			return
		}
		c.JSON(http.StatusOK, gin.H{"removed": removed, "items": inv.Cart()})
	}
}

package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/fastfood-pos/controllers/apierror"
	"github.com/junaidrashid-git/fastfood-pos/inventory"
	"github.com/shopspring/decimal"
)

type updateProductRequest struct {
	Name     *string          `json:"name"`
	Price    *decimal.Decimal `json:"price"`
	Quantity *int             `json:"quantity"`
	Category *string          `json:"category"`
	Image    *string          `json:"image"`
}

// UpdateProduct applies a partial update; omitted fields keep their value.
func UpdateProduct(inv *inventory.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		product, err := inv.UpdateProduct(c.Request.Context(), c.Param("id"), inventory.ProductPatch{
			Name:     req.Name,
			Price:    req.Price,
			Quantity: req.Quantity,
			Category: req.Category,
			Image:    req.Image,
		})
		if err != nil {
			apierror.Respond(c, err, "Failed to update product")
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

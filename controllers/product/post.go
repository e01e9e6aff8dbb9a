package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/fastfood-pos/controllers/apierror"
	"github.com/junaidrashid-git/fastfood-pos/inventory"
	"github.com/junaidrashid-git/fastfood-pos/realtime"
	"github.com/shopspring/decimal"
)

type createProductRequest struct {
	Name     string           `json:"name" binding:"required"`
	Price    *decimal.Decimal `json:"price" binding:"required"`
	Quantity *int             `json:"quantity" binding:"required"`
	Category string           `json:"category"`
	Image    string           `json:"image"`
}

// CreateProduct adds a catalog entry and announces it to connected registers.
func CreateProduct(inv *inventory.Store, hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name, price and quantity are required"})
			return
		}

		product, err := inv.AddProduct(c.Request.Context(), inventory.ProductInput{
			Name:     req.Name,
			Price:    *req.Price,
			Quantity: *req.Quantity,
			Category: req.Category,
			Image:    req.Image,
		})
		if err != nil {
			apierror.Respond(c, err, "Failed to create product")
			return
		}

		if hub != nil {
			hub.Broadcast(realtime.EventProductAdded, product)
		}
		c.JSON(http.StatusCreated, product)
	}
}

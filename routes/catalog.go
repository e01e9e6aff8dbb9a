package routes

import (
	"github.com/gin-gonic/gin"
	cartcontroller "github.com/junaidrashid-git/fastfood-pos/controllers/cart"
	productcontroller "github.com/junaidrashid-git/fastfood-pos/controllers/product"
	receiptcontroller "github.com/junaidrashid-git/fastfood-pos/controllers/receipt"
	"github.com/junaidrashid-git/fastfood-pos/middleware"
)

func SetupCatalogRoutes(r *gin.Engine, d Dependencies) {
	api := r.Group("/api")
	api.GET("/products", productcontroller.GetProducts(d.Inventory))
	api.GET("/products/:id", productcontroller.GetProduct(d.Inventory))
	api.GET("/categories", productcontroller.GetCategories(d.Inventory))

	protected := api.Group("", middleware.ValidateToken(d.Auth))
	{
		protected.POST("/products", productcontroller.CreateProduct(d.Inventory, d.Hub))
		protected.PUT("/products/:id", productcontroller.UpdateProduct(d.Inventory))
		protected.DELETE("/products/:id", productcontroller.DeleteProduct(d.Inventory))
		protected.POST("/products/import", productcontroller.ImportProductsFromExcel(d.Inventory))
		protected.GET("/products-export", productcontroller.ExportProductsToExcel(d.Inventory))

		protected.POST("/categories", productcontroller.CreateCategory(d.Inventory))
		protected.DELETE("/categories/:name", productcontroller.DeleteCategory(d.Inventory))

		protected.GET("/cart", cartcontroller.GetCart(d.Inventory))
		protected.POST("/cart", cartcontroller.AddToCart(d.Inventory))
		protected.DELETE("/cart/:index", cartcontroller.RemoveFromCart(d.Inventory))

		protected.POST("/checkout/preview", receiptcontroller.PreviewChange(d.Settlement))
		protected.POST("/checkout", receiptcontroller.Checkout(d.Settlement))
	}
}

package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/fastfood-pos/controllers/apierror"
	"github.com/junaidrashid-git/fastfood-pos/inventory"
)

func GetCategories(inv *inventory.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, inv.Categories())
	}
}

func CreateCategory(inv *inventory.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Name string `json:"name"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		category, err := inv.AddCategory(c.Request.Context(), req.Name)
		if err != nil {
			apierror.Respond(c, err, "Failed to create category")
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

// DeleteCategory answers 404 when no category has that exact name.
func DeleteCategory(inv *inventory.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		removed, err := inv.DeleteCategory(c.Request.Context(), c.Param("name"))
		if err != nil {
			apierror.Respond(c, err, "Failed to delete category")
			return
		}
		if !removed {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
	}
}

package mediacontroller

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DeleteUpload removes an uploaded file by name.
func DeleteUpload(uploadDir string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := filepath.Base(c.Param("name"))
		if name == "." || name == "/" || name == ".." {
			c.JSON(http.StatusBadRequest, gin.H{"error": "File name is required"})
			return
		}

		err := os.Remove(filepath.Join(uploadDir, name))
		if os.IsNotExist(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete file from disk"})
			return
		}

		logger.Info("🗑️ upload deleted", zap.String("name", name))
		c.JSON(http.StatusOK, gin.H{"message": "File deleted successfully"})
	}
}

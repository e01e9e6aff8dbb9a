package mediacontroller

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var unsafeChars = regexp.MustCompile(`[^\w\-.]`)

var allowedExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

// Upload stores the "photo" form file under uploadDir and returns its public URL.
func Upload(uploadDir, publicBaseURL string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := c.FormFile("photo")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
			return
		}
		ext := strings.ToLower(filepath.Ext(file.Filename))
		if !allowedExt[ext] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Only image files are allowed"})
			return
		}

		cleanName := unsafeChars.ReplaceAllString(filepath.Base(file.Filename), "_")
		filename := fmt.Sprintf("%d_%s", time.Now().UnixNano(), cleanName)

		if err := os.MkdirAll(uploadDir, os.ModePerm); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create upload folder"})
			return
		}
		if err := c.SaveUploadedFile(file, filepath.Join(uploadDir, filename)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
			return
		}

		fileURL := fmt.Sprintf("%s/uploads/%s", publicBaseURL, filename)
		logger.Info("📷 image uploaded", zap.String("name", file.Filename), zap.String("url", fileURL))
		c.JSON(http.StatusOK, gin.H{"url": fileURL})
	}
}

package receiptcontroller

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/fastfood-pos/controllers/apierror"
	"github.com/junaidrashid-git/fastfood-pos/printer"
	"github.com/junaidrashid-git/fastfood-pos/store"
)

// PrintReceipt renders the receipt as HTML, or as PDF with ?format=pdf.
func PrintReceipt(backend store.Backend, p *printer.Printer) gin.HandlerFunc {
	return func(c *gin.Context) {
		receipt, err := backend.Receipt(c.Request.Context(), c.Param("id"))
		if err != nil {
			apierror.Respond(c, err, "Failed to fetch receipt")
			return
		}

		switch format := strings.ToLower(c.DefaultQuery("format", "html")); format {
		case "pdf":
			data, err := p.PDFBytes(receipt)
			if err != nil {
				apierror.Respond(c, err, "Failed to render receipt")
				return
			}
			c.Header("Content-Disposition", fmt.Sprintf("inline; filename=receipt-%s.pdf", receipt.ID))
			c.Data(http.StatusOK, "application/pdf", data)
		case "html":
			var buf bytes.Buffer
			if err := p.HTML(&buf, receipt); err != nil {
				apierror.Respond(c, err, "Failed to render receipt")
				return
			}
			c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "format must be html or pdf"})
		}
	}
}

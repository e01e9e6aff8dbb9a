package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/fastfood-pos/auth"
	"github.com/junaidrashid-git/fastfood-pos/inventory"
	"github.com/junaidrashid-git/fastfood-pos/printer"
	"github.com/junaidrashid-git/fastfood-pos/realtime"
	"github.com/junaidrashid-git/fastfood-pos/settlement"
	"github.com/junaidrashid-git/fastfood-pos/store"
	"go.uber.org/zap"
)

// Dependencies are the components the HTTP surface is wired to.
type Dependencies struct {
	Inventory     *inventory.Store
	Settlement    *settlement.Service
	Backend       store.Backend
	Auth          *auth.Service
	Hub           *realtime.Hub
	Printer       *printer.Printer
	Logger        *zap.Logger
	Location      *time.Location
	LedgerAPIKey  string
	UploadsDir    string
	PublicBaseURL string
}

// SetupRoutes is the single entry-point that wires every route group.
func SetupRoutes(r *gin.Engine, d Dependencies) {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Location == nil {
		d.Location = time.UTC
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 1️⃣ Public auth routes
	SetupAuthRoutes(r, d)

	// 2️⃣ Catalog, cart and checkout (public reads, JWT writes)
	SetupCatalogRoutes(r, d)

	// 3️⃣ Receipts (JWT, ledger ingestion by API key)
	SetupReceiptRoutes(r, d)

	// 4️⃣ Admin management (JWT + super admin)
	SetupAdminRoutes(r, d)

	// 5️⃣ Chat, websocket and uploads
	SetupRealtimeRoutes(r, d)
}

// Package store defines the persistence capability shared by the POS core and the
// interchangeable backends that implement it (memory, SQL via gorm, Redis, Firestore).
package store

import (
	"context"
	"time"

	"github.com/junaidrashid-git/fastfood-pos/models"
)

// Collection names one of the inventory collections a backend holds.
type Collection string

const (
	Products   Collection = "products"
	Cart       Collection = "cart"
	Categories Collection = "categories"
	Receipts   Collection = "receipts"
	Admins     Collection = "admins"
)

// Snapshot is the authoritative state of the inventory collections.
type Snapshot struct {
	Products   []models.Product  `json:"products"`
	Cart       []models.CartLine `json:"cart"`
	Categories []models.Category `json:"categories"`
}

// Clone returns a deep copy so callers never share slices with a backend.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Products:   append([]models.Product(nil), s.Products...),
		Cart:       append([]models.CartLine(nil), s.Cart...),
		Categories: append([]models.Category(nil), s.Categories...),
	}
}

// ReceiptQuery selects receipts dated in [From, To). Zero bounds are open.
type ReceiptQuery struct {
	From  time.Time
	To    time.Time
	Limit int
}

// Match reports whether t falls inside the query window.
func (q ReceiptQuery) Match(t time.Time) bool {
	if !q.From.IsZero() && t.Before(q.From) {
		return false
	}
	if !q.To.IsZero() && !t.Before(q.To) {
		return false
	}
	return true
}

// Backend is the load/save/subscribe capability the inventory store and settlement
// run against.
type Backend interface {
	Load(ctx context.Context) (Snapshot, error)
	// Save replaces the named collections with the content of snap in one write.
	Save(ctx context.Context, snap Snapshot, collections ...Collection) error
	// CommitSale persists the receipt and clears the cart together.
	CommitSale(ctx context.Context, receipt *models.Receipt) error
	AddReceipt(ctx context.Context, receipt *models.Receipt) error
	// Receipts lists receipts newest first.
	Receipts(ctx context.Context, q ReceiptQuery) ([]models.Receipt, error)
	Receipt(ctx context.Context, id string) (models.Receipt, error)
	// Subscribe delivers a fresh snapshot after every committed change until the
	// returned cancel func is called or ctx ends.
	Subscribe(ctx context.Context, fn func(Snapshot)) (func(), error)
	Close() error
}

// AdminStore keeps POS operator accounts.
type AdminStore interface {
	CreateAdmin(ctx context.Context, admin *models.Admin) error
	AdminByUsername(ctx context.Context, username string) (models.Admin, error)
	AdminByEmail(ctx context.Context, email string) (models.Admin, error)
	Admins(ctx context.Context, pendingOnly bool) ([]models.Admin, error)
	UpdateAdmin(ctx context.Context, admin *models.Admin) error
	DeleteAdmin(ctx context.Context, username string) error
}

// Store is what every concrete backend provides.
type Store interface {
	Backend
	AdminStore
}

// Includes reports whether c is among collections. Backends use it inside Save.
func Includes(collections []Collection, c Collection) bool {
	for _, x := range collections {
		if x == c {
			return true
		}
	}
	return false
}

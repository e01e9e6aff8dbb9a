package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Uncategorized is the label given to products added without a category.
const Uncategorized = "uncategorized"

func init() {
	// Receipt mirrors and API clients expect prices as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

type Product struct {
	ID        string          `gorm:"primaryKey;size:64" json:"id"`
	Name      string          `gorm:"not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Category  string          `gorm:"index" json:"category"`
	Image     string          `json:"image,omitempty"` // URI or opaque blob reference
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

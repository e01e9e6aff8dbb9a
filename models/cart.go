package models

import "github.com/shopspring/decimal"

// CartLine reserves Quantity units of one product until checkout or removal.
type CartLine struct {
	ProductID string          `gorm:"primaryKey;size:64" json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2)" json:"price"`
	Quantity  int             `json:"quantity"`
	Position  int             `gorm:"index" json:"-"`
}

// Subtotal is price x reserved quantity.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderType string

const (
	OrderTypeDineIn  OrderType = "Dine-in"
	OrderTypeTakeOut OrderType = "Take-out"
)

var ErrInvalidOrderType = errors.New("order type must be Dine-in or Take-out")

// ParseOrderType accepts the labels case-insensitively, with or without the hyphen.
// An empty value defaults to dine-in, matching the register screen.
func ParseOrderType(s string) (OrderType, error) {
	switch strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)) {
	case "", "dinein":
		return OrderTypeDineIn, nil
	case "takeout":
		return OrderTypeTakeOut, nil
	default:
		return "", ErrInvalidOrderType
	}
}

type Receipt struct {
	ID           string          `gorm:"primaryKey;size:64" json:"id"`
	CustomerName string          `gorm:"not null" json:"customerName"`
	OrderType    OrderType       `gorm:"type:VARCHAR(20);default:'Dine-in'" json:"orderType"`
	Items        []ReceiptItem   `gorm:"foreignKey:ReceiptID;constraint:OnDelete:CASCADE" json:"items"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	AmountPaid   decimal.Decimal `gorm:"type:decimal(12,2)" json:"amountPaid"`
	Change       decimal.Decimal `gorm:"type:decimal(12,2)" json:"change"`
	Date         time.Time       `gorm:"index" json:"date"`
}

// ReceiptItem is the immutable sale-time copy of a cart line.
type ReceiptItem struct {
	ID        uint            `gorm:"primaryKey" json:"-"`
	ReceiptID string          `gorm:"index;size:64" json:"-"`
	Position  int             `json:"-"`
	Product   string          `gorm:"not null" json:"product"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
}

// LineTotal is price x quantity.
func (i ReceiptItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ReceiptExport is the JSON body mirrored to the receipt ledger endpoint.
type ReceiptExport struct {
	CustomerName string          `json:"customerName" binding:"required"`
	OrderType    OrderType       `json:"orderType"`
	Items        []ReceiptItem   `json:"items" binding:"required"`
	Total        decimal.Decimal `json:"total"`
	Date         time.Time       `json:"date"`
}

func (r Receipt) Export() ReceiptExport {
	return ReceiptExport{
		CustomerName: r.CustomerName,
		OrderType:    r.OrderType,
		Items:        r.Items,
		Total:        r.Total,
		Date:         r.Date,
	}
}

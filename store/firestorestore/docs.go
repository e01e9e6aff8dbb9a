package firestorestore

import (
	"strings"
	"time"

	"github.com/junaidrashid-git/fastfood-pos/models"
	"github.com/shopspring/decimal"
)

// Firestore cannot encode decimal.Decimal, so money travels as its exact string form.

type productDoc struct {
	ID        string    `firestore:"id"`
	Name      string    `firestore:"name"`
	Price     string    `firestore:"price"`
	Quantity  int       `firestore:"quantity"`
	Category  string    `firestore:"category"`
	Image     string    `firestore:"image,omitempty"`
	Position  int       `firestore:"position"`
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

type cartDoc struct {
	ProductID string `firestore:"product_id"`
	Name      string `firestore:"name"`
	Price     string `firestore:"price"`
	Quantity  int    `firestore:"quantity"`
	Position  int    `firestore:"position"`
}

type categoryDoc struct {
	Name      string    `firestore:"name"`
	Position  int       `firestore:"position"`
	CreatedAt time.Time `firestore:"created_at"`
}

type receiptItemDoc struct {
	Product  string `firestore:"product"`
	Quantity int    `firestore:"quantity"`
	Price    string `firestore:"price"`
}

type receiptDoc struct {
	ID           string           `firestore:"id"`
	CustomerName string           `firestore:"customerName"`
	OrderType    string           `firestore:"orderType"`
	Items        []receiptItemDoc `firestore:"items"`
	Total        string           `firestore:"total"`
	AmountPaid   string           `firestore:"amountPaid"`
	Change       string           `firestore:"change"`
	Date         time.Time        `firestore:"date"`
}

type adminDoc struct {
	Username     string    `firestore:"username"`
	Email        string    `firestore:"email"`
	EmailLower   string    `firestore:"email_lower"`
	Name         string    `firestore:"name"`
	Picture      string    `firestore:"picture"`
	PasswordHash string    `firestore:"password_hash"`
	Role         string    `firestore:"role"`
	Approved     bool      `firestore:"approved"`
	CreatedAt    time.Time `firestore:"created_at"`
}

func parseMoney(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func toProductDoc(p models.Product, pos int) productDoc {
	return productDoc{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price.String(),
		Quantity:  p.Quantity,
		Category:  p.Category,
		Image:     p.Image,
		Position:  pos,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (d productDoc) model() models.Product {
	return models.Product{
		ID:        d.ID,
		Name:      d.Name,
		Price:     parseMoney(d.Price),
		Quantity:  d.Quantity,
		Category:  d.Category,
		Image:     d.Image,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func toCartDoc(l models.CartLine, pos int) cartDoc {
	return cartDoc{
		ProductID: l.ProductID,
		Name:      l.Name,
		Price:     l.Price.String(),
		Quantity:  l.Quantity,
		Position:  pos,
	}
}

func (d cartDoc) model() models.CartLine {
	return models.CartLine{
		ProductID: d.ProductID,
		Name:      d.Name,
		Price:     parseMoney(d.Price),
		Quantity:  d.Quantity,
		Position:  d.Position,
	}
}

func toReceiptDoc(r models.Receipt) receiptDoc {
	items := make([]receiptItemDoc, len(r.Items))
	for i, it := range r.Items {
		items[i] = receiptItemDoc{Product: it.Product, Quantity: it.Quantity, Price: it.Price.String()}
	}
	return receiptDoc{
		ID:           r.ID,
		CustomerName: r.CustomerName,
		OrderType:    string(r.OrderType),
		Items:        items,
		Total:        r.Total.String(),
		AmountPaid:   r.AmountPaid.String(),
		Change:       r.Change.String(),
		Date:         r.Date,
	}
}

func (d receiptDoc) model() models.Receipt {
	items := make([]models.ReceiptItem, len(d.Items))
	for i, it := range d.Items {
		items[i] = models.ReceiptItem{
			ReceiptID: d.ID,
			Position:  i,
			Product:   it.Product,
			Quantity:  it.Quantity,
			Price:     parseMoney(it.Price),
		}
	}
	return models.Receipt{
		ID:           d.ID,
		CustomerName: d.CustomerName,
		OrderType:    models.OrderType(d.OrderType),
		Items:        items,
		Total:        parseMoney(d.Total),
		AmountPaid:   parseMoney(d.AmountPaid),
		Change:       parseMoney(d.Change),
		Date:         d.Date,
	}
}

func toAdminDoc(a models.Admin) adminDoc {
	return adminDoc{
		Username:     a.Username,
		Email:        a.Email,
		EmailLower:   strings.ToLower(a.Email),
		Name:         a.Name,
		Picture:      a.Picture,
		PasswordHash: a.PasswordHash,
		Role:         a.Role,
		Approved:     a.Approved,
		CreatedAt:    a.CreatedAt,
	}
}

func (d adminDoc) model() models.Admin {
	return models.Admin{
		Username:     d.Username,
		Email:        d.Email,
		Name:         d.Name,
		Picture:      d.Picture,
		PasswordHash: d.PasswordHash,
		Role:         d.Role,
		Approved:     d.Approved,
		CreatedAt:    d.CreatedAt,
	}
}

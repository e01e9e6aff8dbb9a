package inventory

import (
	"errors"
	"strings"

	"github.com/junaidrashid-git/fastfood-pos/models"
	"github.com/junaidrashid-git/fastfood-pos/store"
)

// errNoop aborts a mutation that has nothing to change.
var errNoop = errors.New("no change")

func indexOfProduct(products []models.Product, id string) int {
	for i, p := range products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func indexOfProductByName(products []models.Product, name string) int {
	for i, p := range products {
		if strings.EqualFold(p.Name, name) {
			return i
		}
	}
	return -1
}

func indexOfLine(cart []models.CartLine, productID string) int {
	for i, l := range cart {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

func hasCategory(categories []models.Category, name string) bool {
	for _, c := range categories {
		if c.Name == name {
			return true
		}
	}
	return false
}

func renumber(cart []models.CartLine) {
	for i := range cart {
		cart[i].Position = i
	}
}

// validateProduct checks p against the rest of the catalog in st and fills the default
// category.
func validateProduct(st *store.Snapshot, p *models.Product) error {
	if p.Name == "" {
		return ErrEmptyName
	}
	if p.Price.IsNegative() || p.Quantity < 0 {
		return ErrInvalidProduct
	}
	if p.Category == "" {
		p.Category = models.Uncategorized
	} else if p.Category != models.Uncategorized && !hasCategory(st.Categories, p.Category) {
		return ErrUnknownCategory
	}
	for _, other := range st.Products {
		if other.ID != p.ID && strings.EqualFold(other.Name, p.Name) {
			return ErrDuplicateProduct
		}
	}
	return nil
}

// Filter returns the products in category (all when empty) whose name contains search,
// ignoring case.
func Filter(products []models.Product, category, search string) []models.Product {
	search = strings.ToLower(strings.TrimSpace(search))
	category = strings.TrimSpace(category)

	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if category != "" && p.Category != category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

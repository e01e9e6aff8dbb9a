package inventory

import "errors"

var (
	ErrOutOfStock        = errors.New("product is out of stock")
	ErrDuplicateCategory = errors.New("category already exists")
	ErrEmptyName         = errors.New("name must not be empty")
	ErrProductNotFound   = errors.New("product not found")
	ErrDuplicateProduct  = errors.New("a product with this name already exists")
	ErrInvalidProduct    = errors.New("price and quantity must not be negative")
	ErrUnknownCategory   = errors.New("category does not exist")
	ErrNotOpen           = errors.New("inventory store is not open")
)

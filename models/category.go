package models

import "time"

type Category struct {
	Name      string    `gorm:"primaryKey;size:128" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// DefaultCategories are seeded when the backing store holds none.
var DefaultCategories = []string{"Pizza", "Coffee", "Sandwich", "Softdrinks"}

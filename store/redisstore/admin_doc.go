package redisstore

import (
	"sort"
	"time"

	"github.com/junaidrashid-git/fastfood-pos/models"
)

// adminDoc mirrors models.Admin but keeps the password hash, which the API model hides
// from JSON.
type adminDoc struct {
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	Name         string    `json:"name,omitempty"`
	Picture      string    `json:"picture,omitempty"`
	PasswordHash string    `json:"password_hash,omitempty"`
	Role         string    `json:"role"`
	Approved     bool      `json:"approved"`
	CreatedAt    time.Time `json:"created_at"`
}

func sortAdmins(admins []models.Admin) {
	sort.Slice(admins, func(i, j int) bool { return admins[i].Username < admins[j].Username })
}

package models

import "time"

const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

type Admin struct {
	Username     string    `gorm:"primaryKey;size:128" json:"username"`
	Email        string    `gorm:"index" json:"email,omitempty"`
	Name         string    `json:"name,omitempty"`
	Picture      string    `json:"picture,omitempty"`
	PasswordHash string    `json:"-"`
	Role         string    `gorm:"type:VARCHAR(20);default:'admin'" json:"role"`
	Approved     bool      `json:"approved"`
	CreatedAt    time.Time `json:"created_at"`
}

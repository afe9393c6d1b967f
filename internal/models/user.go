package models

import (
	"time"
)

// Role names seeded by the initial migration.
const (
	RoleAdmin = "ROLE_ADMIN"
	RoleUser  = "ROLE_USER"
)

type User struct {
	ID           string
	Username     string
	Email        string
	Name         string
	PasswordHash string
	Approved     bool
	Roles        []string // role names
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasRole reports whether the user currently holds the named role.
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r == name {
			return true
		}
	}
	return false
}

type Role struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

package domain

import (
	"errors"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidRole reports whether role is one of the known privilege tiers.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// User models an account holder. PasswordHash never leaves the server.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         string
	Disabled     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRef is the denormalised author/owner view joined onto services,
// reviews and applications.
type UserRef struct {
	ID       string
	Username string
}

// Ref returns the public reference for u.
func (u *User) Ref() *UserRef {
	return &UserRef{ID: u.ID, Username: u.Username}
}

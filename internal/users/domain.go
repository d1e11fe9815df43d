package users

import "time"

// User represents an application account.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Roles available to accounts. Stored as plain strings on the user row.
var Roles = []string{"admin", "manager", "staff"}

// CreateUserInput carries a new account request.
type CreateUserInput struct {
	Email    string
	Name     string
	Role     string
	Password string
}

// UpdateUserInput carries account changes. Every field is optional:
// zero values leave the stored value untouched, and the password is
// rehashed only when set.
type UpdateUserInput struct {
	Email    string
	Name     string
	Role     string
	Password string
	IsActive *bool
}

package domain

import "time"

// User models a registered account. PasswordHash is excluded from every
// JSON rendering of the record.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	IsActive     bool      `json:"is_active"`
}

// NewUser carries the caller-supplied fields of a registration candidate.
// The repository allocates the identifier and timestamps on insert.
type NewUser struct {
	Username string
	Email    string
}

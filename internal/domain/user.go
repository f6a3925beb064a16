package domain

import "time"

// User is the domain representation of a user account.
// PasswordHash never leaves the application layer.
type User struct {
	ID    UserID
	Name  string
	Email string

	PasswordHash string

	LastLogin *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile is the externally visible view of a user account.
type Profile struct {
	ID    UserID
	Name  string
	Email string

	LastLogin *time.Time
	CreatedAt time.Time
}

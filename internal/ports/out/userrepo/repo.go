package userrepo

import (
	"context"
	"time"

	"github.com/wayfarelabs/travel-planner-api/internal/domain"
)

// User is the persistence shape used by the user repository.
// It is an internal record, not an HTTP DTO.
type User struct {
	ID    domain.UserID
	Name  string
	Email string

	PasswordHash string

	// LastLogin is touched on successful login; nil means never logged in.
	LastLogin *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository provides access to persisted users.
//
// Email is a unique key: Create must fail with ErrEmailTaken when a user with
// the same (normalized) email already exists.
type Repository interface {
	Create(ctx context.Context, u User) error

	GetByID(ctx context.Context, id domain.UserID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)

	// TouchLastLogin records a successful login; a missing user is not an error.
	TouchLastLogin(ctx context.Context, id domain.UserID, at time.Time) error
}

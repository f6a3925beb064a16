package photorepo

import (
	"context"
	"time"

	"github.com/wayfarelabs/travel-planner-api/internal/domain"
)

// Photo is the persistence shape used by the photo repository.
type Photo struct {
	ID     domain.PhotoID
	UserID domain.UserID
	TripID domain.TripID

	ImageURL   string
	ProviderID string

	Caption *string

	CreatedAt time.Time
}

// Repository provides access to persisted photo metadata.
//
// The (UserID, TripID, ImageURL) triple is unique; Create must fail with
// ErrDuplicateAsset when the same asset reference is registered twice.
// The store arbitrates this constraint; the application does not pre-check.
type Repository interface {
	Create(ctx context.Context, p Photo) error

	GetByID(ctx context.Context, id domain.PhotoID) (Photo, error)

	// ListByTrip returns a trip's photos, createdAt descending.
	ListByTrip(ctx context.Context, tripID domain.TripID) ([]Photo, error)
	// ListByUser returns all of a user's photos, createdAt descending.
	ListByUser(ctx context.Context, userID domain.UserID) ([]Photo, error)

	Delete(ctx context.Context, id domain.PhotoID) error
	// DeleteByTrip removes all photo records for a trip and reports how many.
	DeleteByTrip(ctx context.Context, tripID domain.TripID) (int, error)
}

package triprepo

import (
	"context"
	"time"

	"github.com/wayfarelabs/travel-planner-api/internal/domain"
)

// Trip is the persistence shape used by the trip repository.
// It is not an HTTP DTO.
type Trip struct {
	ID     domain.TripID
	UserID domain.UserID

	StartPlace  string
	Destination string

	Budget     *domain.Budget
	Flights    []domain.FlightOption
	Locations  []domain.Location
	SeasonInfo string
	Itinerary  []domain.ItineraryDay

	Status domain.TripStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ListOptions bounds and orders ListByUser results.
// A zero Limit means no limit; results are always createdAt descending.
type ListOptions struct {
	Limit int
}

// Repository provides access to persisted trips.
type Repository interface {
	Create(ctx context.Context, t Trip) error

	GetByID(ctx context.Context, id domain.TripID) (Trip, error)

	ListByUser(ctx context.Context, userID domain.UserID, opts ListOptions) ([]Trip, error)

	// UpdateStatus sets the status and updatedAt of an existing trip.
	// It succeeds when the trip exists, whether or not the status changed.
	UpdateStatus(ctx context.Context, id domain.TripID, status domain.TripStatus, at time.Time) error

	Delete(ctx context.Context, id domain.TripID) error
}

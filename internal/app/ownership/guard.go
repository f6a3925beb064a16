// Package ownership is the single place that answers "does this caller own
// that resource". Every read or mutation scoped to a trip or photo id goes
// through it before any orchestration runs.
package ownership

import (
	"context"
	"errors"

	"github.com/wayfarelabs/travel-planner-api/internal/domain"
	"github.com/wayfarelabs/travel-planner-api/internal/ports/out/photorepo"
	"github.com/wayfarelabs/travel-planner-api/internal/ports/out/triprepo"
)

// ErrNotOwner is returned both when the resource does not exist and when it
// is owned by someone else. The two cases are indistinguishable on purpose:
// rendering them identically (404) keeps non-owners from probing which ids
// exist. Callers must not try to tell them apart.
var ErrNotOwner = errors.New("resource not found or not owned by caller")

// Guard performs point lookups against the authoritative store and compares
// the stored owner to the acting user.
type Guard struct {
	trips  triprepo.Repository
	photos photorepo.Repository
}

func NewGuard(trips triprepo.Repository, photos photorepo.Repository) *Guard {
	return &Guard{trips: trips, photos: photos}
}

// Trip returns the trip when caller owns it, ErrNotOwner otherwise.
func (g *Guard) Trip(ctx context.Context, id domain.TripID, caller domain.UserID) (triprepo.Trip, error) {
	t, err := g.trips.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, triprepo.ErrNotFound) {
			return triprepo.Trip{}, ErrNotOwner
		}
		return triprepo.Trip{}, err
	}
	if t.UserID != caller {
		return triprepo.Trip{}, ErrNotOwner
	}
	return t, nil
}

// Photo returns the photo when caller owns it, ErrNotOwner otherwise.
func (g *Guard) Photo(ctx context.Context, id domain.PhotoID, caller domain.UserID) (photorepo.Photo, error) {
	p, err := g.photos.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, photorepo.ErrNotFound) {
			return photorepo.Photo{}, ErrNotOwner
		}
		return photorepo.Photo{}, err
	}
	if p.UserID != caller {
		return photorepo.Photo{}, ErrNotOwner
	}
	return p, nil
}

package triprepo

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/wayfarelabs/travel-planner-api/internal/domain"
	"github.com/wayfarelabs/travel-planner-api/internal/ports/out/triprepo"
)

// Repo is an in-memory implementation of triprepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.TripID]triprepo.Trip
}

func NewRepo() *Repo {
	return &Repo{
		byID: make(map[domain.TripID]triprepo.Trip),
	}
}

func (r *Repo) Create(ctx context.Context, t triprepo.Trip) error {
	_ = ctx
	if t.ID == "" {
		return errors.New("empty trip id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[t.ID]; ok {
		return triprepo.ErrAlreadyExists
	}
	r.byID[t.ID] = cloneTrip(t)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.TripID) (triprepo.Trip, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byID[id]
	if !ok {
		return triprepo.Trip{}, triprepo.ErrNotFound
	}
	return cloneTrip(t), nil
}

func (r *Repo) ListByUser(ctx context.Context, userID domain.UserID, opts triprepo.ListOptions) ([]triprepo.Trip, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]triprepo.Trip, 0)
	for _, t := range r.byID {
		if t.UserID == userID {
			out = append(out, cloneTrip(t))
		}
	}
	sortTrips(out)
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (r *Repo) UpdateStatus(ctx context.Context, id domain.TripID, status domain.TripStatus, at time.Time) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok {
		return triprepo.ErrNotFound
	}
	t.Status = status
	t.UpdatedAt = at
	r.byID[id] = t
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.TripID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return triprepo.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func cloneTrip(t triprepo.Trip) triprepo.Trip {
	cp := t
	if t.Budget != nil {
		v := *t.Budget
		cp.Budget = &v
	}
	if t.Flights != nil {
		cp.Flights = append([]domain.FlightOption(nil), t.Flights...)
	}
	if t.Locations != nil {
		cp.Locations = append([]domain.Location(nil), t.Locations...)
	}
	if t.Itinerary != nil {
		cp.Itinerary = make([]domain.ItineraryDay, 0, len(t.Itinerary))
		for _, d := range t.Itinerary {
			dd := d
			dd.Activities = append([]string(nil), d.Activities...)
			cp.Itinerary = append(cp.Itinerary, dd)
		}
	}
	return cp
}

func sortTrips(ts []triprepo.Trip) {
	// Newest first; ties broken by ID for determinism.
	sort.Slice(ts, func(i, j int) bool {
		a, b := ts[i], ts[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return string(a.ID) < string(b.ID)
	})
}

// Package contracttest holds adapter-agnostic behavior suites. Every
// repository adapter (memory, mongo, postgres) runs the same suites so the
// application layer can treat the backends as interchangeable.
package contracttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/wayfarelabs/travel-planner-api/internal/domain"
	photorepoport "github.com/wayfarelabs/travel-planner-api/internal/ports/out/photorepo"
	triprepoport "github.com/wayfarelabs/travel-planner-api/internal/ports/out/triprepo"
	userrepoport "github.com/wayfarelabs/travel-planner-api/internal/ports/out/userrepo"
)

type CleanupFunc = func()

type UserRepoFactory func(t *testing.T) (userrepoport.Repository, CleanupFunc)
type TripRepoFactory func(t *testing.T) (triprepoport.Repository, CleanupFunc)
type PhotoRepoFactory func(t *testing.T) (photorepoport.Repository, CleanupFunc)

func RunUserRepo(t *testing.T, newRepo UserRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(1000, 0).UTC()
	aID := domain.UserID(uuid.NewString())
	if err := repo.Create(ctx, userrepoport.User{
		ID:           aID,
		Name:         "Alice Johnson",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$fakehash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		t.Fatalf("Create a: %v", err)
	}
	if _, err := repo.GetByID(ctx, aID); err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	got, err := repo.GetByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.ID != aID || got.LastLogin != nil {
		t.Fatalf("unexpected user: %#v", got)
	}

	// Email uniqueness.
	err = repo.Create(ctx, userrepoport.User{
		ID:           domain.UserID(uuid.NewString()),
		Name:         "Alice 2",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$fakehash",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if !errors.Is(err, userrepoport.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	// Missing lookups.
	if _, err := repo.GetByID(ctx, domain.UserID(uuid.NewString())); !errors.Is(err, userrepoport.ErrNotFound) {
		t.Fatalf("GetByID missing: %v", err)
	}
	if _, err := repo.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, userrepoport.ErrNotFound) {
		t.Fatalf("GetByEmail missing: %v", err)
	}

	// TouchLastLogin is recorded for existing users and is a no-op otherwise.
	loginAt := now.Add(time.Hour)
	if err := repo.TouchLastLogin(ctx, aID, loginAt); err != nil {
		t.Fatalf("TouchLastLogin: %v", err)
	}
	got, err = repo.GetByID(ctx, aID)
	if err != nil {
		t.Fatalf("GetByID after touch: %v", err)
	}
	if got.LastLogin == nil || !got.LastLogin.Equal(loginAt) {
		t.Fatalf("lastLogin=%v, want %v", got.LastLogin, loginAt)
	}
	if err := repo.TouchLastLogin(ctx, domain.UserID(uuid.NewString()), loginAt); err != nil {
		t.Fatalf("TouchLastLogin missing user: %v", err)
	}
}

func RunTripRepo(t *testing.T, newRepo TripRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	owner := domain.UserID(uuid.NewString())
	base := time.Unix(2000, 0).UTC()

	mkTrip := func(id domain.TripID, at time.Time) triprepoport.Trip {
		return triprepoport.Trip{
			ID:          id,
			UserID:      owner,
			StartPlace:  "Delhi",
			Destination: "Goa",
			Budget: &domain.Budget{
				EstimatedTotal: 50000,
				Currency:       "INR",
				Breakdown:      domain.BudgetBreakdown{Flights: 18000, Accommodation: 15000},
			},
			SeasonInfo: "October to March",
			Itinerary:  []domain.ItineraryDay{{Day: 1, Activities: []string{"Arrive"}}},
			Status:     domain.TripStatusPlanned,
			CreatedAt:  at,
			UpdatedAt:  at,
		}
	}

	oldID := domain.TripID(uuid.NewString())
	newID := domain.TripID(uuid.NewString())
	if err := repo.Create(ctx, mkTrip(oldID, base)); err != nil {
		t.Fatalf("Create old: %v", err)
	}
	if err := repo.Create(ctx, mkTrip(newID, base.Add(time.Hour))); err != nil {
		t.Fatalf("Create new: %v", err)
	}
	if err := repo.Create(ctx, mkTrip(oldID, base)); !errors.Is(err, triprepoport.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	got, err := repo.GetByID(ctx, oldID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Budget == nil || got.Budget.Currency != "INR" || len(got.Itinerary) != 1 {
		t.Fatalf("plan payload not round-tripped: %#v", got)
	}

	// Newest first, with limit.
	ts, err := repo.ListByUser(ctx, owner, triprepoport.ListOptions{})
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(ts) != 2 || ts[0].ID != newID {
		t.Fatalf("unexpected ordering: %#v", ts)
	}
	ts, err = repo.ListByUser(ctx, owner, triprepoport.ListOptions{Limit: 1})
	if err != nil || len(ts) != 1 || ts[0].ID != newID {
		t.Fatalf("limited list: %#v err=%v", ts, err)
	}
	ts, err = repo.ListByUser(ctx, domain.UserID(uuid.NewString()), triprepoport.ListOptions{})
	if err != nil || len(ts) != 0 {
		t.Fatalf("foreign list: %#v err=%v", ts, err)
	}

	// UpdateStatus succeeds whether or not the status changes.
	at := base.Add(2 * time.Hour)
	for i := 0; i < 2; i++ {
		if err := repo.UpdateStatus(ctx, oldID, domain.TripStatusCompleted, at); err != nil {
			t.Fatalf("UpdateStatus #%d: %v", i+1, err)
		}
	}
	got, err = repo.GetByID(ctx, oldID)
	if err != nil || got.Status != domain.TripStatusCompleted {
		t.Fatalf("status not applied: %#v err=%v", got, err)
	}
	if err := repo.UpdateStatus(ctx, domain.TripID(uuid.NewString()), domain.TripStatusCompleted, at); !errors.Is(err, triprepoport.ErrNotFound) {
		t.Fatalf("UpdateStatus missing: %v", err)
	}

	if err := repo.Delete(ctx, oldID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, oldID); !errors.Is(err, triprepoport.ErrNotFound) {
		t.Fatalf("deleted trip still readable: %v", err)
	}
	if err := repo.Delete(ctx, oldID); !errors.Is(err, triprepoport.ErrNotFound) {
		t.Fatalf("Delete missing: %v", err)
	}
}

func RunPhotoRepo(t *testing.T, newRepo PhotoRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	owner := domain.UserID(uuid.NewString())
	tripA := domain.TripID(uuid.NewString())
	tripB := domain.TripID(uuid.NewString())
	base := time.Unix(3000, 0).UTC()

	mkPhoto := func(id domain.PhotoID, trip domain.TripID, url string, at time.Time) photorepoport.Photo {
		return photorepoport.Photo{
			ID:         id,
			UserID:     owner,
			TripID:     trip,
			ImageURL:   url,
			ProviderID: "prov/" + string(id),
			CreatedAt:  at,
		}
	}

	p1 := domain.PhotoID(uuid.NewString())
	p2 := domain.PhotoID(uuid.NewString())
	p3 := domain.PhotoID(uuid.NewString())
	if err := repo.Create(ctx, mkPhoto(p1, tripA, "https://cdn/a1", base)); err != nil {
		t.Fatalf("Create p1: %v", err)
	}
	if err := repo.Create(ctx, mkPhoto(p2, tripA, "https://cdn/a2", base.Add(time.Minute))); err != nil {
		t.Fatalf("Create p2: %v", err)
	}
	if err := repo.Create(ctx, mkPhoto(p3, tripB, "https://cdn/b1", base)); err != nil {
		t.Fatalf("Create p3: %v", err)
	}

	// (user, trip, url) uniqueness is arbitrated by the store.
	err := repo.Create(ctx, mkPhoto(domain.PhotoID(uuid.NewString()), tripA, "https://cdn/a1", base))
	if !errors.Is(err, photorepoport.ErrDuplicateAsset) {
		t.Fatalf("expected ErrDuplicateAsset, got %v", err)
	}
	// The same URL under a different trip is a distinct asset.
	if err := repo.Create(ctx, mkPhoto(domain.PhotoID(uuid.NewString()), tripB, "https://cdn/a1", base)); err != nil {
		t.Fatalf("same url, different trip: %v", err)
	}

	ps, err := repo.ListByTrip(ctx, tripA)
	if err != nil {
		t.Fatalf("ListByTrip: %v", err)
	}
	if len(ps) != 2 || ps[0].ID != p2 {
		t.Fatalf("unexpected trip listing: %#v", ps)
	}
	ps, err = repo.ListByUser(ctx, owner)
	if err != nil || len(ps) != 4 {
		t.Fatalf("ListByUser: %#v err=%v", ps, err)
	}

	if _, err := repo.GetByID(ctx, domain.PhotoID(uuid.NewString())); !errors.Is(err, photorepoport.ErrNotFound) {
		t.Fatalf("GetByID missing: %v", err)
	}

	if err := repo.Delete(ctx, p1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, p1); !errors.Is(err, photorepoport.ErrNotFound) {
		t.Fatalf("Delete missing: %v", err)
	}

	n, err := repo.DeleteByTrip(ctx, tripA)
	if err != nil || n != 1 {
		t.Fatalf("DeleteByTrip: n=%d err=%v", n, err)
	}
	ps, err = repo.ListByTrip(ctx, tripA)
	if err != nil || len(ps) != 0 {
		t.Fatalf("trip photos remain: %#v err=%v", ps, err)
	}
	// Deleting an empty trip is not an error, just zero.
	n, err = repo.DeleteByTrip(ctx, tripA)
	if err != nil || n != 0 {
		t.Fatalf("DeleteByTrip empty: n=%d err=%v", n, err)
	}
}

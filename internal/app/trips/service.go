package trips

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/wayfarelabs/travel-planner-api/internal/app/ownership"
	"github.com/wayfarelabs/travel-planner-api/internal/app/photos"
	"github.com/wayfarelabs/travel-planner-api/internal/domain"
	"github.com/wayfarelabs/travel-planner-api/internal/ports/out/assetstore"
	"github.com/wayfarelabs/travel-planner-api/internal/ports/out/clock"
	"github.com/wayfarelabs/travel-planner-api/internal/ports/out/photorepo"
	"github.com/wayfarelabs/travel-planner-api/internal/ports/out/planner"
	"github.com/wayfarelabs/travel-planner-api/internal/ports/out/triprepo"
)

// Service owns the trip lifecycle: plan generation, explicit save, status
// transitions and the cascading delete across both stores.
type Service struct {
	trips   triprepo.Repository
	photos  photorepo.Repository
	assets  assetstore.Store
	planner planner.Planner
	guard   *ownership.Guard
	clock   clock.Clock
	log     *slog.Logger

	newTripID func() domain.TripID
}

func NewService(tripsRepo triprepo.Repository, photosRepo photorepo.Repository, assets assetstore.Store, pl planner.Planner, guard *ownership.Guard, clk clock.Clock, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		trips:   tripsRepo,
		photos:  photosRepo,
		assets:  assets,
		planner: pl,
		guard:   guard,
		clock:   clk,
		log:     log,
		newTripID: func() domain.TripID {
			return domain.TripID(uuid.NewString())
		},
	}
}

// SetNewTripIDForTest overrides trip ID generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewTripIDForTest(fn func() domain.TripID) {
	if fn != nil {
		s.newTripID = fn
	}
}

// Plan generates an ephemeral plan. Nothing is persisted; the caller saves
// the plan explicitly via Create if they want to keep it.
func (s *Service) Plan(ctx context.Context, startPlace, destination string) (domain.TripPlan, error) {
	startPlace = strings.TrimSpace(startPlace)
	destination = strings.TrimSpace(destination)
	if startPlace == "" || destination == "" {
		return domain.TripPlan{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "startPlace and destination are required"}
	}

	plan, err := s.planner.GeneratePlan(ctx, startPlace, destination)
	if err != nil {
		return domain.TripPlan{}, &Error{Status: 502, Code: "PLANNER_UNAVAILABLE", Message: "trip plan generation failed"}
	}
	return plan, nil
}

func (s *Service) Create(ctx context.Context, caller domain.UserID, in CreateTripInput) (domain.Trip, error) {
	startPlace := strings.TrimSpace(in.StartPlace)
	destination := strings.TrimSpace(in.Destination)
	if startPlace == "" || destination == "" {
		return domain.Trip{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "startPlace and destination are required"}
	}

	now := s.clock.Now()
	t := triprepo.Trip{
		ID:          s.newTripID(),
		UserID:      caller,
		StartPlace:  startPlace,
		Destination: destination,
		Budget:      cloneBudgetPtr(in.Budget),
		Flights:     append([]domain.FlightOption(nil), in.Flights...),
		Locations:   append([]domain.Location(nil), in.Locations...),
		SeasonInfo:  in.SeasonInfo,
		Itinerary:   cloneItinerary(in.Itinerary),
		Status:      domain.TripStatusPlanned,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.trips.Create(ctx, t); err != nil {
		if errors.Is(err, triprepo.ErrAlreadyExists) {
			// Extremely unlikely (UUID collision); treat as conflict.
			return domain.Trip{}, &Error{Status: 409, Code: "TRIP_ID_CONFLICT", Message: "trip id conflict"}
		}
		return domain.Trip{}, err
	}

	return toDomainTrip(t), nil
}

func (s *Service) Get(ctx context.Context, caller domain.UserID, tripID domain.TripID) (domain.Trip, error) {
	t, err := s.guard.Trip(ctx, tripID, caller)
	if err != nil {
		if errors.Is(err, ownership.ErrNotOwner) {
			return domain.Trip{}, &Error{Status: 404, Code: "TRIP_NOT_FOUND", Message: "trip not found"}
		}
		return domain.Trip{}, err
	}
	return toDomainTrip(t), nil
}

func (s *Service) List(ctx context.Context, caller domain.UserID, opts ListOptions) ([]domain.Trip, error) {
	ts, err := s.trips.ListByUser(ctx, caller, triprepo.ListOptions{Limit: opts.Limit})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Trip, 0, len(ts))
	for _, t := range ts {
		out = append(out, toDomainTrip(t))
	}
	return out, nil
}

// UpdateStatus sets a trip's status. The status value is validated before the
// ownership lookup so garbage is rejected without touching the store, and the
// update is idempotent: setting the current status again succeeds.
func (s *Service) UpdateStatus(ctx context.Context, caller domain.UserID, tripID domain.TripID, status domain.TripStatus) error {
	if !domain.ValidTripStatus(status) {
		return &Error{
			Status: 400, Code: "VALIDATION_ERROR", Message: "invalid status",
			Details: map[string]any{"status": "must be planned or completed"},
		}
	}

	if _, err := s.guard.Trip(ctx, tripID, caller); err != nil {
		if errors.Is(err, ownership.ErrNotOwner) {
			return &Error{Status: 404, Code: "TRIP_NOT_FOUND", Message: "trip not found"}
		}
		return err
	}

	if err := s.trips.UpdateStatus(ctx, tripID, status, s.clock.Now()); err != nil {
		if errors.Is(err, triprepo.ErrNotFound) {
			return &Error{Status: 404, Code: "TRIP_NOT_FOUND", Message: "trip not found"}
		}
		return err
	}
	return nil
}

// Delete cascades in a fixed order: enumerate photos, best-effort delete each
// remote asset, bulk-delete the photo metadata, best-effort delete the asset
// namespace, then the trip record. An interruption after the metadata delete
// leaves at worst a photo-less trip and an empty remote folder; it can never
// leave photo records pointing at deleted assets.
func (s *Service) Delete(ctx context.Context, caller domain.UserID, tripID domain.TripID) error {
	if _, err := s.guard.Trip(ctx, tripID, caller); err != nil {
		if errors.Is(err, ownership.ErrNotOwner) {
			return &Error{Status: 404, Code: "TRIP_NOT_FOUND", Message: "trip not found"}
		}
		return err
	}

	ps, err := s.photos.ListByTrip(ctx, tripID)
	if err != nil {
		return err
	}

	// One failed asset delete must not abort the cascade.
	for _, p := range ps {
		ref := p.ProviderID
		if ref == "" {
			ref = p.ImageURL
		}
		if err := s.assets.Delete(ctx, ref); err != nil {
			s.log.Warn("asset delete failed during trip cascade",
				"tripID", tripID, "photoID", p.ID, "url", p.ImageURL, "err", err)
		}
	}

	// The metadata bulk delete must succeed before the trip record goes:
	// deleting the trip first could strand photo records whose assets are
	// already gone.
	if _, err := s.photos.DeleteByTrip(ctx, tripID); err != nil {
		return &Error{Status: 500, Code: "PERSISTENCE_FAILED", Message: "failed to delete trip photos"}
	}

	if err := s.assets.DeleteNamespace(ctx, photos.Namespace(caller, tripID)); err != nil {
		s.log.Warn("namespace delete failed during trip cascade",
			"tripID", tripID, "err", err)
	}

	if err := s.trips.Delete(ctx, tripID); err != nil {
		if errors.Is(err, triprepo.ErrNotFound) {
			return &Error{Status: 404, Code: "TRIP_NOT_FOUND", Message: "trip not found"}
		}
		return err
	}
	return nil
}

func toDomainTrip(t triprepo.Trip) domain.Trip {
	return domain.Trip{
		ID:          t.ID,
		UserID:      t.UserID,
		StartPlace:  t.StartPlace,
		Destination: t.Destination,
		Budget:      cloneBudgetPtr(t.Budget),
		Flights:     append([]domain.FlightOption(nil), t.Flights...),
		Locations:   append([]domain.Location(nil), t.Locations...),
		SeasonInfo:  t.SeasonInfo,
		Itinerary:   cloneItinerary(t.Itinerary),
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func cloneBudgetPtr(b *domain.Budget) *domain.Budget {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}

func cloneItinerary(days []domain.ItineraryDay) []domain.ItineraryDay {
	if days == nil {
		return nil
	}
	out := make([]domain.ItineraryDay, 0, len(days))
	for _, d := range days {
		cp := d
		cp.Activities = append([]string(nil), d.Activities...)
		out = append(out, cp)
	}
	return out
}

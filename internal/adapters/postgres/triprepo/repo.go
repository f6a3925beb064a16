package triprepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/wayfarelabs/travel-planner-api/internal/adapters/postgres"
	"github.com/wayfarelabs/travel-planner-api/internal/domain"
	"github.com/wayfarelabs/travel-planner-api/internal/ports/out/triprepo"
)

// Repo is a Postgres implementation of triprepo.Repository. The structured
// plan payload (budget, flights, locations, itinerary) is stored as JSONB;
// the relational columns carry only what queries filter and sort on.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// planPayload is the JSONB shape for the generated plan.
type planPayload struct {
	Budget     *domain.Budget        `json:"budget,omitempty"`
	Flights    []domain.FlightOption `json:"flights,omitempty"`
	Locations  []domain.Location     `json:"locations,omitempty"`
	SeasonInfo string                `json:"seasonInfo,omitempty"`
	Itinerary  []domain.ItineraryDay `json:"itinerary,omitempty"`
}

func (r *Repo) Create(ctx context.Context, t triprepo.Trip) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	plan, err := json.Marshal(planPayload{
		Budget:     t.Budget,
		Flights:    t.Flights,
		Locations:  t.Locations,
		SeasonInfo: t.SeasonInfo,
		Itinerary:  t.Itinerary,
	})
	if err != nil {
		return fmt.Errorf("encode plan payload: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO trips (
			id,
			user_id,
			start_place,
			destination,
			plan,
			status,
			created_at,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		string(t.ID),
		string(t.UserID),
		t.StartPlace,
		t.Destination,
		plan,
		string(t.Status),
		t.CreatedAt.UTC(),
		t.UpdatedAt.UTC(),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode && pe.ConstraintName == "trips_pkey" {
			return triprepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.TripID) (triprepo.Trip, error) {
	if r.pool == nil {
		return triprepo.Trip{}, errors.New("nil postgres pool")
	}
	return scanTrip(r.pool.QueryRow(ctx, selectTrip+` WHERE id = $1`, string(id)))
}

func (r *Repo) ListByUser(ctx context.Context, userID domain.UserID, opts triprepo.ListOptions) ([]triprepo.Trip, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	q := selectTrip + ` WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
	args := []any{string(userID)}
	if opts.Limit > 0 {
		q += ` LIMIT $2`
		args = append(args, opts.Limit)
	}

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]triprepo.Trip, 0)
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) UpdateStatus(ctx context.Context, id domain.TripID, status domain.TripStatus, at time.Time) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE trips SET status = $2, updated_at = $3 WHERE id = $1
	`, string(id), string(status), at.UTC())
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return triprepo.ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.TripID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	ct, err := r.pool.Exec(ctx, `DELETE FROM trips WHERE id = $1`, string(id))
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return triprepo.ErrNotFound
	}
	return nil
}

const selectTrip = `
	SELECT id, user_id, start_place, destination, plan, status, created_at, updated_at
	FROM trips
`

func scanTrip(row pgx.Row) (triprepo.Trip, error) {
	var (
		id          string
		userID      string
		startPlace  string
		destination string
		plan        []byte
		status      string
		createdAt   time.Time
		updatedAt   time.Time
	)
	if err := row.Scan(&id, &userID, &startPlace, &destination, &plan, &status, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return triprepo.Trip{}, triprepo.ErrNotFound
		}
		return triprepo.Trip{}, err
	}
	var p planPayload
	if len(plan) > 0 {
		if err := json.Unmarshal(plan, &p); err != nil {
			return triprepo.Trip{}, fmt.Errorf("decode plan payload: %w", err)
		}
	}
	return triprepo.Trip{
		ID:          domain.TripID(id),
		UserID:      domain.UserID(userID),
		StartPlace:  startPlace,
		Destination: destination,
		Budget:      p.Budget,
		Flights:     p.Flights,
		Locations:   p.Locations,
		SeasonInfo:  p.SeasonInfo,
		Itinerary:   p.Itinerary,
		Status:      domain.TripStatus(status),
		CreatedAt:   createdAt.UTC(),
		UpdatedAt:   updatedAt.UTC(),
	}, nil
}

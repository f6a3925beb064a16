package photorepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/wayfarelabs/travel-planner-api/internal/adapters/postgres"
	"github.com/wayfarelabs/travel-planner-api/internal/domain"
	"github.com/wayfarelabs/travel-planner-api/internal/ports/out/photorepo"
)

// Repo is a Postgres implementation of photorepo.Repository. The
// (user_id, trip_id, image_url) unique index arbitrates duplicate assets.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, p photorepo.Photo) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO photos (
			id,
			user_id,
			trip_id,
			image_url,
			provider_id,
			caption,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		string(p.ID),
		string(p.UserID),
		string(p.TripID),
		p.ImageURL,
		p.ProviderID,
		p.Caption,
		p.CreatedAt.UTC(),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode && pe.ConstraintName == "photos_asset_unique" {
			return photorepo.ErrDuplicateAsset
		}
		return err
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.PhotoID) (photorepo.Photo, error) {
	if r.pool == nil {
		return photorepo.Photo{}, errors.New("nil postgres pool")
	}
	return scanPhoto(r.pool.QueryRow(ctx, selectPhoto+` WHERE id = $1`, string(id)))
}

func (r *Repo) ListByTrip(ctx context.Context, tripID domain.TripID) ([]photorepo.Photo, error) {
	return r.list(ctx, selectPhoto+` WHERE trip_id = $1 ORDER BY created_at DESC, id DESC`, string(tripID))
}

func (r *Repo) ListByUser(ctx context.Context, userID domain.UserID) ([]photorepo.Photo, error) {
	return r.list(ctx, selectPhoto+` WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, string(userID))
}

func (r *Repo) Delete(ctx context.Context, id domain.PhotoID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	ct, err := r.pool.Exec(ctx, `DELETE FROM photos WHERE id = $1`, string(id))
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return photorepo.ErrNotFound
	}
	return nil
}

func (r *Repo) DeleteByTrip(ctx context.Context, tripID domain.TripID) (int, error) {
	if r.pool == nil {
		return 0, errors.New("nil postgres pool")
	}
	ct, err := r.pool.Exec(ctx, `DELETE FROM photos WHERE trip_id = $1`, string(tripID))
	if err != nil {
		return 0, err
	}
	return int(ct.RowsAffected()), nil
}

func (r *Repo) list(ctx context.Context, q string, arg any) ([]photorepo.Photo, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]photorepo.Photo, 0)
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

const selectPhoto = `
	SELECT id, user_id, trip_id, image_url, provider_id, caption, created_at
	FROM photos
`

func scanPhoto(row pgx.Row) (photorepo.Photo, error) {
	var (
		id         string
		userID     string
		tripID     string
		imageURL   string
		providerID string
		caption    *string
		createdAt  time.Time
	)
	if err := row.Scan(&id, &userID, &tripID, &imageURL, &providerID, &caption, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return photorepo.Photo{}, photorepo.ErrNotFound
		}
		return photorepo.Photo{}, err
	}
	return photorepo.Photo{
		ID:         domain.PhotoID(id),
		UserID:     domain.UserID(userID),
		TripID:     domain.TripID(tripID),
		ImageURL:   imageURL,
		ProviderID: providerID,
		Caption:    caption,
		CreatedAt:  createdAt.UTC(),
	}, nil
}

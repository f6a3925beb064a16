package userrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/wayfarelabs/travel-planner-api/internal/adapters/postgres"
	"github.com/wayfarelabs/travel-planner-api/internal/domain"
	"github.com/wayfarelabs/travel-planner-api/internal/ports/out/userrepo"
)

// Repo is a Postgres implementation of userrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, u userrepo.User) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (
			id,
			name,
			email,
			password_hash,
			last_login,
			created_at,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		string(u.ID),
		u.Name,
		u.Email,
		u.PasswordHash,
		u.LastLogin,
		u.CreatedAt.UTC(),
		u.UpdatedAt.UTC(),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			if pe.ConstraintName == "users_email_unique" {
				return userrepo.ErrEmailTaken
			}
			return err
		}
		return err
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.UserID) (userrepo.User, error) {
	if r.pool == nil {
		return userrepo.User{}, errors.New("nil postgres pool")
	}
	return scanUser(r.pool.QueryRow(ctx, selectUser+` WHERE id = $1`, string(id)))
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (userrepo.User, error) {
	if r.pool == nil {
		return userrepo.User{}, errors.New("nil postgres pool")
	}
	return scanUser(r.pool.QueryRow(ctx, selectUser+` WHERE email = $1`, email))
}

func (r *Repo) TouchLastLogin(ctx context.Context, id domain.UserID, at time.Time) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	// A missing user is not an error here; login already resolved the row.
	_, err := r.pool.Exec(ctx, `
		UPDATE users SET last_login = $2, updated_at = $2 WHERE id = $1
	`, string(id), at.UTC())
	return err
}

const selectUser = `
	SELECT id, name, email, password_hash, last_login, created_at, updated_at
	FROM users
`

func scanUser(row pgx.Row) (userrepo.User, error) {
	var (
		id           string
		name         string
		email        string
		passwordHash string
		lastLogin    *time.Time
		createdAt    time.Time
		updatedAt    time.Time
	)
	if err := row.Scan(&id, &name, &email, &passwordHash, &lastLogin, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return userrepo.User{}, userrepo.ErrNotFound
		}
		return userrepo.User{}, err
	}
	u := userrepo.User{
		ID:           domain.UserID(id),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    createdAt.UTC(),
		UpdatedAt:    updatedAt.UTC(),
	}
	if lastLogin != nil {
		t := lastLogin.UTC()
		u.LastLogin = &t
	}
	return u, nil
}

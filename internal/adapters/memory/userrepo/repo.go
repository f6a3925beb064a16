package userrepo

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wayfarelabs/travel-planner-api/internal/domain"
	"github.com/wayfarelabs/travel-planner-api/internal/ports/out/userrepo"
)

// Repo is an in-memory implementation of userrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	byID      map[domain.UserID]userrepo.User
	idByEmail map[string]domain.UserID
}

func NewRepo() *Repo {
	return &Repo{
		byID:      make(map[domain.UserID]userrepo.User),
		idByEmail: make(map[string]domain.UserID),
	}
}

func (r *Repo) Create(ctx context.Context, u userrepo.User) error {
	_ = ctx
	if u.ID == "" {
		return errors.New("empty user id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.idByEmail[u.Email]; ok {
		return userrepo.ErrEmailTaken
	}
	r.byID[u.ID] = cloneUser(u)
	r.idByEmail[u.Email] = u.ID
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.UserID) (userrepo.User, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return userrepo.User{}, userrepo.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (userrepo.User, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.idByEmail[email]
	if !ok {
		return userrepo.User{}, userrepo.ErrNotFound
	}
	return cloneUser(r.byID[id]), nil
}

func (r *Repo) TouchLastLogin(ctx context.Context, id domain.UserID, at time.Time) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil
	}
	t := at
	u.LastLogin = &t
	r.byID[id] = u
	return nil
}

func cloneUser(u userrepo.User) userrepo.User {
	cp := u
	if u.LastLogin != nil {
		v := *u.LastLogin
		cp.LastLogin = &v
	}
	return cp
}

package photorepo

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/wayfarelabs/travel-planner-api/internal/domain"
	"github.com/wayfarelabs/travel-planner-api/internal/ports/out/photorepo"
)

type tripleKey struct {
	userID   domain.UserID
	tripID   domain.TripID
	imageURL string
}

// Repo is an in-memory implementation of photorepo.Repository.
// It is safe for concurrent use and enforces the unique
// (userID, tripID, imageURL) constraint the way a real store would.
type Repo struct {
	mu       sync.RWMutex
	byID     map[domain.PhotoID]photorepo.Photo
	byTriple map[tripleKey]domain.PhotoID
}

func NewRepo() *Repo {
	return &Repo{
		byID:     make(map[domain.PhotoID]photorepo.Photo),
		byTriple: make(map[tripleKey]domain.PhotoID),
	}
}

func (r *Repo) Create(ctx context.Context, p photorepo.Photo) error {
	_ = ctx
	if p.ID == "" {
		return errors.New("empty photo id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	key := tripleKey{userID: p.UserID, tripID: p.TripID, imageURL: p.ImageURL}
	if _, ok := r.byTriple[key]; ok {
		return photorepo.ErrDuplicateAsset
	}
	r.byID[p.ID] = clonePhoto(p)
	r.byTriple[key] = p.ID
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.PhotoID) (photorepo.Photo, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	if !ok {
		return photorepo.Photo{}, photorepo.ErrNotFound
	}
	return clonePhoto(p), nil
}

func (r *Repo) ListByTrip(ctx context.Context, tripID domain.TripID) ([]photorepo.Photo, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]photorepo.Photo, 0)
	for _, p := range r.byID {
		if p.TripID == tripID {
			out = append(out, clonePhoto(p))
		}
	}
	sortPhotos(out)
	return out, nil
}

func (r *Repo) ListByUser(ctx context.Context, userID domain.UserID) ([]photorepo.Photo, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]photorepo.Photo, 0)
	for _, p := range r.byID {
		if p.UserID == userID {
			out = append(out, clonePhoto(p))
		}
	}
	sortPhotos(out)
	return out, nil
}

func (r *Repo) Delete(ctx context.Context, id domain.PhotoID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return photorepo.ErrNotFound
	}
	delete(r.byID, id)
	delete(r.byTriple, tripleKey{userID: p.UserID, tripID: p.TripID, imageURL: p.ImageURL})
	return nil
}

func (r *Repo) DeleteByTrip(ctx context.Context, tripID domain.TripID) (int, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, p := range r.byID {
		if p.TripID != tripID {
			continue
		}
		delete(r.byID, id)
		delete(r.byTriple, tripleKey{userID: p.UserID, tripID: p.TripID, imageURL: p.ImageURL})
		n++
	}
	return n, nil
}

func clonePhoto(p photorepo.Photo) photorepo.Photo {
	cp := p
	if p.Caption != nil {
		v := *p.Caption
		cp.Caption = &v
	}
	return cp
}

func sortPhotos(ps []photorepo.Photo) {
	// Newest first; ties broken by ID for determinism.
	sort.Slice(ps, func(i, j int) bool {
		a, b := ps[i], ps[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return string(a.ID) < string(b.ID)
	})
}

package photos

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/wayfarelabs/travel-planner-api/internal/app/ownership"
	"github.com/wayfarelabs/travel-planner-api/internal/domain"
	"github.com/wayfarelabs/travel-planner-api/internal/ports/out/assetstore"
	"github.com/wayfarelabs/travel-planner-api/internal/ports/out/clock"
	"github.com/wayfarelabs/travel-planner-api/internal/ports/out/photorepo"
)

// MaxUploadBytes caps accepted photo payloads at 10 MiB.
const MaxUploadBytes = 10 << 20

// allowedImageTypes is the sniffed-content-type allow-list. The declared
// Content-Type header is never trusted.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Namespace is the per-user-per-trip folder every asset for a trip lives
// under. Trip deletion removes the whole namespace.
func Namespace(userID domain.UserID, tripID domain.TripID) string {
	return fmt.Sprintf("user_%s/trip_%s", userID, tripID)
}

// Service coordinates the asset store and the metadata store for photos.
//
// Upload is a two-phase saga with best-effort compensation, not a two-phase
// commit: a crash between the upload and the metadata insert leaves an
// orphaned remote asset that nothing reclaims. That gap is accepted; there is
// no reconciliation sweep.
type Service struct {
	photos photorepo.Repository
	assets assetstore.Store
	guard  *ownership.Guard
	clock  clock.Clock
	log    *slog.Logger

	newPhotoID func() domain.PhotoID
}

func NewService(photosRepo photorepo.Repository, assets assetstore.Store, guard *ownership.Guard, clk clock.Clock, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		photos: photosRepo,
		assets: assets,
		guard:  guard,
		clock:  clk,
		log:    log,
		newPhotoID: func() domain.PhotoID {
			return domain.PhotoID(uuid.NewString())
		},
	}
}

// SetNewPhotoIDForTest overrides photo ID generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewPhotoIDForTest(fn func() domain.PhotoID) {
	if fn != nil {
		s.newPhotoID = fn
	}
}

// Upload runs the upload saga: ownership, payload validation, remote upload,
// metadata insert. If the insert fails after a successful upload, the asset
// is deleted best-effort and the original failure is what the caller sees.
func (s *Service) Upload(ctx context.Context, caller domain.UserID, tripID domain.TripID, data []byte, caption *string) (domain.Photo, error) {
	if _, err := s.guard.Trip(ctx, tripID, caller); err != nil {
		if errors.Is(err, ownership.ErrNotOwner) {
			return domain.Photo{}, &Error{Status: 404, Code: "TRIP_NOT_FOUND", Message: "trip not found", Phase: PhaseStarted}
		}
		return domain.Photo{}, err
	}

	if len(data) == 0 {
		return domain.Photo{}, &Error{Status: 400, Code: "INVALID_ASSET", Message: "empty payload", Phase: PhaseStarted}
	}
	if len(data) > MaxUploadBytes {
		return domain.Photo{}, &Error{
			Status: 400, Code: "INVALID_ASSET", Message: "payload exceeds 10 MiB", Phase: PhaseStarted,
			Details: map[string]any{"maxBytes": MaxUploadBytes},
		}
	}
	if ct := http.DetectContentType(data); !allowedImageTypes[ct] {
		return domain.Photo{}, &Error{
			Status: 400, Code: "INVALID_ASSET", Message: "unsupported image type", Phase: PhaseStarted,
			Details: map[string]any{"detected": ct},
		}
	}

	// Phase 1: push the binary. No metadata exists yet, so failure here
	// leaves both stores untouched.
	asset, err := s.assets.Upload(ctx, data, Namespace(caller, tripID))
	if err != nil {
		return domain.Photo{}, &Error{Status: 502, Code: "UPLOAD_FAILED", Message: "asset upload failed", Phase: PhaseStarted}
	}

	// Phase 2: persist metadata. Any failure, including the uniqueness
	// constraint on (user, trip, asset URL), triggers compensation.
	p := photorepo.Photo{
		ID:         s.newPhotoID(),
		UserID:     caller,
		TripID:     tripID,
		ImageURL:   asset.URL,
		ProviderID: asset.ProviderID,
		Caption:    caption,
		CreatedAt:  s.clock.Now(),
	}
	if err := s.photos.Create(ctx, p); err != nil {
		s.compensateUpload(ctx, asset)
		if errors.Is(err, photorepo.ErrDuplicateAsset) {
			return domain.Photo{}, &Error{Status: 409, Code: "DUPLICATE_PHOTO", Message: "photo already registered for this trip", Phase: PhaseCompensated}
		}
		return domain.Photo{}, &Error{Status: 500, Code: "PERSISTENCE_FAILED", Message: "failed to save photo metadata", Phase: PhaseCompensated}
	}

	return toDomainPhoto(p), nil
}

// compensateUpload is fire-and-forget: its failure is logged, never surfaced
// and never retried. The caller is already returning the original error.
func (s *Service) compensateUpload(ctx context.Context, asset assetstore.Asset) {
	if err := s.assets.Delete(ctx, deleteRef(asset.ProviderID, asset.URL)); err != nil {
		s.log.Warn("compensating asset delete failed; remote asset orphaned",
			"ref", asset.ProviderID, "url", asset.URL, "err", err)
	}
}

// Delete removes a photo: remote asset first (best-effort), metadata second.
// A dangling asset is invisible and reclaimable; a dangling metadata record
// would show the user a broken link, so the metadata delete decides the
// outcome.
func (s *Service) Delete(ctx context.Context, caller domain.UserID, photoID domain.PhotoID) error {
	p, err := s.guard.Photo(ctx, photoID, caller)
	if err != nil {
		if errors.Is(err, ownership.ErrNotOwner) {
			return &Error{Status: 404, Code: "PHOTO_NOT_FOUND", Message: "photo not found"}
		}
		return err
	}

	if err := s.assets.Delete(ctx, deleteRef(p.ProviderID, p.ImageURL)); err != nil {
		s.log.Warn("asset delete failed; continuing with metadata delete",
			"photoID", p.ID, "url", p.ImageURL, "err", err)
	}

	if err := s.photos.Delete(ctx, photoID); err != nil {
		if errors.Is(err, photorepo.ErrNotFound) {
			return &Error{Status: 404, Code: "PHOTO_NOT_FOUND", Message: "photo not found"}
		}
		return err
	}
	return nil
}

// ListTripPhotos returns a trip's photos; the trip must belong to the caller.
func (s *Service) ListTripPhotos(ctx context.Context, caller domain.UserID, tripID domain.TripID) ([]domain.Photo, error) {
	if _, err := s.guard.Trip(ctx, tripID, caller); err != nil {
		if errors.Is(err, ownership.ErrNotOwner) {
			return nil, &Error{Status: 404, Code: "TRIP_NOT_FOUND", Message: "trip not found"}
		}
		return nil, err
	}
	ps, err := s.photos.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Photo, 0, len(ps))
	for _, p := range ps {
		out = append(out, toDomainPhoto(p))
	}
	return out, nil
}

// ListUserPhotos returns every photo the caller owns, across trips.
func (s *Service) ListUserPhotos(ctx context.Context, caller domain.UserID) ([]domain.Photo, error) {
	ps, err := s.photos.ListByUser(ctx, caller)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Photo, 0, len(ps))
	for _, p := range ps {
		out = append(out, toDomainPhoto(p))
	}
	return out, nil
}

func deleteRef(providerID, url string) string {
	if providerID != "" {
		return providerID
	}
	return url
}

func toDomainPhoto(p photorepo.Photo) domain.Photo {
	out := domain.Photo{
		ID:         p.ID,
		UserID:     p.UserID,
		TripID:     p.TripID,
		ImageURL:   p.ImageURL,
		ProviderID: p.ProviderID,
		CreatedAt:  p.CreatedAt,
	}
	if p.Caption != nil {
		v := *p.Caption
		out.Caption = &v
	}
	return out
}

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/wayfarelabs/travel-planner-api/internal/domain"
	"github.com/wayfarelabs/travel-planner-api/internal/platform/token"
	"github.com/wayfarelabs/travel-planner-api/internal/ports/out/clock"
	"github.com/wayfarelabs/travel-planner-api/internal/ports/out/userrepo"
)

// Service implements registration, login, profile reads and token refresh.
type Service struct {
	users  userrepo.Repository
	tokens *token.Service
	clock  clock.Clock

	newUserID func() domain.UserID
}

func NewService(usersRepo userrepo.Repository, tokens *token.Service, clk clock.Clock) *Service {
	return &Service{
		users:  usersRepo,
		tokens: tokens,
		clock:  clk,
		newUserID: func() domain.UserID {
			return domain.UserID(uuid.NewString())
		},
	}
}

// SetNewUserIDForTest overrides user ID generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewUserIDForTest(fn func() domain.UserID) {
	if fn != nil {
		s.newUserID = fn
	}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (Session, error) {
	name := domain.NormalizeHumanName(in.Name)
	if name == "" {
		return Session{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "invalid name", Details: map[string]any{"name": "must be non-empty"}}
	}
	email := domain.NormalizeEmail(in.Email)
	if !domain.ValidEmail(email) {
		return Session{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "invalid email", Details: map[string]any{"email": "must be a valid address"}}
	}
	if len(in.Password) < 6 {
		return Session{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "invalid password", Details: map[string]any{"password": "must be at least 6 characters"}}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.clock.Now()
	u := userrepo.User{
		ID:           s.newUserID(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, userrepo.ErrEmailTaken) {
			return Session{}, &Error{Status: 409, Code: "EMAIL_TAKEN", Message: "email already registered"}
		}
		return Session{}, err
	}

	return s.newSession(u)
}

func (s *Service) Login(ctx context.Context, in LoginInput) (Session, error) {
	email := domain.NormalizeEmail(in.Email)

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			// Same error as a bad password: no account enumeration.
			return Session{}, &Error{Status: 401, Code: "INVALID_CREDENTIALS", Message: "invalid email or password"}
		}
		return Session{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return Session{}, &Error{Status: 401, Code: "INVALID_CREDENTIALS", Message: "invalid email or password"}
	}

	if err := s.users.TouchLastLogin(ctx, u.ID, s.clock.Now()); err != nil {
		return Session{}, err
	}

	return s.newSession(u)
}

// Profile returns the user's own account view, without credential material.
func (s *Service) Profile(ctx context.Context, userID domain.UserID) (domain.Profile, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return domain.Profile{}, &Error{Status: 404, Code: "USER_NOT_FOUND", Message: "user not found"}
		}
		return domain.Profile{}, err
	}
	return domain.Profile{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
	}, nil
}

// Refresh exchanges a valid refresh token for a fresh access token. The user
// is re-resolved so a deleted account cannot keep minting access tokens.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Refreshed, error) {
	c, err := s.tokens.Verify(refreshToken, token.KindRefresh)
	if err != nil {
		return Refreshed{}, &Error{Status: 401, Code: "INVALID_REFRESH_TOKEN", Message: "invalid or expired refresh token"}
	}

	u, err := s.users.GetByID(ctx, c.UserID())
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return Refreshed{}, &Error{Status: 401, Code: "INVALID_REFRESH_TOKEN", Message: "invalid or expired refresh token"}
		}
		return Refreshed{}, err
	}

	access, err := s.tokens.IssueAccess(u.ID, u.Email)
	if err != nil {
		return Refreshed{}, err
	}
	return Refreshed{AccessToken: access}, nil
}

func (s *Service) newSession(u userrepo.User) (Session, error) {
	access, err := s.tokens.IssueAccess(u.ID, u.Email)
	if err != nil {
		return Session{}, err
	}
	refresh, err := s.tokens.IssueRefresh(u.ID)
	if err != nil {
		return Session{}, err
	}
	return Session{
		UserID:       u.ID,
		Name:         u.Name,
		Email:        u.Email,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

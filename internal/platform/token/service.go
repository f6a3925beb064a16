package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wayfarelabs/travel-planner-api/internal/domain"
	"github.com/wayfarelabs/travel-planner-api/internal/platform/config"
	"github.com/wayfarelabs/travel-planner-api/internal/ports/out/clock"
)

// ErrInvalidToken covers bad signature, malformed payload, expiry, and a
// kind mismatch. Callers render all of these the same way (401).
var ErrInvalidToken = errors.New("invalid token")

// Kind distinguishes access from refresh tokens. It is a plain claim, not a
// cryptographically separate key, so every verification site must name the
// kind it is willing to trust; Verify enforces that.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Claims is the signed token payload.
// Access tokens additionally carry the email for display; refresh tokens
// carry only the subject and kind.
type Claims struct {
	Email string `json:"email,omitempty"`
	Kind  Kind   `json:"kind"`
	jwt.RegisteredClaims
}

// Service issues and verifies signed, time-bounded identity tokens.
//
// Tokens are bearer credentials and are never stored server-side: validity is
// a valid signature plus now < expiresAt plus the right kind. There is no
// revocation before expiry; that is the documented contract, not an oversight.
type Service struct {
	cfg   config.AuthConfig
	clock clock.Clock
}

func NewService(cfg config.AuthConfig, clk clock.Clock) *Service {
	return &Service{cfg: cfg, clock: clk}
}

// IssueAccess signs a new access token for the given user.
func (s *Service) IssueAccess(userID domain.UserID, email string) (string, error) {
	return s.issue(Claims{
		Email: email,
		Kind:  KindAccess,
	}, userID, s.cfg.AccessTTL)
}

// IssueRefresh signs a new refresh token for the given user.
func (s *Service) IssueRefresh(userID domain.UserID) (string, error) {
	return s.issue(Claims{
		Kind: KindRefresh,
	}, userID, s.cfg.RefreshTTL)
}

func (s *Service) issue(c Claims, userID domain.UserID, ttl time.Duration) (string, error) {
	now := s.clock.Now()
	c.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   string(userID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := t.SignedString(s.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, expiry and kind, and returns the claims.
// Verification is purely computational; no store is consulted.
func (s *Service) Verify(tokenString string, want Kind) (Claims, error) {
	var claims Claims
	t, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.cfg.Secret, nil
	}, jwt.WithTimeFunc(s.clock.Now))
	if err != nil || !t.Valid {
		return Claims{}, ErrInvalidToken
	}
	if claims.Subject == "" || claims.Kind != want {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}

// UserID returns the user the claims were issued to.
func (c Claims) UserID() domain.UserID { return domain.UserID(c.Subject) }

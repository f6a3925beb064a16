package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	memuserrepo "github.com/wayfarelabs/travel-planner-api/internal/adapters/memory/userrepo"
	"github.com/wayfarelabs/travel-planner-api/internal/app/auth"
	"github.com/wayfarelabs/travel-planner-api/internal/domain"
	"github.com/wayfarelabs/travel-planner-api/internal/platform/config"
	"github.com/wayfarelabs/travel-planner-api/internal/platform/token"
)

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

func newAuthService(t *testing.T) (*auth.Service, *memuserrepo.Repo, *token.Service, *fixedClock) {
	t.Helper()
	clk := &fixedClock{t: time.Unix(1700000000, 0).UTC()}
	tokens := token.NewService(config.AuthConfig{
		Secret:     []byte("test-secret"),
		AccessTTL:  time.Hour,
		RefreshTTL: 7 * 24 * time.Hour,
	}, clk)
	usersRepo := memuserrepo.NewRepo()
	svc := auth.NewService(usersRepo, tokens, clk)
	return svc, usersRepo, tokens, clk
}

func TestService_RegisterThenLogin(t *testing.T) {
	t.Parallel()

	svc, _, tokens, _ := newAuthService(t)
	svc.SetNewUserIDForTest(func() domain.UserID { return "u1" })

	sess, err := svc.Register(context.Background(), auth.RegisterInput{
		Name:     "  Alice   Smith ",
		Email:    "Alice@Example.com",
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if sess.UserID != "u1" || sess.Name != "Alice Smith" || sess.Email != "alice@example.com" {
		t.Fatalf("session=%+v", sess)
	}
	if sess.AccessToken == "" || sess.RefreshToken == "" {
		t.Fatalf("missing tokens: %+v", sess)
	}
	// The issued access token must verify as an access token.
	if _, err := tokens.Verify(sess.AccessToken, token.KindAccess); err != nil {
		t.Fatalf("verify access: %v", err)
	}

	got, err := svc.Login(context.Background(), auth.LoginInput{Email: "alice@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got.UserID != "u1" {
		t.Fatalf("login user=%s", got.UserID)
	}

	p, err := svc.Profile(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if p.LastLogin == nil {
		t.Fatalf("last login not recorded")
	}
}

func TestService_Register_RejectsBadInputAndDuplicates(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newAuthService(t)

	cases := []struct {
		name string
		in   auth.RegisterInput
		code string
	}{
		{"empty name", auth.RegisterInput{Name: "  ", Email: "a@example.com", Password: "secret1"}, "VALIDATION_ERROR"},
		{"bad email", auth.RegisterInput{Name: "A", Email: "not-an-email", Password: "secret1"}, "VALIDATION_ERROR"},
		{"short password", auth.RegisterInput{Name: "A", Email: "a@example.com", Password: "abc"}, "VALIDATION_ERROR"},
	}
	for _, tc := range cases {
		_, err := svc.Register(context.Background(), tc.in)
		var ae *auth.Error
		if !errors.As(err, &ae) || ae.Code != tc.code {
			t.Errorf("%s: got %v, want code %s", tc.name, err, tc.code)
		}
	}

	if _, err := svc.Register(context.Background(), auth.RegisterInput{Name: "A", Email: "a@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, err := svc.Register(context.Background(), auth.RegisterInput{Name: "B", Email: "A@EXAMPLE.COM", Password: "secret2"})
	var ae *auth.Error
	if !errors.As(err, &ae) || ae.Status != 409 || ae.Code != "EMAIL_TAKEN" {
		t.Fatalf("duplicate email: got %v", err)
	}
}

func TestService_Login_SameErrorForMissingUserAndBadPassword(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newAuthService(t)
	if _, err := svc.Register(context.Background(), auth.RegisterInput{Name: "A", Email: "a@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, missingErr := svc.Login(context.Background(), auth.LoginInput{Email: "nobody@example.com", Password: "secret1"})
	_, wrongErr := svc.Login(context.Background(), auth.LoginInput{Email: "a@example.com", Password: "wrong"})

	for name, err := range map[string]error{"missing user": missingErr, "wrong password": wrongErr} {
		var ae *auth.Error
		if !errors.As(err, &ae) || ae.Status != 401 || ae.Code != "INVALID_CREDENTIALS" {
			t.Errorf("%s: got %v", name, err)
		}
	}
}

func TestService_Refresh(t *testing.T) {
	t.Parallel()

	svc, _, tokens, clk := newAuthService(t)
	sess, err := svc.Register(context.Background(), auth.RegisterInput{Name: "A", Email: "a@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	got, err := svc.Refresh(context.Background(), sess.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	c, err := tokens.Verify(got.AccessToken, token.KindAccess)
	if err != nil {
		t.Fatalf("verify refreshed access: %v", err)
	}
	if c.UserID() != sess.UserID || c.Email != "a@example.com" {
		t.Fatalf("claims=%+v", c)
	}

	// An access token must not be accepted where a refresh token is required.
	_, err = svc.Refresh(context.Background(), sess.AccessToken)
	var ae *auth.Error
	if !errors.As(err, &ae) || ae.Status != 401 || ae.Code != "INVALID_REFRESH_TOKEN" {
		t.Fatalf("refresh with access token: got %v", err)
	}

	// The refresh token is not rotated: it keeps working until expiry.
	if _, err := svc.Refresh(context.Background(), sess.RefreshToken); err != nil {
		t.Fatalf("second Refresh: %v", err)
	}

	// And stops working after expiry.
	clk.t = clk.t.Add(7*24*time.Hour + time.Minute)
	if _, err := svc.Refresh(context.Background(), sess.RefreshToken); err == nil {
		t.Fatalf("expired refresh token accepted")
	}
}

package auth

import "github.com/wayfarelabs/travel-planner-api/internal/domain"

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

// Session is returned on register and login.
type Session struct {
	UserID domain.UserID
	Name   string
	Email  string

	AccessToken  string
	RefreshToken string
}

// Refreshed is returned on token refresh. The refresh token itself is not
// rotated; it stays usable until it expires.
type Refreshed struct {
	AccessToken string
}

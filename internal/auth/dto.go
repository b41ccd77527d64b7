package auth

import (
	"github.com/orcalabs/orcamentos-backend/internal/users"
)

// LoginRequest carries the credential payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the token pair plus the authenticated profile.
type LoginResponse struct {
	AccessToken        string         `json:"accessToken"`
	RefreshToken       string         `json:"refreshToken"`
	MustChangePassword bool           `json:"mustChangePassword"`
	User               *users.UserDTO `json:"user"`
}

// RefreshRequest rotates a session using the expiring access token and its
// paired refresh token.
type RefreshRequest struct {
	AccessToken  string `json:"accessToken" validate:"required"`
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// RefreshResponse returns the replacement token pair.
type RefreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

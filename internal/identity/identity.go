// Package identity is the external identity provider the API trusts for
// bearer tokens. LocalProvider keeps accounts in the application database and
// signs HS256 ID tokens, standing in for a hosted provider.
package identity

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Provider is the surface the application needs from an identity service.
type Provider interface {
	CreateAccount(ctx context.Context, email, password, displayName string) (*Account, error)
	DeleteAccount(ctx context.Context, identityID string) error
	SignIn(ctx context.Context, email, password string) (*Token, error)
	VerifyIDToken(ctx context.Context, idToken string) (*Claims, error)
	SetCustomClaims(ctx context.Context, identityID string, claims map[string]any) error
}

type Account struct {
	ID          string    `json:"uid"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	Disabled    bool      `json:"disabled"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Token struct {
	IDToken   string    `json:"idToken"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Claims are carried by every ID token. Custom holds the claims set through
// SetCustomClaims at the time the token was issued.
type Claims struct {
	Email  string         `json:"email"`
	Custom map[string]any `json:"claims,omitempty"`
	jwt.RegisteredClaims
}

// UID is the identity id the token was issued for.
func (c *Claims) UID() string {
	return c.Subject
}

var (
	ErrEmailExists        = errors.New("identity: email already exists")
	ErrInvalidEmail       = errors.New("identity: invalid email")
	ErrWeakPassword       = errors.New("identity: password should be at least 6 characters")
	ErrInvalidCredentials = errors.New("identity: invalid credentials")
	ErrAccountNotFound    = errors.New("identity: account not found")
	ErrAccountDisabled    = errors.New("identity: account disabled")
	ErrTokenExpired       = errors.New("identity: token expired")
	ErrInvalidToken       = errors.New("identity: invalid token")
	ErrMalformedToken     = errors.New("identity: malformed token")
)

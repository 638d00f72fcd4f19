package domain

import (
	"context"

	"dcbadmin/internal/adapters/oidc"
)

// Repo persists sessions
type Repo interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (Session, error)
	UpdateTokens(ctx context.Context, id string, t Tokens) error
	Delete(ctx context.Context, id string) error
}

// IdentityProvider is the slice of the OIDC provider the service drives
type IdentityProvider interface {
	AuthCodeURL(state, nonce string) string
	Exchange(ctx context.Context, code string) (oidc.Tokens, error)
	Refresh(ctx context.Context, refreshToken string) (oidc.Tokens, error)
	LogoutURL(idToken, redirect string) string
	Claims(token string) (oidc.Claims, error)
}

// ServicePort defines the service contract for sessions
type ServicePort interface {
	Login(ctx context.Context, returnTo string) (LoginResponse, error)
	Callback(ctx context.Context, state, code string) (Session, string, error)
	Refresh(ctx context.Context, id string) (Session, error)
	Logout(ctx context.Context, id string) (LogoutResponse, error)
	Me(ctx context.Context, id string) (Me, error)
}

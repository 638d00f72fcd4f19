package oidc

import (
	"slices"
	"time"

	perr "dcbadmin/internal/platform/errors"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is what the dashboard reads from an access or id token
type Claims struct {
	Subject           string    `json:"sub"`
	PreferredUsername string    `json:"preferredUsername"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Roles             []string  `json:"roles"`
	Nonce             string    `json:"-"`
	ExpiresAt         time.Time `json:"expiresAt"`
}

// HasRole reports whether the realm granted role
func (c Claims) HasRole(role string) bool { return slices.Contains(c.Roles, role) }

type keycloakClaims struct {
	jwt.RegisteredClaims
	PreferredUsername string `json:"preferred_username"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	Nonce             string `json:"nonce"`
	RealmAccess       struct {
		Roles []string `json:"roles"`
	} `json:"realm_access"`
}

// ParseClaims reads claims without verifying the signature
// tokens only ever arrive here straight from the token endpoint over TLS
func ParseClaims(token string) (Claims, error) {
	var kc keycloakClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &kc); err != nil {
		return Claims{}, perr.Wrapf(err, perr.ErrorCodeUnauthorized, "token is not a readable jwt")
	}
	c := Claims{
		Subject:           kc.Subject,
		PreferredUsername: kc.PreferredUsername,
		Name:              kc.Name,
		Email:             kc.Email,
		Roles:             kc.RealmAccess.Roles,
		Nonce:             kc.Nonce,
	}
	if kc.ExpiresAt != nil {
		c.ExpiresAt = kc.ExpiresAt.Time
	}
	if c.Roles == nil {
		c.Roles = []string{}
	}
	return c, nil
}

// Claims reads the claims of token; see ParseClaims
func (p *Provider) Claims(token string) (Claims, error) { return ParseClaims(token) }

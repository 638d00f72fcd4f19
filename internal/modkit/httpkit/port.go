// Package httpkit provides tiny HTTP helpers and adapters
package httpkit

import (
	"context"
	"net/http"
	"strings"

	perrs "dcbadmin/internal/platform/errors"
)

// SessionCookie is the cookie the browser carries the admin session id in
const SessionCookie = "dcb_admin_session"

// TokenFunc resolves a session token into the user subject and session id
type TokenFunc func(ctx context.Context, token string) (userID string, sessionID string, err error)

// Port implements middleware.AuthPort by reading the session cookie or an Authorization bearer
// and delegating to a TokenFunc
type Port struct {
	parse  TokenFunc
	cookie string
}

// NewPortFunc builds a Port from a simple parser function
func NewPortFunc(fn TokenFunc) *Port {
	return &Port{parse: fn, cookie: SessionCookie}
}

// WithCookie overrides the cookie name; empty disables cookie lookup
func (p *Port) WithCookie(name string) *Port {
	p.cookie = name
	return p
}

// Parse extracts user and session ids from the session cookie or the Authorization Bearer token
// The cookie wins when both are present. Returns unauthorized when neither is usable or the parser fails
func (p *Port) Parse(r *http.Request) (string, string, error) {
	raw, err := p.Token(r)
	if err != nil {
		return "", "", err
	}
	if p.parse == nil {
		return "", "", perrs.Unauthorizedf("invalid session token")
	}
	uid, sid, err := p.parse(r.Context(), raw)
	if err != nil {
		return "", "", perrs.Unauthorizedf("invalid session token")
	}
	return uid, sid, nil
}

// Token returns the raw session token from the cookie or from an "Authorization: Bearer" header
func (p *Port) Token(r *http.Request) (string, error) {
	if p.cookie != "" {
		if c, err := r.Cookie(p.cookie); err == nil {
			if v := strings.TrimSpace(c.Value); v != "" {
				return v, nil
			}
		}
	}
	scheme, tok, _ := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if tok = strings.TrimSpace(tok); !strings.EqualFold(scheme, "bearer") || tok == "" {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	return tok, nil
}

// Package oidc implements the parts of OpenID Connect the dashboard needs against a Keycloak
// realm: the authorization code flow, refresh grants, RP-initiated logout and reading claims
package oidc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	perr "dcbadmin/internal/platform/errors"
	"dcbadmin/internal/platform/logger"

	"golang.org/x/oauth2"
)

// Options configures the Provider
type Options struct {
	Issuer        string
	ClientID      string
	ClientSecret  string
	RedirectURL   string
	PostLogoutURL string
	Scopes        []string
	Timeout       time.Duration
}

// Endpoints are the provider URLs in use
type Endpoints struct {
	Auth   string `json:"authorization_endpoint"`
	Token  string `json:"token_endpoint"`
	Logout string `json:"end_session_endpoint"`
}

// Tokens is the result of a successful grant
type Tokens struct {
	AccessToken  string
	RefreshToken string
	IDToken      string
	TokenType    string
	Expiry       time.Time
}

// Provider talks to one realm
type Provider struct {
	http *http.Client
	opts Options
	ep   Endpoints
	log  logger.Logger
	now  func() time.Time
}

// New builds a Provider using Keycloak's endpoint layout under the issuer
func New(o Options) *Provider {
	o.Issuer = strings.TrimRight(o.Issuer, "/")
	if len(o.Scopes) == 0 {
		o.Scopes = []string{"openid", "profile", "email"}
	}
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	base := o.Issuer + "/protocol/openid-connect"
	return &Provider{
		http: &http.Client{Timeout: o.Timeout},
		opts: o,
		ep:   Endpoints{Auth: base + "/auth", Token: base + "/token", Logout: base + "/logout"},
		log:  *logger.Named("oidc"),
		now:  time.Now,
	}
}

// Endpoints returns the endpoints in use
func (p *Provider) Endpoints() Endpoints { return p.ep }

// Discover replaces the default endpoints with those the issuer publishes
func (p *Provider) Discover(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.opts.Issuer+"/.well-known/openid-configuration", nil)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "oidc discovery request")
	}
	resp, err := p.http.Do(req)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "identity provider unreachable")
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return perr.Upstreamf("oidc discovery status %d", resp.StatusCode)
	}
	var ep Endpoints
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&ep); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUpstream, "oidc discovery document unreadable")
	}
	if ep.Auth == "" || ep.Token == "" {
		return perr.Upstreamf("oidc discovery document lacks endpoints")
	}
	if ep.Logout == "" {
		ep.Logout = p.ep.Logout
	}
	p.ep = ep
	p.log.Info().Str("auth", ep.Auth).Str("token", ep.Token).Msg("oidc endpoints discovered")
	return nil
}

// AuthCodeURL is where the browser goes to sign in
func (p *Provider) AuthCodeURL(state, nonce string) string {
	var opts []oauth2.AuthCodeOption
	if nonce != "" {
		opts = append(opts, oauth2.SetAuthURLParam("nonce", nonce))
	}
	return p.config().AuthCodeURL(state, opts...)
}

// Exchange trades an authorization code for tokens
func (p *Provider) Exchange(ctx context.Context, code string) (Tokens, error) {
	if code == "" {
		return Tokens{}, perr.InvalidArgf("authorization code is required")
	}
	start := p.now()
	tok, err := p.config().Exchange(p.client(ctx), code)
	return p.tokens("authorization_code", start, tok, err)
}

// Refresh runs the refresh token grant
func (p *Provider) Refresh(ctx context.Context, refreshToken string) (Tokens, error) {
	if refreshToken == "" {
		return Tokens{}, perr.Unauthorizedf("no refresh token")
	}
	start := p.now()
	tok, err := p.config().TokenSource(p.client(ctx), &oauth2.Token{RefreshToken: refreshToken}).Token()
	return p.tokens("refresh_token", start, tok, err)
}

// LogoutURL is where the browser goes to end the provider session
func (p *Provider) LogoutURL(idToken, redirect string) string {
	if redirect == "" {
		redirect = p.opts.PostLogoutURL
	}
	v := url.Values{}
	v.Set("client_id", p.opts.ClientID)
	if idToken != "" {
		v.Set("id_token_hint", idToken)
	}
	if redirect != "" {
		v.Set("post_logout_redirect_uri", redirect)
	}
	return p.ep.Logout + "?" + v.Encode()
}

// config is rebuilt per call so discovered endpoints apply; client credentials go in the form body
func (p *Provider) config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     p.opts.ClientID,
		ClientSecret: p.opts.ClientSecret,
		RedirectURL:  p.opts.RedirectURL,
		Scopes:       p.opts.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   p.ep.Auth,
			TokenURL:  p.ep.Token,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// client makes the oauth2 package use the provider's timeout-bound http client
func (p *Provider) client(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, p.http)
}

func (p *Provider) tokens(grant string, start time.Time, tok *oauth2.Token, err error) (Tokens, error) {
	ev := p.log.Debug().Str("grant", grant).Dur("latency", p.now().Sub(start))
	if err != nil {
		err = grantError(err)
		ev.Stringer("code", perr.CodeOf(err)).Msg("oidc token grant failed")
		return Tokens{}, err
	}
	ev.Msg("oidc token grant")

	t := Tokens{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
	}
	t.IDToken, _ = tok.Extra("id_token").(string)
	if secs := seconds(tok.Extra("expires_in")); secs > 0 {
		t.Expiry = p.now().Add(time.Duration(secs) * time.Second)
	} else {
		t.Expiry = tok.Expiry
	}
	return t, nil
}

// grantError maps a failed grant: a refused grant is Unauthorized, a provider outage is Unavailable
func grantError(err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		status := 0
		if re.Response != nil {
			status = re.Response.StatusCode
		}
		switch {
		case status == http.StatusBadRequest || status == http.StatusUnauthorized:
			return perr.Wrapf(err, perr.ErrorCodeUnauthorized, "identity provider refused the grant: %s", re.ErrorCode)
		case status >= http.StatusInternalServerError:
			return perr.Wrapf(err, perr.ErrorCodeUnavailable, "identity provider error %d, try again later", status)
		default:
			return perr.Wrapf(err, perr.ErrorCodeUpstream, "identity provider unexpected status %d", status)
		}
	}
	var ue *url.Error
	if errors.As(err, &ue) {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "identity provider unreachable, try again later")
	}
	return perr.Wrapf(err, perr.ErrorCodeUpstream, "oidc token response unreadable")
}

// seconds reads a numeric token response field; JSON numbers arrive as float64, form bodies as strings
func seconds(v any) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case string:
		i, _ := strconv.ParseInt(n, 10, 64)
		return i
	}
	return 0
}

// Package service runs the sign-in flow and owns server-side sessions
package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"dcbadmin/internal/modkit/repokit"
	perr "dcbadmin/internal/platform/errors"
	"dcbadmin/internal/platform/logger"
	"dcbadmin/internal/platform/store"
	"dcbadmin/internal/services/api/session/domain"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// DefaultLoginTTL bounds how long a login redirect may take to come back
const DefaultLoginTTL = 10 * time.Minute

// Service defines the service contract for sessions
type Service interface{ domain.ServicePort }

// Options tune the service
type Options struct {
	PostLogoutURL string
	LoginTTL      time.Duration
}

// Svc implements the Service interface
type Svc struct {
	Repo   domain.Repo
	binder repokit.Binder[domain.Repo]
	db     repokit.TxRunner
	idp    domain.IdentityProvider
	cache  store.Cache
	opts   Options
	log    logger.Logger

	// concurrent refreshes of one session collapse into one grant
	refreshes singleflight.Group

	now   func() time.Time
	newID func() string
}

// New creates a new session service
func New(db repokit.TxRunner, binder repokit.Binder[domain.Repo], idp domain.IdentityProvider, cache store.Cache, opts Options) *Svc {
	if db == nil {
		panic("session.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("session.Service requires a non nil Repo binder")
	}
	if idp == nil {
		panic("session.Service requires a non nil IdentityProvider")
	}
	if cache == nil {
		panic("session.Service requires a non nil Cache")
	}
	if opts.LoginTTL <= 0 {
		opts.LoginTTL = DefaultLoginTTL
	}
	return &Svc{
		Repo:   repokit.MustBind(binder, db),
		binder: binder,
		db:     db,
		idp:    idp,
		cache:  cache,
		opts:   opts,
		log:    *logger.Named("session"),
		now:    time.Now,
		newID:  func() string { return uuid.Must(uuid.NewV7()).String() },
	}
}

func loginKey(state string) string { return "login:" + state }

// safeReturnTo keeps only same-origin absolute paths
func safeReturnTo(p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.Contains(p, `\`) {
		return ""
	}
	return p
}

// Login starts the authorization code flow
func (s *Svc) Login(ctx context.Context, returnTo string) (domain.LoginResponse, error) {
	state, nonce := s.newID(), s.newID()
	raw, err := json.Marshal(domain.LoginState{Nonce: nonce, ReturnTo: safeReturnTo(returnTo)})
	if err != nil {
		return domain.LoginResponse{}, perr.Wrapf(err, perr.ErrorCodeUnknown, "encode login state")
	}
	if err := s.cache.Set(ctx, loginKey(state), raw, s.opts.LoginTTL); err != nil {
		return domain.LoginResponse{}, perr.Wrapf(err, perr.ErrorCodeUnavailable, "store login state")
	}
	return domain.LoginResponse{URL: s.idp.AuthCodeURL(state, nonce), State: state}, nil
}

// Callback finishes the flow: the state is single use, the code is exchanged and a session row created
// It returns the new session and the path the user started from
func (s *Svc) Callback(ctx context.Context, state, code string) (domain.Session, string, error) {
	if state == "" {
		return domain.Session{}, "", perr.WithField(perr.InvalidArgf("state is required"), "state")
	}
	raw, ok, err := s.cache.Take(ctx, loginKey(state))
	if err != nil {
		return domain.Session{}, "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "read login state")
	}
	if !ok {
		return domain.Session{}, "", perr.Unauthorizedf("login state expired or already used")
	}
	var ls domain.LoginState
	if err := json.Unmarshal(raw, &ls); err != nil {
		return domain.Session{}, "", perr.Wrapf(err, perr.ErrorCodeUnauthorized, "login state unreadable")
	}

	t, err := s.idp.Exchange(ctx, code)
	if err != nil {
		return domain.Session{}, "", err
	}
	if t.IDToken != "" {
		idc, err := s.idp.Claims(t.IDToken)
		if err != nil {
			return domain.Session{}, "", err
		}
		if idc.Nonce != ls.Nonce {
			return domain.Session{}, "", perr.Unauthorizedf("id token nonce mismatch")
		}
	}
	ac, err := s.idp.Claims(t.AccessToken)
	if err != nil {
		return domain.Session{}, "", err
	}

	expiry := t.Expiry
	if expiry.IsZero() {
		expiry = ac.ExpiresAt
	}
	sess := domain.Session{
		ID:           s.newID(),
		Subject:      ac.Subject,
		Username:     ac.PreferredUsername,
		Name:         ac.Name,
		Email:        ac.Email,
		Roles:        ac.Roles,
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		IDToken:      t.IDToken,
		AccessExpiry: expiry,
		CreatedAt:    s.now().UTC(),
	}
	sess.UpdatedAt = sess.CreatedAt
	if err := s.Repo.Create(ctx, sess); err != nil {
		return domain.Session{}, "", err
	}
	s.log.Info().Str("session_id", sess.ID).Str("subject", sess.Subject).Msg("session created")
	return sess, ls.ReturnTo, nil
}

// get loads a session; ids that are not uuids never reach the database
func (s *Svc) get(ctx context.Context, id string) (domain.Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Session{}, perr.Unauthorizedf("session not found or expired")
	}
	return s.Repo.Get(ctx, id)
}

// Refresh runs the refresh grant for a session and stores the rotated tokens
// A refused grant ends the session
func (s *Svc) Refresh(ctx context.Context, id string) (domain.Session, error) {
	v, err, _ := s.refreshes.Do(id, func() (any, error) {
		sess, err := s.get(ctx, id)
		if err != nil {
			return domain.Session{}, err
		}
		t, err := s.idp.Refresh(ctx, sess.RefreshToken)
		if err != nil {
			if perr.IsCode(err, perr.ErrorCodeUnauthorized) {
				s.log.Info().Str("session_id", id).Msg("refresh refused, ending session")
				if derr := s.Repo.Delete(ctx, id); derr != nil {
					s.log.Warn().Err(derr).Str("session_id", id).Msg("delete session after refused refresh")
				}
			}
			return domain.Session{}, err
		}
		nt := domain.Tokens{
			AccessToken:  t.AccessToken,
			RefreshToken: t.RefreshToken,
			IDToken:      t.IDToken,
			AccessExpiry: t.Expiry,
		}
		if err := s.Repo.UpdateTokens(ctx, id, nt); err != nil {
			return domain.Session{}, err
		}
		sess.AccessToken = nt.AccessToken
		if nt.RefreshToken != "" {
			sess.RefreshToken = nt.RefreshToken
		}
		if nt.IDToken != "" {
			sess.IDToken = nt.IDToken
		}
		sess.AccessExpiry = nt.AccessExpiry
		sess.UpdatedAt = s.now().UTC()
		s.log.Debug().Str("session_id", id).Time("expiry", sess.AccessExpiry).Msg("session refreshed")
		return sess, nil
	})
	if err != nil {
		return domain.Session{}, err
	}
	return v.(domain.Session), nil
}

// Logout deletes the session and returns the provider logout URL
// an unknown session still gets a logout URL so the browser can clear the provider side
func (s *Svc) Logout(ctx context.Context, id string) (domain.LogoutResponse, error) {
	sess, err := s.get(ctx, id)
	if err != nil && !perr.IsCode(err, perr.ErrorCodeUnauthorized) {
		return domain.LogoutResponse{}, err
	}
	if err == nil {
		if err := s.Repo.Delete(ctx, id); err != nil {
			return domain.LogoutResponse{}, err
		}
		s.log.Info().Str("session_id", id).Msg("session ended")
	}
	return domain.LogoutResponse{URL: s.idp.LogoutURL(sess.IDToken, s.opts.PostLogoutURL)}, nil
}

// Me describes the signed-in user
func (s *Svc) Me(ctx context.Context, id string) (domain.Me, error) {
	sess, err := s.get(ctx, id)
	if err != nil {
		return domain.Me{}, err
	}
	return ToMe(sess), nil
}

// ToMe projects a session onto its public view
func ToMe(sess domain.Session) domain.Me {
	roles := sess.Roles
	if roles == nil {
		roles = []string{}
	}
	return domain.Me{
		SessionID: sess.ID,
		Subject:   sess.Subject,
		Username:  sess.Username,
		Name:      sess.Name,
		Email:     sess.Email,
		Roles:     roles,
		ExpiresAt: sess.AccessExpiry.UTC().Format(time.RFC3339),
	}
}

// Resolve maps a session token to the user subject and session id
func (s *Svc) Resolve(ctx context.Context, token string) (string, string, error) {
	sess, err := s.get(ctx, token)
	if err != nil {
		return "", "", err
	}
	return sess.Subject, sess.ID, nil
}

// Roles returns the realm roles granted to a session
func (s *Svc) Roles(ctx context.Context, id string) ([]string, error) {
	sess, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return sess.Roles, nil
}

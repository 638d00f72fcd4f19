package service

import (
	"context"

	"dcbadmin/internal/adapters/dcb"
)

// sessionTokens hands a session's access token to the DCB client and refreshes it on demand
type sessionTokens struct {
	svc *Svc
	id  string
}

var _ dcb.TokenSource = sessionTokens{}

// Tokens returns the token source for session id
func (s *Svc) Tokens(id string) dcb.TokenSource { return sessionTokens{svc: s, id: id} }

func (t sessionTokens) Token(ctx context.Context) (string, error) {
	sess, err := t.svc.get(ctx, t.id)
	if err != nil {
		return "", err
	}
	return sess.AccessToken, nil
}

func (t sessionTokens) Refresh(ctx context.Context) (string, error) {
	sess, err := t.svc.Refresh(ctx, t.id)
	if err != nil {
		return "", err
	}
	return sess.AccessToken, nil
}

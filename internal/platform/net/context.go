// Package net carries request scoped ids on contexts and builds the response envelope
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type ctxKey string

const (
	keySessionID ctxKey = "session_id"
	keyUserID    ctxKey = "user_id"
)

// WithRequest stores the request id where chi's RequestID middleware keeps it, plus the admin session id
// empty values are left unset
func WithRequest(ctx context.Context, reqID, sessionID string) context.Context {
	if reqID != "" {
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	if sessionID != "" {
		ctx = context.WithValue(ctx, keySessionID, sessionID)
	}
	return ctx
}

// WithUser stores the token subject of the caller
func WithUser(ctx context.Context, userID string) context.Context {
	if userID == "" {
		return ctx
	}
	return context.WithValue(ctx, keyUserID, userID)
}

// RequestID returns the request id or ""
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }

// SessionID returns the admin session id or ""
func SessionID(ctx context.Context) string { return str(ctx, keySessionID) }

// UserID returns the token subject or ""
func UserID(ctx context.Context) string { return str(ctx, keyUserID) }

func str(ctx context.Context, k ctxKey) string {
	s, _ := ctx.Value(k).(string)
	return s
}

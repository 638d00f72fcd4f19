package middleware

import (
	"net/http"

	pnet "dcbadmin/internal/platform/net"
)

// AuthPort resolves the caller of a request; the session service implements it
type AuthPort interface {
	// Parse returns a user id and session id from the request or an error
	Parse(r *http.Request) (userID string, sessionID string, err error)
}

// Writer writes a status and JSON body
type Writer func(w http.ResponseWriter, status int, body any)

// Auth rejects requests the port cannot resolve and otherwise puts the caller on the context
// A nil port passes everything through
func Auth(p AuthPort, write Writer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
			uid, sid, err := p.Parse(r)
			if err != nil {
				status, body := pnet.Reply(0, err, pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			ctx := pnet.WithUser(r.Context(), uid)
			ctx = pnet.WithRequest(ctx, "", sid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

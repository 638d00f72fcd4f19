package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	phttp "dcbadmin/internal/platform/net/http"
	"dcbadmin/internal/platform/net/middleware"
)

// Stack tunes CommonStack
type Stack struct {
	// Origins the dashboard is served from; credentials are allowed only when set
	Origins []string
	// Timeout bounds every request; 0 means 30s
	Timeout time.Duration
	// Slow requests log at warn; 0 means 2s
	Slow time.Duration
}

// CommonStack is the middleware every API route runs behind
// compose with Auth and RequireRole per module
func CommonStack(s Stack) []func(http.Handler) http.Handler {
	if s.Timeout <= 0 {
		s.Timeout = 30 * time.Second
	}
	if s.Slow <= 0 {
		s.Slow = 2 * time.Second
	}
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.AccessLog(s.Slow),
		middleware.Recover(phttp.JSON),
		middleware.CORS(middleware.CORSOptions{
			AllowedOrigins:   s.Origins,
			AllowCredentials: len(s.Origins) > 0,
			MaxAge:           300,
		}),
		middleware.NoCache(),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
		middleware.Timeout(s.Timeout),
	}
}

// Auth wires the auth middleware to the platform JSON writer
func Auth(p middleware.AuthPort) func(http.Handler) http.Handler {
	return middleware.Auth(p, phttp.JSON)
}

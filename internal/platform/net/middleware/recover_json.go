package middleware

import (
	"net/http"
	"runtime/debug"

	perr "dcbadmin/internal/platform/errors"
	"dcbadmin/internal/platform/logger"
	pnet "dcbadmin/internal/platform/net"
)

// Recover turns a panic into a 500 envelope and logs the stack with the request ids
// http.ErrAbortHandler is re-raised so net/http can abort the connection
func Recover(write Writer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}
				logger.C(r.Context()).Error().
					Interface("panic", v).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")

				status, body := pnet.Reply(0, perr.PanicErrf("internal error"), pnet.RequestID(r.Context()))
				write(w, status, body)
			}()
			next.ServeHTTP(w, r)
		})
	}
}

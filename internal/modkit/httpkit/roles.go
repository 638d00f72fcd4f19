package httpkit

import (
	"net/http"
	"slices"

	perrs "dcbadmin/internal/platform/errors"
	phttp "dcbadmin/internal/platform/net/http"
	pnet "dcbadmin/internal/platform/net"
)

// RolePort reports the roles granted to the session on the request
type RolePort interface {
	Roles(r *http.Request, sessionID string) ([]string, error)
}

// RequireRole lets a request through when its session holds any of roles
// It must run after Auth so the session id is on the context
func RequireRole(p RolePort, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil || len(roles) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			granted, err := p.Roles(r, pnet.SessionID(r.Context()))
			if err == nil && !anyOf(granted, roles) {
				err = perrs.Forbiddenf("requires one of roles %v", roles)
			}
			if err != nil {
				status, body := pnet.Reply(0, err, pnet.RequestID(r.Context()))
				phttp.JSON(w, status, body)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func anyOf(granted, want []string) bool {
	return slices.ContainsFunc(granted, func(g string) bool { return slices.Contains(want, g) })
}

package module

import (
	"fmt"
	"net/http"

	"dcbadmin/internal/adapters/dcb"
	"dcbadmin/internal/modkit/httpkit"
	"dcbadmin/internal/platform/net/middleware"
	sessionsvc "dcbadmin/internal/services/api/session/service"
)

// Ports are what other modules borrow from sessions
type Ports struct {
	// Auth resolves the session cookie or bearer on protected routes
	Auth middleware.AuthPort
	// Roles backs httpkit.RequireRole
	Roles httpkit.RolePort
	// Tokens hands out the DCB token source of a session
	Tokens func(sessionID string) dcb.TokenSource
}

// MustFrom pulls session ports out of what a module was built with
// it panics naming the module when they were not injected
func MustFrom(injected any, module string) Ports {
	p, ok := injected.(Ports)
	if !ok || p.Auth == nil || p.Roles == nil || p.Tokens == nil {
		panic(fmt.Sprintf("%s module requires session ports", module))
	}
	return p
}

// rolePort adapts the session service to httpkit.RolePort
type rolePort struct{ svc *sessionsvc.Svc }

// Roles implements httpkit.RolePort
func (p rolePort) Roles(r *http.Request, sessionID string) ([]string, error) {
	return p.svc.Roles(r.Context(), sessionID)
}

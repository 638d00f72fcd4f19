// Package module wires sessions into the API using modkit
package module

import (
	modkit "dcbadmin/internal/modkit"
	"dcbadmin/internal/modkit/httpkit"
	sessionhttp "dcbadmin/internal/services/api/session/http"
	sessionrepo "dcbadmin/internal/services/api/session/repo"
	sessionsvc "dcbadmin/internal/services/api/session/service"
)

// New constructs the session module; deps must carry PG, Cache and OIDC
// its Ports are the Ports every other module authenticates through
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("session"), modkit.WithPrefix("/session")}, opts...)...)

	cfg := deps.Cfg
	svc := sessionsvc.New(deps.PG, sessionrepo.NewPG(), deps.OIDC, deps.Cache, sessionsvc.Options{
		PostLogoutURL: cfg.MayString("POST_LOGOUT_URL", ""),
		LoginTTL:      cfg.MayDuration("LOGIN_TTL", sessionsvc.DefaultLoginTTL),
	})

	cookie := sessionhttp.CookieOptions{
		Name:   cfg.MayString("COOKIE_NAME", httpkit.SessionCookie),
		Secure: cfg.MayBool("COOKIE_SECURE", true),
	}
	port := httpkit.NewPortFunc(svc.Resolve).WithCookie(cookie.Name)

	ports := Ports{Auth: port, Roles: rolePort{svc: svc}, Tokens: svc.Tokens}
	return b.Module(ports, func(r httpkit.Router) {
		sessionhttp.Register(r, sessionhttp.Deps{Svc: svc, Port: port, Cookie: cookie}, port)
	})
}

// Package module wires the admin forms into the API using modkit
package module

import (
	modkit "dcbadmin/internal/modkit"
	"dcbadmin/internal/modkit/httpkit"
	adminhttp "dcbadmin/internal/services/api/admin/http"
	adminsvc "dcbadmin/internal/services/api/admin/service"
	sessionmod "dcbadmin/internal/services/api/session/module"
)

// DefaultRoles may use the admin forms unless CORE_API_ADMIN_ROLES says otherwise
var DefaultRoles = []string{"ADMIN", "CONSORTIUM_ADMIN"}

// New constructs the admin module; it needs the session ports injected via modkit.WithPorts
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("admin"), modkit.WithPrefix("/admin")}, opts...)...)
	sess := sessionmod.MustFrom(b.Ports, b.Name)
	if deps.DCB == nil {
		panic("admin module requires a DCB client")
	}

	svc := adminsvc.New(deps.DCB, deps.Cache)
	roles := deps.Cfg.MayCSV("ADMIN_ROLES", DefaultRoles)
	return b.Module(svc, func(r httpkit.Router) {
		adminhttp.Register(r, adminhttp.Deps{
			Svc:     svc,
			Auth:    sess.Auth,
			Roles:   sess.Roles,
			Tokens:  sess.Tokens,
			Allowed: roles,
		})
	})
}

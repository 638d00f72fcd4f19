// Package module wires reports into the API using modkit
package module

import (
	modkit "dcbadmin/internal/modkit"
	"dcbadmin/internal/modkit/httpkit"
	reportshttp "dcbadmin/internal/services/api/reports/http"
	reportssvc "dcbadmin/internal/services/api/reports/service"
	sessionmod "dcbadmin/internal/services/api/session/module"
)

// New constructs the reports module; it needs the session ports injected via modkit.WithPorts
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("reports"), modkit.WithPrefix("/reports")}, opts...)...)
	sess := sessionmod.MustFrom(b.Ports, b.Name)
	if deps.DCB == nil {
		panic("reports module requires a DCB client")
	}

	svc := reportssvc.New(deps.DCB, deps.Cache, deps.Cfg.MayDuration("REPORTS_BIB_COUNTS_TTL", reportssvc.DefaultBibCountsTTL))
	return b.Module(svc, func(r httpkit.Router) {
		reportshttp.Register(r, reportshttp.Deps{Svc: svc, Auth: sess.Auth, Tokens: sess.Tokens})
	})
}

// Package module wires search into the API using modkit
package module

import (
	modkit "dcbadmin/internal/modkit"
	"dcbadmin/internal/modkit/httpkit"
	searchhttp "dcbadmin/internal/services/api/search/http"
	searchsvc "dcbadmin/internal/services/api/search/service"
	sessionmod "dcbadmin/internal/services/api/session/module"
)

// New constructs the search module; it needs the session ports injected via modkit.WithPorts
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("search"), modkit.WithPrefix("/search")}, opts...)...)
	sess := sessionmod.MustFrom(b.Ports, b.Name)
	if deps.DCB == nil {
		panic("search module requires a DCB client")
	}

	svc := searchsvc.New(deps.DCB, deps.Cfg.MayString("PUBLIC_URL", ""))
	return b.Module(svc, func(r httpkit.Router) {
		searchhttp.Register(r, searchhttp.Deps{Svc: svc, Auth: sess.Auth, Tokens: sess.Tokens})
	})
}

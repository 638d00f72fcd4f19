// Package module wires grids into the API using modkit
package module

import (
	"context"

	modkit "dcbadmin/internal/modkit"
	"dcbadmin/internal/modkit/httpkit"
	"dcbadmin/internal/platform/logger"
	"dcbadmin/internal/services/api/grid/domain"
	gridhttp "dcbadmin/internal/services/api/grid/http"
	gridrepo "dcbadmin/internal/services/api/grid/repo"
	gridsvc "dcbadmin/internal/services/api/grid/service"
	sessionmod "dcbadmin/internal/services/api/session/module"
)

// New constructs the grid module; it needs the session ports injected via modkit.WithPorts
// the search log is written to ClickHouse when deps carry a handle
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("grid"), modkit.WithPrefix("/grid")}, opts...)...)
	sess := sessionmod.MustFrom(b.Ports, b.Name)
	if deps.DCB == nil {
		panic("grid module requires a DCB client")
	}

	svc := gridsvc.New(deps.DCB, deps.Cache, searchLog(deps), gridsvc.Options{
		PageTTL: deps.Cfg.MayDuration("GRID_PAGE_TTL", gridsvc.DefaultPageTTL),
	})
	return b.Module(svc, func(r httpkit.Router) {
		gridhttp.Register(r, gridhttp.Deps{Svc: svc, Auth: sess.Auth, Tokens: sess.Tokens})
	})
}

func searchLog(deps modkit.Deps) domain.SearchLog {
	if deps.CH == nil {
		return gridrepo.Discard{}
	}
	ch := gridrepo.NewCH(deps.CH)
	if deps.Cfg.MayBool("SEARCH_LOG_MIGRATE", false) {
		if err := ch.Migrate(context.Background()); err != nil {
			logger.Named("grid").Warn().Err(err).Msg("search log table not created")
		}
	}
	return ch
}

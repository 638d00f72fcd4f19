// Package api provides the HTTP API for the application
package api

import (
	"time"

	"dcbadmin/internal/adapters/dcb"
	"dcbadmin/internal/adapters/oidc"
	"dcbadmin/internal/platform/config"
	"dcbadmin/internal/platform/logger"
	phttp "dcbadmin/internal/platform/net/http"
	"dcbadmin/internal/platform/store"

	"dcbadmin/internal/modkit"
	"dcbadmin/internal/modkit/httpkit"
	"dcbadmin/internal/modkit/module"
	"dcbadmin/internal/modkit/swaggerkit"

	adminmod "dcbadmin/internal/services/api/admin/module"
	gridmod "dcbadmin/internal/services/api/grid/module"
	metamod "dcbadmin/internal/services/api/meta/module"
	reportsmod "dcbadmin/internal/services/api/reports/module"
	searchmod "dcbadmin/internal/services/api/search/module"
	sessionmod "dcbadmin/internal/services/api/session/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	DCB            *dcb.Client
	OIDC           *oidc.Provider
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg:   opt.Config,
		Cache: opt.Store.Cache,
		DCB:   opt.DCB,
		OIDC:  opt.OIDC,
	}
	// leave optional stores as untyped nil when disabled
	if opt.Store.PG != nil {
		deps.PG = opt.Store.PG
	}
	if opt.Store.CH != nil {
		deps.CH = opt.Store.CH
	}

	// sessions come first; every other module authenticates through their ports
	session := sessionmod.New(deps)
	sess := module.MustPortsOf[sessionmod.Ports](session)

	mods := []module.Module{
		metamod.New(deps),
		session,
		searchmod.New(deps, modkit.WithPorts(sess)),
		gridmod.New(deps, modkit.WithPorts(sess)),
		adminmod.New(deps, modkit.WithPorts(sess)),
		reportsmod.New(deps, modkit.WithPorts(sess)),
	}

	// versioned API with a common middleware stack
	stack := httpkit.CommonStack(httpkit.Stack{
		Origins: opt.Config.MayCSV("CORS_ORIGINS", nil),
		Timeout: opt.Config.MayDuration("REQUEST_TIMEOUT", 30*time.Second),
		Slow:    opt.Config.MayDuration("SLOW_REQUEST", 2*time.Second),
	})
	log := logger.Named("api")
	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		for _, m := range mods {
			log.Debug().Str("module", m.Name()).Msg("mounting")
			m.MountRoutes(api)
		}
	})
	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)
}

// Package module wires meta endpoints into the API using modkit
package module

import (
	"context"
	"time"

	modkit "dcbadmin/internal/modkit"
	"dcbadmin/internal/modkit/httpkit"

	metahttp "dcbadmin/internal/services/api/meta/http"
)

// New constructs the meta module; it needs no session
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	startedAt := time.Now()
	return b.Module(nil, func(r httpkit.Router) {
		metahttp.Register(r, metahttp.Deps{
			ServiceName:  "dcb-admin-api",
			StartedAt:    startedAt,
			Checks:       checks(deps),
			ReadyTimeout: deps.Cfg.MayDuration("READY_TIMEOUT", 2*time.Second),
		})
	})
}

// checks lists readiness dependencies; absent stores stay untyped nil so they report skipped
func checks(deps modkit.Deps) []metahttp.Check {
	out := []metahttp.Check{
		{Name: "pg", Target: deps.PG},
		{Name: "ch", Target: deps.CH, Optional: true},
		{Name: "cache", Target: deps.Cache},
	}
	dcbCheck := metahttp.Check{Name: "dcb", Optional: true}
	if deps.DCB != nil {
		c := deps.DCB
		dcbCheck.Target = metahttp.PingFunc(func(ctx context.Context) error {
			_, err := c.ServiceInfo(ctx, nil)
			return err
		})
	}
	return append(out, dcbCheck)
}

package store

import (
	"context"
	"fmt"
	"time"

	chx "dcbadmin/internal/platform/store/ch"
	"dcbadmin/internal/platform/store/pg"
	"dcbadmin/internal/platform/store/rds"
)

const (
	defaultConnectRetries = 6
	defaultPingTimeout    = 3 * time.Second
	firstBackoff          = 150 * time.Millisecond
	maxBackoff            = 2 * time.Second
)

// openPG creates the pool and pings it until postgres answers or the attempts run out
// pings go to the pool directly so they stay out of the sql trace
func openPG(ctx context.Context, cfg Config, o options) (TxRunner, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(o.log)
	}
	p, err := pg.Open(ctx, pg.Config{
		URL:         cfg.PG.URL,
		AppName:     cfg.AppName,
		MaxConns:    cfg.PG.MaxConns,
		MaxConnIdle: cfg.PG.MaxConnIdle,
		SlowMs:      cfg.PG.SlowQueryMs,
		Tracer:      tracer,
		Tune:        o.tune,
	})
	if err != nil {
		return nil, fmt.Errorf("pg: %w", err)
	}

	attempts := cfg.PG.ConnectRetries
	if attempts <= 0 {
		attempts = defaultConnectRetries
	}
	timeout := cfg.PG.PingTimeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}

	wait := firstBackoff
	for attempt := 1; ; attempt++ {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		err = p.Pool.Ping(pctx)
		cancel()
		if err == nil {
			return newPGAdapter(p), nil
		}
		if attempt >= attempts {
			break
		}
		o.log.Warn().Err(err).Int("attempt", attempt).Dur("wait", wait).Msg("postgres not ready")
		if werr := sleep(ctx, wait); werr != nil {
			p.Close()
			return nil, werr
		}
		wait = min(wait*2, maxBackoff)
	}
	p.Close()
	return nil, fmt.Errorf("pg: no answer after %d pings: %w", attempts, err)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func openCH(ctx context.Context, cfg Config) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{URL: cfg.CH.URL, Role: cfg.CH.Role, Tag: cfg.AppName})
	if err != nil {
		return nil, err
	}
	return clickhouse{c}, nil
}

// openCache returns redis when enabled and the in-process cache otherwise
func openCache(ctx context.Context, cfg Config, o options) (Cache, error) {
	if !cfg.RDS.Enabled {
		o.log.Info().Msg("redis disabled, cache entries stay in this process")
		return newMemoryCache(), nil
	}
	r, err := rds.Open(ctx, rds.Config{
		Addr:     cfg.RDS.Addr,
		Password: cfg.RDS.Password,
		DB:       cfg.RDS.DB,
		Prefix:   cfg.RDS.Prefix,
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// @title         DCB Admin API
// @version       0.1.0
// @description   Backend for the DCB hub admin dashboard

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"dcbadmin/internal/adapters/dcb"
	"dcbadmin/internal/adapters/oidc"
	"dcbadmin/internal/core/version"
	"dcbadmin/internal/platform/config"
	"dcbadmin/internal/platform/logger"
	phttp "dcbadmin/internal/platform/net/http"
	"dcbadmin/internal/platform/store"
	"dcbadmin/internal/services/api"
	sessionrepo "dcbadmin/internal/services/api/session/repo"
)

func main() {
	env := config.New()
	apiCfg := env.Prefix("CORE_API_")
	pgCfg := env.Prefix("SERVICE_PGSQL_")
	chCfg := env.Prefix("SERVICE_CLICKHOUSE_")
	rdsCfg := env.Prefix("SERVICE_REDIS_")
	dcbCfg := env.Prefix("DCB_")
	oidcCfg := env.Prefix("OIDC_")

	l := logger.Named("main")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	l.Info().Str("version", version.Info().Version).Msg("starting")

	// postgres holds sessions and is required; clickhouse and redis are opt in
	st, err := store.Open(ctx, store.Config{
		AppName: "dcb-admin-api",
		PG: store.PGConfig{
			Enabled:        true,
			URL:            pgCfg.MustString("DBURL"),
			MaxConns:       int32(pgCfg.MayInt("MAX_CONNS", 4)),
			MaxConnIdle:    pgCfg.MayDuration("MAX_CONN_IDLE", 0),
			SlowQueryMs:    pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:         pgCfg.MayBool("LOG_SQL", false),
			ConnectRetries: pgCfg.MayInt("CONNECT_RETRIES", 0),
			PingTimeout:    pgCfg.MayDuration("PING_TIMEOUT", 0),
		},
		CH: store.CHConfig{
			Enabled: chCfg.MayBool("ENABLED", false),
			URL:     chCfg.MayString("DBURL", ""),
			Role:    "api",
		},
		RDS: store.RedisConfig{
			Enabled:  rdsCfg.MayBool("ENABLED", false),
			Addr:     rdsCfg.MayString("ADDR", "127.0.0.1:6379"),
			Password: rdsCfg.MayString("PASSWORD", ""),
			DB:       rdsCfg.MayInt("DB", 0),
			Prefix:   rdsCfg.MayString("PREFIX", "dcbadmin:"),
		},
	})
	if err != nil {
		l.Panic().Err(err).Msg("store open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("store close failed")
		}
	}()

	if pgCfg.MayBool("MIGRATE", false) {
		if err := sessionrepo.Migrate(ctx, st.PG); err != nil {
			l.Panic().Err(err).Msg("session schema migration failed")
		}
	}

	client := dcb.NewClient(dcb.Options{
		BaseURL:       dcbCfg.MustURL("BASE_URL").String(),
		GraphQLPath:   dcbCfg.MayString("GRAPHQL_PATH", ""),
		Timeout:       dcbCfg.MayDuration("TIMEOUT", 0),
		MaxRetries:    dcb.Retries(dcbCfg.MayInt("MAX_RETRIES", dcb.DefaultRetries)),
		MaxRefreshes:  dcbCfg.MayInt("MAX_REFRESHES", 0),
		RatePerSecond: dcbCfg.MayFloat("RATE", 0),
		Burst:         dcbCfg.MayInt("BURST", 0),
	})

	idp := oidc.New(oidc.Options{
		Issuer:        oidcCfg.MustURL("ISSUER").String(),
		ClientID:      oidcCfg.MustString("CLIENT_ID"),
		ClientSecret:  oidcCfg.MayString("CLIENT_SECRET", ""),
		RedirectURL:   oidcCfg.MustString("REDIRECT_URL"),
		PostLogoutURL: oidcCfg.MayString("POST_LOGOUT_URL", ""),
		Scopes:        oidcCfg.MayCSV("SCOPES", nil),
		Timeout:       oidcCfg.MayDuration("TIMEOUT", 0),
	})
	if oidcCfg.MayBool("DISCOVER", false) {
		if err := idp.Discover(ctx); err != nil {
			l.Panic().Err(err).Msg("oidc discovery failed")
		}
	}

	srv := phttp.NewServer(apiCfg)
	api.Mount(
		srv.Router(),
		api.Options{
			Config:         apiCfg,
			Store:          st,
			DCB:            client,
			OIDC:           idp,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
		},
	)

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}

package store

import (
	"dcbadmin/internal/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

type options struct {
	log  logger.Logger
	tune func(*pgxpool.Config)
}

func defaults() options { return options{log: *logger.Named("store")} }

// Option adjusts how Open brings the backends up
type Option func(*options)

// WithLogger replaces the logger used for boot messages and the sql trace
func WithLogger(l logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithPoolTuning runs fn on the postgres pool config before the pool is created
func WithPoolTuning(fn func(*pgxpool.Config)) Option {
	return func(o *options) { o.tune = fn }
}

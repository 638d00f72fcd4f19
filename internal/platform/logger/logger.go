// Package logger owns the process zerolog logger and its request scoped children
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	pnet "dcbadmin/internal/platform/net"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Logger is the project-wide logging type
type Logger = zerolog.Logger

// Options configures the root logger
type Options struct {
	Level   string
	Format  string // console or json
	Service string
	Caller  bool
	Writer  io.Writer
}

// FromEnv reads LOG_LEVEL, LOG_FORMAT, LOG_SERVICE and LOG_CALLER
// it reads the environment directly because config logs through this package
func FromEnv() Options {
	return Options{
		Level:   env("LOG_LEVEL", "info"),
		Format:  strings.ToLower(env("LOG_FORMAT", "json")),
		Service: env("LOG_SERVICE", "dcb-admin-api"),
		Caller:  env("LOG_CALLER", "") == "true",
	}
}

func env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

var (
	once sync.Once
	root atomic.Pointer[zerolog.Logger]
)

// Init builds the root logger; only the first call has any effect
func Init(opt Options) {
	once.Do(func() {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.TimeFieldFormat = time.RFC3339Nano

		lvl, err := zerolog.ParseLevel(strings.ToLower(opt.Level))
		if err != nil || lvl == zerolog.NoLevel {
			lvl = zerolog.InfoLevel
		}

		var w io.Writer = os.Stdout
		if opt.Writer != nil {
			w = opt.Writer
		}
		if opt.Format == "console" {
			w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
		}

		c := zerolog.New(w).Level(lvl).With().Timestamp()
		if opt.Service != "" {
			c = c.Str("service", opt.Service)
		}
		if opt.Caller {
			c = c.Caller()
		}
		l := c.Logger()
		root.Store(&l)
	})
}

// Get returns the root logger, building it from the environment on first use
func Get() *Logger {
	if l := root.Load(); l != nil {
		return l
	}
	Init(FromEnv())
	return root.Load()
}

// Named returns a child logger tagged with a component
func Named(component string) *Logger {
	l := Get().With().Str("component", component).Logger()
	return &l
}

// C returns a child logger carrying the request, session and user ids found on ctx
func C(ctx context.Context) *Logger {
	c := Get().With()
	if v := pnet.RequestID(ctx); v != "" {
		c = c.Str("request_id", v)
	}
	if v := pnet.SessionID(ctx); v != "" {
		c = c.Str("session_id", v)
	}
	if v := pnet.UserID(ctx); v != "" {
		c = c.Str("user_id", v)
	}
	l := c.Logger()
	return &l
}

package pg

import (
	"context"
	"fmt"
	"strings"

	"dcbadmin/internal/platform/logger"

	"github.com/rs/zerolog"
)

// QueryEvent is one finished statement
type QueryEvent struct {
	SQL       string
	Args      []any
	ElapsedUS int64
	Err       error
	Slow      bool
}

// QueryTracer is told about every statement the store runs
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// TracerFunc adapts a plain function to QueryTracer
type TracerFunc func(ctx context.Context, ev QueryEvent)

// OnQuery calls f
func (f TracerFunc) OnQuery(ctx context.Context, ev QueryEvent) { f(ctx, ev) }

// Tracer writes a "pg query" line per statement on l, below the level filter of the root logger
// Only argument types are written since session rows hold bearer tokens
func Tracer(l logger.Logger) QueryTracer {
	log := l.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger()
	return TracerFunc(func(_ context.Context, ev QueryEvent) {
		lvl := zerolog.InfoLevel
		if ev.Slow {
			lvl = zerolog.WarnLevel
		}
		types := make([]string, len(ev.Args))
		for i, a := range ev.Args {
			types[i] = fmt.Sprintf("%T", a)
		}
		log.WithLevel(lvl).
			Err(ev.Err).
			Str("sql", compact(ev.SQL)).
			Strs("arg_types", types).
			Float64("elapsed_ms", float64(ev.ElapsedUS)/1000).
			Bool("slow", ev.Slow).
			Msg("pg query")
	})
}

// compact puts a statement on one line
func compact(s string) string { return strings.Join(strings.Fields(s), " ") }

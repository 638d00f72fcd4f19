// Package store opens the backends the admin API keeps state in: postgres for sessions,
// clickhouse for the search log and redis (or an in-process map) for short lived entries
package store

import (
	"context"
	"errors"
	"fmt"
)

// Store holds whichever backends were enabled; a disabled backend stays nil except Cache
type Store struct {
	PG    TxRunner
	CH    Clickhouse
	Cache Cache
}

// Row is a single result row
type Row interface {
	Scan(dest ...any) error
}

// Rows is a result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

// CommandTag reports what a statement did
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier runs sql; the pool and an open transaction both satisfy it
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner is a RowQuerier that can also run fn inside a transaction
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Clickhouse appends and reads columnar rows
type Clickhouse interface {
	// Insert sends rows in one batch, each row holding values in column order
	Insert(ctx context.Context, table string, rows [][]any) error
	Exec(ctx context.Context, sql string, args ...any) error
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Close() error
}

// Open brings up every enabled backend in cfg
// When one fails the backends already opened are closed again and no Store is returned
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	o := defaults()
	for _, fn := range opts {
		fn(&o)
	}

	s := &Store{}
	abort := func(err error) (*Store, error) {
		_ = s.Close(ctx)
		return nil, err
	}

	if cfg.PG.Enabled {
		p, err := openPG(ctx, cfg, o)
		if err != nil {
			return abort(err)
		}
		s.PG = p
	}
	if cfg.CH.Enabled {
		c, err := openCH(ctx, cfg)
		if err != nil {
			return abort(err)
		}
		s.CH = c
	}
	c, err := openCache(ctx, cfg, o)
	if err != nil {
		return abort(err)
	}
	s.Cache = c

	o.log.Info().
		Bool("pg", s.PG != nil).
		Bool("ch", s.CH != nil).
		Bool("redis", cfg.RDS.Enabled).
		Msg("store ready")
	return s, nil
}

// seams lists the backends by name in opening order
func (s *Store) seams() []struct {
	name string
	v    any
} {
	return []struct {
		name string
		v    any
	}{{"pg", s.PG}, {"ch", s.CH}, {"redis", s.Cache}}
}

// Close closes the backends in reverse opening order
func (s *Store) Close(context.Context) error {
	if s == nil {
		return nil
	}
	var errs []error
	seams := s.seams()
	for i := len(seams) - 1; i >= 0; i-- {
		c, ok := seams[i].v.(interface{ Close() error })
		if !ok {
			continue
		}
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", seams[i].name, err))
		}
	}
	return errors.Join(errs...)
}

package store

import (
	"context"
	"errors"
	"time"

	"dcbadmin/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgxQuerier is what pgxpool.Pool and pgx.Tx have in common for running statements
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// traced is a RowQuerier over pgx that reports each statement to tracer
type traced struct {
	q      pgxQuerier
	tracer pg.QueryTracer
	// slowUS is the slow mark in microseconds; negative never marks
	slowUS int64
	now    func() time.Time
}

func (t traced) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	done := t.start(ctx, sql, args)
	ct, err := t.q.Exec(ctx, sql, args...)
	done(err)
	return ct, err
}

// Query reports once the result set is open; draining it is not timed
func (t traced) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	done := t.start(ctx, sql, args)
	rs, err := t.q.Query(ctx, sql, args...)
	done(err)
	if err != nil {
		return nil, err
	}
	return pgRows{rs}, nil
}

// QueryRow reports when Scan returns, so pgx.ErrNoRows shows up on the event
func (t traced) QueryRow(ctx context.Context, sql string, args ...any) Row {
	done := t.start(ctx, sql, args)
	return pgRow{Row: t.q.QueryRow(ctx, sql, args...), done: done}
}

// start begins timing a statement and returns the func that reports it
func (t traced) start(ctx context.Context, sql string, args []any) func(error) {
	if t.tracer == nil {
		return func(error) {}
	}
	began := t.now()
	return func(err error) {
		us := t.now().Sub(began).Microseconds()
		t.tracer.OnQuery(ctx, pg.QueryEvent{
			SQL:       sql,
			Args:      args,
			ElapsedUS: us,
			Err:       err,
			Slow:      t.slowUS >= 0 && us >= t.slowUS,
		})
	}
}

// pgAdapter is the TxRunner handed to repositories
type pgAdapter struct {
	traced
	p *pg.PG
}

func newPGAdapter(p *pg.PG) *pgAdapter {
	slow := int64(p.SlowMs) * int64(time.Millisecond/time.Microsecond)
	return &pgAdapter{traced: traced{q: p.Pool, tracer: p.Tracer, slowUS: slow, now: time.Now}, p: p}
}

// Ping goes to the pool directly so readiness probes stay out of the trace
func (a *pgAdapter) Ping(ctx context.Context) error {
	if a == nil || a.p == nil || a.p.Pool == nil {
		return errors.New("pg: not opened")
	}
	return a.p.Pool.Ping(ctx)
}

func (a *pgAdapter) Close() error {
	a.p.Close()
	return nil
}

// Tx runs fn in a transaction that commits when fn returns nil
func (a *pgAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := a.p.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	return runTx(ctx, tx, a.traced, fn)
}

func runTx(ctx context.Context, tx pgx.Tx, base traced, fn func(q RowQuerier) error) error {
	base.q = tx
	if err := fn(base); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

type pgRow struct {
	pgx.Row
	done func(error)
}

func (r pgRow) Scan(dst ...any) error {
	err := r.Row.Scan(dst...)
	r.done(err)
	return err
}

// pgRows adds Columns to pgx.Rows
type pgRows struct{ pgx.Rows }

func (r pgRows) Columns() []string {
	fds := r.FieldDescriptions()
	names := make([]string, len(fds))
	for i, fd := range fds {
		names[i] = fd.Name
	}
	return names
}

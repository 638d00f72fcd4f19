package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"dcbadmin/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type scanRow struct{ err error }

func (r scanRow) Scan(dst ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dst[0].(*string)) = "0192f7a4-0000-7000-8000-000000000001"
	return nil
}

type sessionRows struct {
	ids []string
	i   int
}

func (r *sessionRows) Close()                                       {}
func (r *sessionRows) Err() error                                   { return nil }
func (r *sessionRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT 2") }
func (r *sessionRows) FieldDescriptions() []pgconn.FieldDescription { return []pgconn.FieldDescription{{Name: "id"}} }
func (r *sessionRows) Next() bool                                   { r.i++; return r.i <= len(r.ids) }
func (r *sessionRows) Scan(dst ...any) error                        { *(dst[0].(*string)) = r.ids[r.i-1]; return nil }
func (r *sessionRows) Values() ([]any, error)                       { return []any{r.ids[r.i-1]}, nil }
func (r *sessionRows) RawValues() [][]byte                          { return nil }
func (r *sessionRows) Conn() *pgx.Conn                              { return nil }

// fakePgx records statements; it doubles as a pgx.Tx
type fakePgx struct {
	sql        []string
	execErr    error
	scanErr    error
	committed  bool
	rolledBack bool
}

func (f *fakePgx) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	f.sql = append(f.sql, sql)
	return pgconn.NewCommandTag("DELETE 1"), f.execErr
}

func (f *fakePgx) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	f.sql = append(f.sql, sql)
	return &sessionRows{ids: []string{"a", "b"}}, nil
}

func (f *fakePgx) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	f.sql = append(f.sql, sql)
	return scanRow{err: f.scanErr}
}

func (f *fakePgx) Begin(context.Context) (pgx.Tx, error) { return f, nil }
func (f *fakePgx) Commit(context.Context) error          { f.committed = true; return nil }
func (f *fakePgx) Rollback(context.Context) error        { f.rolledBack = true; return nil }
func (f *fakePgx) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (f *fakePgx) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults { return nil }
func (f *fakePgx) LargeObjects() pgx.LargeObjects                         { return pgx.LargeObjects{} }
func (f *fakePgx) Prepare(context.Context, string, string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (f *fakePgx) Conn() *pgx.Conn { return nil }

type events struct{ got []pg.QueryEvent }

func (e *events) OnQuery(_ context.Context, ev pg.QueryEvent) { e.got = append(e.got, ev) }

// stepClock advances by step on every read
func stepClock(step time.Duration) func() time.Time {
	t := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

func TestTraced_ExecReportsTagAndSlowness(t *testing.T) {
	db, ev := &fakePgx{}, &events{}
	q := traced{q: db, tracer: ev, slowUS: 1000, now: stepClock(2 * time.Millisecond)}

	ct, err := q.Exec(context.Background(), "delete from admin_sessions where id = $1", "s1")
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if ct.RowsAffected() != 1 || ct.String() != "DELETE 1" {
		t.Fatalf("tag = %v", ct)
	}
	if len(ev.got) != 1 || !ev.got[0].Slow || ev.got[0].ElapsedUS != 2000 {
		t.Fatalf("events = %+v", ev.got)
	}
}

func TestTraced_QueryRowReportsScanError(t *testing.T) {
	db, ev := &fakePgx{scanErr: pgx.ErrNoRows}, &events{}
	q := traced{q: db, tracer: ev, slowUS: -1, now: time.Now}

	var id string
	err := q.QueryRow(context.Background(), "select id::text from admin_sessions").Scan(&id)
	if !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("Scan err = %v", err)
	}
	if len(ev.got) != 1 || !errors.Is(ev.got[0].Err, pgx.ErrNoRows) || ev.got[0].Slow {
		t.Fatalf("events = %+v", ev.got)
	}
}

func TestTraced_QueryWrapsRows(t *testing.T) {
	q := traced{q: &fakePgx{}, now: time.Now}
	rs, err := q.Query(context.Background(), "select id::text from admin_sessions")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	defer rs.Close()
	if cols := rs.Columns(); len(cols) != 1 || cols[0] != "id" {
		t.Fatalf("columns = %v", cols)
	}
	var ids []string
	for rs.Next() {
		var id string
		if err := rs.Scan(&id); err != nil {
			t.Fatalf("Scan: %v", err)
		}
		ids = append(ids, id)
	}
	if len(ids) != 2 || rs.Err() != nil {
		t.Fatalf("ids = %v err = %v", ids, rs.Err())
	}
}

func TestRunTx_CommitsOnSuccess(t *testing.T) {
	tx, ev := &fakePgx{}, &events{}
	err := runTx(context.Background(), tx, traced{tracer: ev, now: time.Now}, func(q RowQuerier) error {
		_, err := q.Exec(context.Background(), "update admin_sessions set updated_at = now()")
		return err
	})
	if err != nil {
		t.Fatalf("runTx: %v", err)
	}
	if !tx.committed || tx.rolledBack || len(tx.sql) != 1 || len(ev.got) != 1 {
		t.Fatalf("tx = %+v events = %d", tx, len(ev.got))
	}
}

func TestRunTx_RollsBackOnError(t *testing.T) {
	boom := errors.New("boom")
	tx := &fakePgx{execErr: boom}
	err := runTx(context.Background(), tx, traced{now: time.Now}, func(q RowQuerier) error {
		_, err := q.Exec(context.Background(), "insert into admin_sessions default values")
		return err
	})
	if !errors.Is(err, boom) || tx.committed || !tx.rolledBack {
		t.Fatalf("err = %v tx = %+v", err, tx)
	}
}

func TestPGAdapter_NilPing(t *testing.T) {
	var a *pgAdapter
	if err := a.Ping(context.Background()); err == nil {
		t.Fatal("expected error from nil adapter")
	}
}

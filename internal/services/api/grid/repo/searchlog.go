// Package repo provides the ClickHouse search log for grid fetches
package repo

import (
	"context"

	"dcbadmin/internal/platform/store"
	"dcbadmin/internal/services/api/grid/domain"
)

// Table is the search log table
const Table = "search_log"

// Schema creates the search log table
const Schema = `
create table if not exists search_log (
	at          DateTime64(3, 'UTC'),
	session_id  String,
	subject     String,
	kind        LowCardinality(String),
	query       String,
	page        UInt32,
	page_size   UInt16,
	total       UInt64,
	latency_ms  UInt32,
	failed      Bool
) engine = MergeTree
partition by toYYYYMM(at)
order by (kind, at)
ttl toDateTime(at) + interval 180 day
`

// CH writes search entries to ClickHouse
type CH struct{ db store.Clickhouse }

// NewCH wraps a ClickHouse handle
func NewCH(db store.Clickhouse) *CH { return &CH{db: db} }

// Migrate creates the table when missing
func (r *CH) Migrate(ctx context.Context) error { return r.db.Exec(ctx, Schema) }

// Record implements domain.SearchLog
func (r *CH) Record(ctx context.Context, entries ...domain.SearchEntry) error {
	rows := make([][]any, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []any{
			e.At.UTC(),
			e.SessionID,
			e.Subject,
			e.Kind,
			e.Query,
			uint32(max(e.Page, 0)),
			uint16(max(e.PageSize, 0)),
			uint64(max(e.Total, 0)),
			uint32(e.Latency.Milliseconds()),
			e.Failed,
		})
	}
	return r.db.Insert(ctx, Table, rows)
}

// Discard drops entries; used when ClickHouse is not configured
type Discard struct{}

// Record implements domain.SearchLog
func (Discard) Record(context.Context, ...domain.SearchEntry) error { return nil }

package store

import (
	"context"

	chx "dcbadmin/internal/platform/store/ch"
)

// clickhouse narrows *ch.CH to the Clickhouse seam; only Rows.Close differs
type clickhouse struct{ *chx.CH }

func (c clickhouse) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	r, err := c.CH.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return chRows{r}, nil
}

type chRows struct{ chx.Rows }

func (r chRows) Close() { _ = r.Rows.Close() }

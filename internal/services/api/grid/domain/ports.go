package domain

import (
	"context"

	"dcbadmin/internal/adapters/dcb"
	"dcbadmin/internal/core/gridquery"
)

// Source loads grid pages and single records upstream
type Source interface {
	Fetcher(kind string, tokens dcb.TokenSource) (gridquery.Fetcher, error)
	Detail(ctx context.Context, tokens dcb.TokenSource, kind, id string) (gridquery.Row, error)
}

// SearchLog records grid fetches for usage reporting
type SearchLog interface {
	Record(ctx context.Context, entries ...SearchEntry) error
}

// ServicePort defines the service contract for grids
type ServicePort interface {
	Kinds(ctx context.Context) []gridquery.Kind
	Page(ctx context.Context, sessionID string, tokens dcb.TokenSource, kind string, in PageRequest) (PageResponse, error)
	Row(ctx context.Context, sessionID, kind, id string) (gridquery.Row, error)
	Record(ctx context.Context, tokens dcb.TokenSource, kind, id string) (gridquery.Row, error)
}

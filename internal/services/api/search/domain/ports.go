package domain

import (
	"context"

	"dcbadmin/internal/adapters/dcb"
	"dcbadmin/internal/core/gridfilter"
	"dcbadmin/internal/core/search"
)

// Instances is the discovery search the service runs against
type Instances interface {
	SearchInstances(ctx context.Context, tokens dcb.TokenSource, q string, offset, limit int) (dcb.InstanceResults, error)
}

// ServicePort defines the service contract for search
type ServicePort interface {
	Encode(ctx context.Context, in EncodeInput) (EncodeResponse, error)
	Decode(ctx context.Context, q string) (search.Parsed, error)
	SelectField(ctx context.Context, in SelectFieldInput) (CriteriaResponse, error)
	GridFilter(ctx context.Context, in GridFilterInput) (gridfilter.Model, error)
	FromGridFilter(ctx context.Context, in FromGridFilterInput) (CriteriaResponse, error)
	Results(ctx context.Context, tokens dcb.TokenSource, in ResultsInput) (ResultsResponse, error)
}

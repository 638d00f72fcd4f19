// Package domain holds the reports service contracts
package domain

import (
	"context"

	"dcbadmin/internal/adapters/dcb"
)

// Source is the DCB reporting surface
type Source interface {
	ServiceInfo(ctx context.Context, tokens dcb.TokenSource) (dcb.ServiceInfo, error)
	BibCountsByHostLms(ctx context.Context, tokens dcb.TokenSource) ([]dcb.BibCount, error)
	ErrorOverview(ctx context.Context, tokens dcb.TokenSource, report string) ([]dcb.ErrorCount, error)
}

// BibCounts is the per host system bib report with its total
type BibCounts struct {
	Total int64          `json:"total"`
	Rows  []dcb.BibCount `json:"rows"`
}

// ServicePort defines the service contract for reports
type ServicePort interface {
	Info(ctx context.Context, tokens dcb.TokenSource) (dcb.ServiceInfo, error)
	BibCounts(ctx context.Context, tokens dcb.TokenSource) (BibCounts, error)
	Errors(ctx context.Context, tokens dcb.TokenSource, report string) ([]dcb.ErrorCount, error)
}

// Package service reads DCB reports
package service

import (
	"context"
	"encoding/json"
	"regexp"
	"sort"
	"time"

	"dcbadmin/internal/adapters/dcb"
	perr "dcbadmin/internal/platform/errors"
	"dcbadmin/internal/platform/logger"
	"dcbadmin/internal/platform/store"
	"dcbadmin/internal/services/api/reports/domain"
)

// DefaultBibCountsTTL is how long the bib report is shared between users
const DefaultBibCountsTTL = time.Minute

const bibCountsKey = "reports:bib-counts"

var reportName = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Service defines the service contract for reports
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	src   domain.Source
	cache store.Cache
	ttl   time.Duration
	log   logger.Logger
}

// New creates a reports service; ttl <= 0 uses DefaultBibCountsTTL
func New(src domain.Source, cache store.Cache, ttl time.Duration) *Svc {
	if src == nil {
		panic("reports.Service requires a non nil Source")
	}
	if cache == nil {
		panic("reports.Service requires a non nil Cache")
	}
	if ttl <= 0 {
		ttl = DefaultBibCountsTTL
	}
	return &Svc{src: src, cache: cache, ttl: ttl, log: *logger.Named("reports")}
}

// Info returns the build metadata DCB publishes
func (s *Svc) Info(ctx context.Context, tokens dcb.TokenSource) (dcb.ServiceInfo, error) {
	return s.src.ServiceInfo(ctx, tokens)
}

// BibCounts returns source bib counts per host system, largest first
// the report is the same for every user, so it is shared through the cache for a short while
func (s *Svc) BibCounts(ctx context.Context, tokens dcb.TokenSource) (domain.BibCounts, error) {
	if raw, ok, err := s.cache.Get(ctx, bibCountsKey); err == nil && ok {
		var out domain.BibCounts
		if json.Unmarshal(raw, &out) == nil {
			return out, nil
		}
	}
	rows, err := s.src.BibCountsByHostLms(ctx, tokens)
	if err != nil {
		return domain.BibCounts{}, err
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].BibCount > rows[j].BibCount })
	out := domain.BibCounts{Rows: rows}
	for _, r := range rows {
		out.Total += r.BibCount
	}
	if raw, err := json.Marshal(out); err == nil {
		if err := s.cache.Set(ctx, bibCountsKey, raw, s.ttl); err != nil {
			logger.C(ctx).Warn().Err(err).Msg("bib counts not cached")
		}
	}
	return out, nil
}

// Errors returns a named error overview report
func (s *Svc) Errors(ctx context.Context, tokens dcb.TokenSource, report string) ([]dcb.ErrorCount, error) {
	if !reportName.MatchString(report) {
		return nil, perr.WithField(perr.InvalidArgf("unknown report %q", report), "report")
	}
	return s.src.ErrorOverview(ctx, tokens, report)
}

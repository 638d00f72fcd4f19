// Package service runs grid views: it turns grid interactions into list query variables, loads
// the page upstream, keeps the page per session for the detail panel and logs the fetch
package service

import (
	"context"
	"encoding/json"
	"time"

	"dcbadmin/internal/adapters/dcb"
	"dcbadmin/internal/core/gridfilter"
	"dcbadmin/internal/core/gridquery"
	"dcbadmin/internal/core/normalize"
	perr "dcbadmin/internal/platform/errors"
	"dcbadmin/internal/platform/logger"
	pnet "dcbadmin/internal/platform/net"
	"dcbadmin/internal/platform/store"
	"dcbadmin/internal/services/api/grid/domain"
)

// DefaultPageTTL is how long a loaded page stays available to the detail panel
const DefaultPageTTL = 30 * time.Minute

// Service defines the service contract for grids
type Service interface{ domain.ServicePort }

// Options tune the service
type Options struct {
	PageTTL time.Duration
}

// Svc implements the Service interface
type Svc struct {
	src    domain.Source
	decode func(kind string, raw []byte) ([]gridquery.Row, error)
	cache  store.Cache
	slog   domain.SearchLog
	views  *views
	opts   Options
	log    logger.Logger
	now    func() time.Time
}

// New creates a grid service; a nil search log discards entries
func New(src domain.Source, cache store.Cache, slog domain.SearchLog, opts Options) *Svc {
	if src == nil {
		panic("grid.Service requires a non nil Source")
	}
	if cache == nil {
		panic("grid.Service requires a non nil Cache")
	}
	if opts.PageTTL <= 0 {
		opts.PageTTL = DefaultPageTTL
	}
	if slog == nil {
		slog = discard{}
	}
	return &Svc{
		src:    src,
		decode: dcb.DecodeRows,
		cache:  cache,
		slog:   slog,
		views:  newViews(opts.PageTTL),
		opts:   opts,
		log:    *logger.Named("grid"),
		now:    time.Now,
	}
}

type discard struct{}

func (discard) Record(context.Context, ...domain.SearchEntry) error { return nil }

// saved is the cached form of a loaded page
type saved struct {
	State gridquery.State `json:"state"`
	Rows  json.RawMessage `json:"rows"`
}

// PageKey is the cache key of the page a session last loaded in a grid
func PageKey(sessionID, kind string) string { return "grid:" + sessionID + ":" + kind }

// Kinds lists the grids on offer
func (s *Svc) Kinds(context.Context) []gridquery.Kind { return gridquery.Kinds() }

// load reads the cached page of a grid view
func (s *Svc) load(ctx context.Context, sessionID string, k gridquery.Kind) (gridquery.State, []gridquery.Row, bool, error) {
	raw, ok, err := s.cache.Get(ctx, PageKey(sessionID, k.Name))
	if err != nil {
		return gridquery.State{}, nil, false, perr.Wrapf(err, perr.ErrorCodeUnavailable, "read cached grid page")
	}
	if !ok {
		return gridquery.State{}, nil, false, nil
	}
	var sv saved
	if err := json.Unmarshal(raw, &sv); err != nil {
		s.log.Warn().Err(err).Str("kind", k.Name).Msg("cached grid page unreadable, starting fresh")
		return gridquery.State{}, nil, false, nil
	}
	rows, err := s.decode(k.Name, sv.Rows)
	if err != nil {
		s.log.Warn().Err(err).Str("kind", k.Name).Msg("cached grid rows unreadable, starting fresh")
		return gridquery.State{}, nil, false, nil
	}
	return sv.State, rows, true, nil
}

func (s *Svc) save(ctx context.Context, sessionID string, c *gridquery.Controller) error {
	rows, err := json.Marshal(c.Rows())
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeJSON, "encode grid rows")
	}
	raw, err := json.Marshal(saved{State: c.State(), Rows: rows})
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeJSON, "encode grid page")
	}
	return s.cache.Set(ctx, PageKey(sessionID, c.Kind().Name), raw, s.opts.PageTTL)
}

// controller returns the live controller of a view, restoring it from the cached page when the
// view went idle
func (s *Svc) controller(ctx context.Context, sessionID string, k gridquery.Kind, in domain.PageRequest) (*gridquery.Controller, error) {
	key := PageKey(sessionID, k.Name)
	if in.Reset {
		s.views.drop(key)
		if err := s.cache.Del(ctx, key); err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "reset grid page")
		}
	}
	var (
		st    gridquery.State
		rows  []gridquery.Row
		found bool
		err   error
	)
	if !in.Reset {
		if st, rows, found, err = s.load(ctx, sessionID, k); err != nil {
			return nil, err
		}
	}
	return s.views.get(key, func() *gridquery.Controller {
		if found {
			return gridquery.Restore(k, st, rows)
		}
		return gridquery.NewController(k, in.Preset)
	}), nil
}

// apply runs the request against the controller in grid order: preset, filter, search, sort, page
func apply(c *gridquery.Controller, in domain.PageRequest) error {
	c.SetPreset(in.Preset)
	if in.Filter != nil {
		m := *in.Filter
		m.Items = append([]gridfilter.Item(nil), m.Items...)
		for i := range m.Items {
			m.Items[i].Value = normalize.Value(m.Items[i].Value)
		}
		if err := c.SetFilter(m); err != nil {
			if e, ok := perr.As(err); ok && e.Field() != "" {
				return perr.WithField(err, "filter."+e.Field())
			}
			return err
		}
	}
	if in.QuickSearch != nil {
		c.SetQuickSearch(normalize.Value(*in.QuickSearch))
	}
	if in.Sort != nil {
		if in.Sort.Field != "" && !c.Kind().Filterable(in.Sort.Field) {
			return perr.WithField(perr.InvalidArgf("column %q cannot be sorted on %s", in.Sort.Field, c.Kind().Name), "sort.field")
		}
		c.SetSort(in.Sort.Field, gridquery.ParseDirection(in.Sort.Direction))
	}
	if in.Pagination != nil {
		c.SetPagination(in.Pagination.Page, in.Pagination.PageSize)
	}
	return nil
}

// Page applies a grid interaction and loads the resulting page
func (s *Svc) Page(ctx context.Context, sessionID string, tokens dcb.TokenSource, kind string, in domain.PageRequest) (domain.PageResponse, error) {
	k, err := gridquery.Lookup(kind)
	if err != nil {
		return domain.PageResponse{}, err
	}
	fetch, err := s.src.Fetcher(k.Name, tokens)
	if err != nil {
		return domain.PageResponse{}, err
	}
	c, err := s.controller(ctx, sessionID, k, in)
	if err != nil {
		return domain.PageResponse{}, err
	}
	if err := apply(c, in); err != nil {
		return domain.PageResponse{}, err
	}

	v := c.Variables()
	start := s.now()
	p, err := c.Load(ctx, fetch)
	s.record(ctx, sessionID, k, v, p.Total, s.now().Sub(start), err)
	if err != nil {
		return domain.PageResponse{}, err
	}
	if err := s.save(ctx, sessionID, c); err != nil {
		// the page is still good for this response; the detail panel falls back upstream
		logger.C(ctx).Warn().Err(err).Str("kind", k.Name).Msg("grid page not cached")
	}

	rows := p.Rows
	if rows == nil {
		rows = []gridquery.Row{}
	}
	return domain.PageResponse{
		Kind:      k.Name,
		Variables: v,
		State:     c.State(),
		Status:    c.Status(),
		Rows:      rows,
		Total:     c.RowCount(),
	}, nil
}

func (s *Svc) record(ctx context.Context, sessionID string, k gridquery.Kind, v gridquery.Variables, total int, took time.Duration, err error) {
	if perr.IsCode(err, perr.ErrorCodeConflict) {
		return
	}
	e := domain.SearchEntry{
		At:        s.now(),
		SessionID: sessionID,
		Subject:   pnet.UserID(ctx),
		Kind:      k.Name,
		Query:     v.Query,
		Page:      v.PageNo,
		PageSize:  v.PageSize,
		Total:     total,
		Latency:   took,
		Failed:    err != nil,
	}
	if rerr := s.slog.Record(ctx, e); rerr != nil {
		logger.C(ctx).Warn().Err(rerr).Str("kind", k.Name).Msg("search log write failed")
	}
}

// Row returns a row of the page last loaded by this session, without an upstream call
func (s *Svc) Row(ctx context.Context, sessionID, kind, id string) (gridquery.Row, error) {
	k, err := gridquery.Lookup(kind)
	if err != nil {
		return nil, err
	}
	st, rows, found, err := s.load(ctx, sessionID, k)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, perr.NotFoundf("no %s page loaded for this session", k.Name)
	}
	return gridquery.Restore(k, st, rows).Select(id)
}

// Record fetches one record upstream for a full detail view
func (s *Svc) Record(ctx context.Context, tokens dcb.TokenSource, kind, id string) (gridquery.Row, error) {
	k, err := gridquery.Lookup(kind)
	if err != nil {
		return nil, err
	}
	return s.src.Detail(ctx, tokens, k.Name, id)
}

package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"dcbadmin/internal/adapters/dcb"
	"dcbadmin/internal/core/gridfilter"
	"dcbadmin/internal/core/gridquery"
	perr "dcbadmin/internal/platform/errors"
	"dcbadmin/internal/platform/store"
	"dcbadmin/internal/services/api/grid/domain"
)

type fakeSource struct {
	mu      sync.Mutex
	vars    []gridquery.Variables
	fetch   func(n int, v gridquery.Variables) (gridquery.Page, error)
	details int
}

func (f *fakeSource) Fetcher(kind string, _ dcb.TokenSource) (gridquery.Fetcher, error) {
	return func(_ context.Context, v gridquery.Variables) (gridquery.Page, error) {
		f.mu.Lock()
		f.vars = append(f.vars, v)
		n := len(f.vars)
		f.mu.Unlock()
		if f.fetch != nil {
			return f.fetch(n, v)
		}
		return agencyPage("a1", "a2"), nil
	}, nil
}

func (f *fakeSource) Detail(_ context.Context, _ dcb.TokenSource, kind, id string) (gridquery.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.details++
	return dcb.Agency{ID: id, Name: "fetched"}, nil
}

func (f *fakeSource) calls() []gridquery.Variables {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]gridquery.Variables(nil), f.vars...)
}

type memLog struct {
	mu      sync.Mutex
	entries []domain.SearchEntry
}

func (l *memLog) Record(_ context.Context, e ...domain.SearchEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, e...)
	return nil
}

func agencyPage(ids ...string) gridquery.Page {
	p := gridquery.Page{Total: 40}
	for _, id := range ids {
		p.Rows = append(p.Rows, dcb.Agency{ID: id, Name: "Agency " + id})
	}
	return p
}

func newTestSvc(src *fakeSource, log *memLog) *Svc {
	s := New(src, store.NewMemoryCache(), log, Options{})
	s.now = func() time.Time { return time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC) }
	return s
}

func str(s string) *string { return &s }

var tok = dcb.StaticToken("t")

func TestNew_PanicsOnMissingDeps(t *testing.T) {
	for name, fn := range map[string]func(){
		"source": func() { New(nil, store.NewMemoryCache(), nil, Options{}) },
		"cache":  func() { New(&fakeSource{}, nil, nil, Options{}) },
	} {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatal("expected panic")
				}
			}()
			fn()
		})
	}
}

func TestPage_QuickSearchThenPager(t *testing.T) {
	src, log := &fakeSource{}, &memLog{}
	s := newTestSvc(src, log)
	ctx := context.Background()

	out, err := s.Page(ctx, "s1", tok, "agencies", domain.PageRequest{QuickSearch: str("north lib")})
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if out.Total != 40 || len(out.Rows) != 2 || out.Status != gridquery.StatusReady {
		t.Fatalf("out = %+v", out)
	}
	if out.Variables.Query != `name:*north\ lib*` || out.Variables.PageNo != 0 {
		t.Fatalf("variables = %+v", out.Variables)
	}

	// a pager click keeps the search
	if _, err := s.Page(ctx, "s1", tok, "agencies", domain.PageRequest{Pagination: &domain.PageInput{Page: 1, PageSize: 25}}); err != nil {
		t.Fatalf("Page 2: %v", err)
	}
	calls := src.calls()
	if len(calls) != 2 || calls[1].PageNo != 1 || calls[1].Query != calls[0].Query {
		t.Fatalf("calls = %+v", calls)
	}

	if len(log.entries) != 2 || log.entries[1].Page != 1 || log.entries[0].Kind != "agencies" || log.entries[0].SessionID != "s1" {
		t.Fatalf("search log = %+v", log.entries)
	}
}

func TestPage_PastedInputIsCleaned(t *testing.T) {
	s := newTestSvc(&fakeSource{}, &memLog{})
	out, err := s.Page(context.Background(), "s1", tok, "agencies", domain.PageRequest{QuickSearch: str("  north\u200b  lib\n")})
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if out.Variables.Query != `name:*north\ lib*` || out.State.QuickSearch != "north lib" {
		t.Fatalf("variables = %+v state = %+v", out.Variables, out.State)
	}
}

func TestPage_IdleViewRestoredFromCache(t *testing.T) {
	src := &fakeSource{}
	s := newTestSvc(src, &memLog{})
	ctx := context.Background()

	if _, err := s.Page(ctx, "s1", tok, "agencies", domain.PageRequest{
		Sort: &domain.SortInput{Field: "code", Direction: "desc"},
	}); err != nil {
		t.Fatalf("Page: %v", err)
	}
	s.views = newViews(time.Minute) // every live view went idle

	out, err := s.Page(ctx, "s1", tok, "agencies", domain.PageRequest{Pagination: &domain.PageInput{Page: 3}})
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if out.State.Sort.Field != "code" || out.State.Sort.Direction != gridquery.Desc || out.Variables.PageNo != 3 {
		t.Fatalf("state not restored: %+v", out.State)
	}
}

func TestPage_ResetStartsFresh(t *testing.T) {
	src := &fakeSource{}
	s := newTestSvc(src, &memLog{})
	ctx := context.Background()

	_, _ = s.Page(ctx, "s1", tok, "agencies", domain.PageRequest{QuickSearch: str("x")})
	out, err := s.Page(ctx, "s1", tok, "agencies", domain.PageRequest{Reset: true, Preset: "hostLms:abc"})
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if out.State.QuickSearch != "" || out.Variables.Query != "hostLms:abc" {
		t.Fatalf("reset kept state: %+v", out.Variables)
	}
}

func TestPage_NewPresetRescopesLiveView(t *testing.T) {
	src := &fakeSource{}
	s := newTestSvc(src, &memLog{})
	ctx := context.Background()

	if _, err := s.Page(ctx, "s1", tok, "agencies", domain.PageRequest{Preset: "library:A"}); err != nil {
		t.Fatalf("Page A: %v", err)
	}
	if _, err := s.Page(ctx, "s1", tok, "agencies", domain.PageRequest{Pagination: &domain.PageInput{Page: 1, PageSize: 25}}); err != nil {
		t.Fatalf("Page A2: %v", err)
	}
	out, err := s.Page(ctx, "s1", tok, "agencies", domain.PageRequest{Preset: "library:B"})
	if err != nil {
		t.Fatalf("Page B: %v", err)
	}
	calls := src.calls()
	if len(calls) != 3 || calls[1].Query != "library:A" || calls[1].PageNo != 1 {
		t.Fatalf("calls = %+v", calls)
	}
	if calls[2].Query != "library:B" || calls[2].PageNo != 0 || out.State.Preset != "library:B" {
		t.Fatalf("preset B not applied: %+v", calls[2])
	}
}

func TestPage_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown kind", func(t *testing.T) {
		s := newTestSvc(&fakeSource{}, &memLog{})
		if _, err := s.Page(ctx, "s1", tok, "spaceships", domain.PageRequest{}); !perr.IsCode(err, perr.ErrorCodeNotFound) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("filter on unknown column", func(t *testing.T) {
		s := newTestSvc(&fakeSource{}, &memLog{})
		m := gridfilter.Model{Items: []gridfilter.Item{{Field: "colour", Operator: gridfilter.OpEquals, Value: "red"}}}
		_, err := s.Page(ctx, "s1", tok, "agencies", domain.PageRequest{Filter: &m})
		e, ok := perr.As(err)
		if !ok || e.Field() != "filter.items[0].field" {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("sort on unknown column", func(t *testing.T) {
		s := newTestSvc(&fakeSource{}, &memLog{})
		_, err := s.Page(ctx, "s1", tok, "agencies", domain.PageRequest{Sort: &domain.SortInput{Field: "colour"}})
		e, ok := perr.As(err)
		if !ok || e.Field() != "sort.field" {
			t.Fatalf("err = %v", err)
		}
	})
}

func TestPage_UpstreamFailureIsLogged(t *testing.T) {
	src := &fakeSource{fetch: func(int, gridquery.Variables) (gridquery.Page, error) {
		return gridquery.Page{}, perr.Unavailablef("try again later")
	}}
	log := &memLog{}
	s := newTestSvc(src, log)

	if _, err := s.Page(context.Background(), "s1", tok, "agencies", domain.PageRequest{}); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("err = %v", err)
	}
	if len(log.entries) != 1 || !log.entries[0].Failed {
		t.Fatalf("search log = %+v", log.entries)
	}
}

func TestPage_LastResponseWins(t *testing.T) {
	entered, release := make(chan struct{}), make(chan struct{})
	src := &fakeSource{fetch: func(n int, _ gridquery.Variables) (gridquery.Page, error) {
		if n == 1 {
			close(entered)
			<-release
			return agencyPage("stale"), nil
		}
		return agencyPage("fresh"), nil
	}}
	log := &memLog{}
	s := newTestSvc(src, log)
	ctx := context.Background()

	first := make(chan error, 1)
	go func() {
		_, err := s.Page(ctx, "s1", tok, "agencies", domain.PageRequest{QuickSearch: str("old")})
		first <- err
	}()
	<-entered

	out, err := s.Page(ctx, "s1", tok, "agencies", domain.PageRequest{QuickSearch: str("new")})
	if err != nil {
		t.Fatalf("second Page: %v", err)
	}
	close(release)

	if err := <-first; !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("first load should be superseded, got %v", err)
	}
	if out.Rows[0].RowID() != "fresh" {
		t.Fatalf("rows = %+v", out.Rows)
	}
	row, err := s.Row(ctx, "s1", "agencies", "fresh")
	if err != nil || row.RowID() != "fresh" {
		t.Fatalf("Row = %v %v", row, err)
	}
	if len(log.entries) != 1 {
		t.Fatalf("superseded loads are not logged, got %d entries", len(log.entries))
	}
}

func TestRow_FromCachedPage(t *testing.T) {
	src := &fakeSource{}
	s := newTestSvc(src, &memLog{})
	ctx := context.Background()

	if _, err := s.Row(ctx, "s1", "agencies", "a1"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("no page yet, got %v", err)
	}
	if _, err := s.Page(ctx, "s1", tok, "agencies", domain.PageRequest{}); err != nil {
		t.Fatalf("Page: %v", err)
	}

	row, err := s.Row(ctx, "s1", "agencies", "a2")
	if err != nil {
		t.Fatalf("Row: %v", err)
	}
	a, ok := row.(dcb.Agency)
	if !ok || a.Name != "Agency a2" {
		t.Fatalf("row = %#v", row)
	}
	if len(src.calls()) != 1 || src.details != 0 {
		t.Fatal("detail panel must not fetch upstream")
	}
	if _, err := s.Row(ctx, "s1", "agencies", "zz"); err != gridquery.ErrRowNotLoaded {
		t.Fatalf("err = %v", err)
	}
	// pages are per session
	if _, err := s.Row(ctx, "s2", "agencies", "a2"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("other session, got %v", err)
	}
}

func TestRecord_FetchesUpstream(t *testing.T) {
	src := &fakeSource{}
	s := newTestSvc(src, &memLog{})
	row, err := s.Record(context.Background(), tok, "agencies", "a9")
	if err != nil || row.RowID() != "a9" || src.details != 1 {
		t.Fatalf("Record = %v %v", row, err)
	}
}

func TestViews_EvictIdle(t *testing.T) {
	v := newViews(time.Minute)
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	v.now = func() time.Time { return now }
	k, _ := gridquery.Lookup("agencies")
	mk := func() *gridquery.Controller { return gridquery.NewController(k, "") }

	c1 := v.get("a", mk)
	if v.get("a", mk) != c1 {
		t.Fatal("live view must be reused")
	}
	now = now.Add(2 * time.Minute)
	v.get("b", mk)
	if v.len() != 1 {
		t.Fatalf("idle view not evicted, %d left", v.len())
	}
}

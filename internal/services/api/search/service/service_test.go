package service

import (
	"context"
	"strings"
	"testing"

	"dcbadmin/internal/adapters/dcb"
	"dcbadmin/internal/core/gridfilter"
	"dcbadmin/internal/core/search"
	perr "dcbadmin/internal/platform/errors"
	"dcbadmin/internal/services/api/search/domain"
)

type fakeInstances struct {
	q             string
	offset, limit int
	tok           string
	err           error
}

func (f *fakeInstances) SearchInstances(ctx context.Context, tokens dcb.TokenSource, q string, offset, limit int) (dcb.InstanceResults, error) {
	f.q, f.offset, f.limit = q, offset, limit
	f.tok, _ = tokens.Token(ctx)
	if f.err != nil {
		return dcb.InstanceResults{}, f.err
	}
	return dcb.InstanceResults{TotalRecords: 1, Instances: []dcb.Instance{{ID: "i1", Title: "Moby Dick"}}}, nil
}

func crit(id string, f search.Field, v string, op search.Operator) search.Criterion {
	return search.Criterion{ID: id, Field: f, Value: v, Operator: op}
}

func TestNew_PanicsWithoutInstances(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	New(nil, "")
}

func TestEncode_QueryAndShareURL(t *testing.T) {
	s := New(&fakeInstances{}, "https://admin.example.org/")
	out, err := s.Encode(context.Background(), domain.EncodeInput{Criteria: search.Criteria{
		crit("a", search.Title, "moby dick", search.OR),
		crit("b", search.Language, "eng", search.AND),
		crit("c", search.Author, "  ", search.AND),
	}})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := `(@title "moby dick") AND (language:English)`
	if out.Q != want {
		t.Fatalf("q = %q want %q", out.Q, want)
	}
	if !strings.HasPrefix(out.URL, "https://admin.example.org/search?q=") {
		t.Fatalf("url = %q", out.URL)
	}
	if got := search.ParseQuery(out.Q); len(got.Criteria) != 2 {
		t.Fatalf("round trip lost criteria: %+v", got)
	}
}

func TestEncode_CleansPastedValues(t *testing.T) {
	s := New(&fakeInstances{}, "")
	out, err := s.Encode(context.Background(), domain.EncodeInput{Criteria: search.Criteria{
		crit("a", search.ISBN, "\uff19\uff17\uff18\u200b0", search.AND),
		crit("b", search.Title, " moby \t dick ", search.AND),
	}})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if want := `(isbn:9780) AND (@title "moby dick")`; out.Q != want {
		t.Fatalf("q = %q want %q", out.Q, want)
	}
}

func TestEncode_NoPublicURL(t *testing.T) {
	s := New(&fakeInstances{}, "")
	out, err := s.Encode(context.Background(), domain.EncodeInput{Criteria: search.Criteria{crit("a", search.Title, "x", search.AND)}})
	if err != nil || out.URL != "" {
		t.Fatalf("Encode = %+v %v", out, err)
	}
}

func TestEncode_ClusterExclusive(t *testing.T) {
	s := New(&fakeInstances{}, "")
	_, err := s.Encode(context.Background(), domain.EncodeInput{Criteria: search.Criteria{
		crit("a", search.ClusterRecordID, "0192f7a4-0000-7000-8000-000000000001", search.AND),
		crit("b", search.Title, "x", search.AND),
	}})
	if err != search.ErrClusterExclusive {
		t.Fatalf("want ErrClusterExclusive, got %v", err)
	}
}

func TestDecode_ReportsDropped(t *testing.T) {
	s := New(&fakeInstances{}, "")
	p, err := s.Decode(context.Background(), `(@title moby) AND (bogus:1)`)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(p.Criteria) != 1 || p.Criteria[0].Field != search.Title || p.Criteria[0].Value != "moby" {
		t.Fatalf("criteria = %+v", p.Criteria)
	}
	if len(p.Dropped) != 1 || p.Dropped[0] != "bogus:1" {
		t.Fatalf("dropped = %v", p.Dropped)
	}
}

func TestSelectField(t *testing.T) {
	s := New(&fakeInstances{}, "")
	ctx := context.Background()
	list := search.Criteria{
		crit("a", search.Title, "x", search.AND),
		crit("b", search.Author, "0192f7a4-0000-7000-8000-000000000001", search.OR),
	}

	t.Run("cluster collapses the list", func(t *testing.T) {
		out, err := s.SelectField(ctx, domain.SelectFieldInput{Criteria: list, ID: "b", Field: search.ClusterRecordID})
		if err != nil {
			t.Fatalf("SelectField: %v", err)
		}
		if len(out.Criteria) != 1 || out.Criteria[0].ID != "b" || out.Criteria[0].Operator != search.AND {
			t.Fatalf("criteria = %+v", out.Criteria)
		}
		if out.Q != "(clusterRecordId:0192f7a4-0000-7000-8000-000000000001)" {
			t.Fatalf("q = %q", out.Q)
		}
	})

	t.Run("unknown id names the id field", func(t *testing.T) {
		_, err := s.SelectField(ctx, domain.SelectFieldInput{Criteria: list, ID: "zzz", Field: search.Title})
		e, ok := perr.As(err)
		if !ok || e.Field() != "id" || e.Code() != perr.ErrorCodeNotFound {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("other field beside a cluster fails", func(t *testing.T) {
		withCluster := search.Criteria{
			crit("a", search.ClusterRecordID, "0192f7a4-0000-7000-8000-000000000001", search.AND),
			crit("b", search.Title, "x", search.AND),
		}
		_, err := s.SelectField(ctx, domain.SelectFieldInput{Criteria: withCluster, ID: "b", Field: search.Author})
		e, ok := perr.As(err)
		if !ok || e.Field() != "field" {
			t.Fatalf("err = %v", err)
		}
	})
}

func TestGridFilterRoundTrip(t *testing.T) {
	s := New(&fakeInstances{}, "")
	ctx := context.Background()
	m, err := s.GridFilter(ctx, domain.GridFilterInput{Criteria: search.Criteria{
		crit("a", search.Title, "moby", search.AND),
		crit("b", search.Keyword, "whale", search.OR),
		crit("c", search.ISBN, "123", search.AND),
	}})
	if err != nil {
		t.Fatalf("GridFilter: %v", err)
	}
	if m.Logic() != gridfilter.Or || len(m.Items) != 2 {
		t.Fatalf("model = %+v", m)
	}
	back, err := s.FromGridFilter(ctx, domain.FromGridFilterInput{Model: m})
	if err != nil {
		t.Fatalf("FromGridFilter: %v", err)
	}
	if back.Q != "(@title moby) OR (@title whale)" {
		t.Fatalf("q = %q", back.Q)
	}
}

func TestResults(t *testing.T) {
	ctx := context.Background()

	t.Run("criteria are encoded with default limit", func(t *testing.T) {
		fi := &fakeInstances{}
		s := New(fi, "")
		out, err := s.Results(ctx, dcb.StaticToken("tok"), domain.ResultsInput{
			Criteria: search.Criteria{crit("a", search.Title, "moby", search.AND)},
		})
		if err != nil {
			t.Fatalf("Results: %v", err)
		}
		if fi.q != "(@title moby)" || fi.limit != DefaultLimit || fi.tok != "tok" {
			t.Fatalf("call = %+v", fi)
		}
		if out.Q != fi.q || out.TotalRecords != 1 {
			t.Fatalf("out = %+v", out)
		}
	})

	t.Run("q wins over criteria", func(t *testing.T) {
		fi := &fakeInstances{}
		s := New(fi, "")
		_, err := s.Results(ctx, dcb.StaticToken("tok"), domain.ResultsInput{
			Q:        "(@author melville)",
			Criteria: search.Criteria{crit("a", search.Title, "moby", search.AND)},
			Offset:   20,
			Limit:    5,
		})
		if err != nil || fi.q != "(@author melville)" || fi.offset != 20 || fi.limit != 5 {
			t.Fatalf("call = %+v err %v", fi, err)
		}
	})

	t.Run("empty search", func(t *testing.T) {
		s := New(&fakeInstances{}, "")
		_, err := s.Results(ctx, dcb.StaticToken("tok"), domain.ResultsInput{})
		e, ok := perr.As(err)
		if !ok || e.Field() != "criteria" {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("upstream error passes through", func(t *testing.T) {
		s := New(&fakeInstances{err: perr.Unavailablef("down")}, "")
		_, err := s.Results(ctx, dcb.StaticToken("tok"), domain.ResultsInput{Q: "(@title x)"})
		if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
			t.Fatalf("err = %v", err)
		}
	})
}

package service

import (
	"context"
	"testing"
	"time"

	"dcbadmin/internal/adapters/dcb"
	perr "dcbadmin/internal/platform/errors"
	"dcbadmin/internal/platform/store"
	"dcbadmin/internal/services/api/admin/domain"
	gridsvc "dcbadmin/internal/services/api/grid/service"
)

type fakeMutations struct {
	group  dcb.AgencyGroupInput
	member dcb.AgencyGroupMemberInput
	err    error
}

func (f *fakeMutations) CreateAgencyGroup(_ context.Context, _ dcb.TokenSource, in dcb.AgencyGroupInput) (dcb.AgencyGroup, error) {
	f.group = in
	return dcb.AgencyGroup{ID: "g1", Code: in.Code, Name: in.Name}, f.err
}

func (f *fakeMutations) AddAgencyToGroup(_ context.Context, _ dcb.TokenSource, in dcb.AgencyGroupMemberInput) (dcb.AgencyGroupMember, error) {
	f.member = in
	return dcb.AgencyGroupMember{ID: "m1", Agency: &dcb.Agency{Code: in.Agency}}, f.err
}

func (f *fakeMutations) CreateLibraryContact(_ context.Context, _ dcb.TokenSource, in dcb.LibraryContactInput) (dcb.Person, error) {
	return dcb.Person{ID: "p1", Email: in.Email}, f.err
}

func (f *fakeMutations) UpdateAgencyParticipationStatus(_ context.Context, _ dcb.TokenSource, in dcb.ParticipationInput) (dcb.Agency, error) {
	return dcb.Agency{ID: "a1", Code: in.Code, IsSupplyingAgency: in.IsSupplyingAgency}, f.err
}

var tok = dcb.StaticToken("t")

func cached(t *testing.T, c store.Cache, kind string) bool {
	t.Helper()
	_, ok, err := c.Get(context.Background(), gridsvc.PageKey("s1", kind))
	if err != nil {
		t.Fatalf("cache: %v", err)
	}
	return ok
}

func seed(t *testing.T, c store.Cache, kinds ...string) {
	t.Helper()
	for _, k := range kinds {
		if err := c.Set(context.Background(), gridsvc.PageKey("s1", k), []byte(`{}`), time.Minute); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func TestCreateGroup_TrimsAndDropsStalePages(t *testing.T) {
	fm, cache := &fakeMutations{}, store.NewMemoryCache()
	seed(t, cache, "agencyGroups", "agencies")
	s := New(fm, cache)

	g, err := s.CreateGroup(context.Background(), "s1", tok, dcb.AgencyGroupInput{Code: " G1 ", Name: " North "})
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	if fm.group.Code != "G1" || fm.group.Name != "North" || g.ID != "g1" {
		t.Fatalf("sent %+v got %+v", fm.group, g)
	}
	if cached(t, cache, "agencyGroups") {
		t.Fatal("agencyGroups page should be dropped")
	}
	if !cached(t, cache, "agencies") {
		t.Fatal("unrelated page should stay")
	}
}

func TestAddMember(t *testing.T) {
	fm := &fakeMutations{}
	s := New(fm, store.NewMemoryCache())

	if _, err := s.AddMember(context.Background(), "s1", tok, "  ", domain.MemberInput{Agency: "AG1"}); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("blank group: %v", err)
	}
	m, err := s.AddMember(context.Background(), "s1", tok, "G1", domain.MemberInput{Agency: "AG1"})
	if err != nil || fm.member.Group != "G1" || fm.member.Agency != "AG1" || m.ID != "m1" {
		t.Fatalf("AddMember = %+v %v (sent %+v)", m, err, fm.member)
	}
}

func TestUpdateParticipation(t *testing.T) {
	s := New(&fakeMutations{}, store.NewMemoryCache())
	ctx := context.Background()

	_, err := s.UpdateParticipation(ctx, "s1", tok, dcb.ParticipationInput{Code: "AG1", Reason: "r"})
	e, ok := perr.As(err)
	if !ok || e.Field() != "isSupplyingAgency" {
		t.Fatalf("err = %v", err)
	}

	yes := true
	a, err := s.UpdateParticipation(ctx, "s1", tok, dcb.ParticipationInput{Code: "AG1", Reason: "r", IsSupplyingAgency: &yes})
	if err != nil || a.IsSupplyingAgency == nil || !*a.IsSupplyingAgency {
		t.Fatalf("UpdateParticipation = %+v %v", a, err)
	}
}

func TestUpstreamErrorKeepsCache(t *testing.T) {
	cache := store.NewMemoryCache()
	seed(t, cache, "contacts")
	s := New(&fakeMutations{err: perr.Upstreamf("boom")}, cache)

	if _, err := s.CreateContact(context.Background(), "s1", tok, dcb.LibraryContactInput{Email: "a@b.org"}); !perr.IsCode(err, perr.ErrorCodeUpstream) {
		t.Fatalf("err = %v", err)
	}
	if !cached(t, cache, "contacts") {
		t.Fatal("a failed change must not drop pages")
	}
}

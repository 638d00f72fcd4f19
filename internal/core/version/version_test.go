package version

import "testing"

func TestInfo_PrefersLinkTimeValues(t *testing.T) {
	old := [3]string{version, commit, date}
	t.Cleanup(func() { version, commit, date = old[0], old[1], old[2] })
	version, commit, date = "v1.4.0", "abc123", "2026-10-15"

	got := Info()
	if got.Service != "dcb-admin-api" || got.Version != "v1.4.0" || got.Commit != "abc123" || got.Date != "2026-10-15" {
		t.Fatalf("got %+v", got)
	}
	if got.GoVersion == "" {
		t.Fatal("go version missing from test binary build info")
	}
	if UserAgent() != "dcb-admin-api/v1.4.0" {
		t.Fatalf("ua %q", UserAgent())
	}
}

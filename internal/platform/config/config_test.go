package config

import (
	"testing"
	"time"

	kit "dcbadmin/internal/platform/testkit"

	"github.com/google/go-cmp/cmp"
)

func TestPrefixesNest(t *testing.T) {
	c := New().Prefix("CORE_").Prefix("API_")
	if got := c.key("PORT"); got != "CORE_API_PORT" {
		t.Fatalf("key %q", got)
	}
}

func TestMustString(t *testing.T) {
	c := New().Prefix("OIDC_")
	t.Setenv("OIDC_CLIENT_ID", "  dcb-admin ")
	if got := c.MustString("CLIENT_ID"); got != "dcb-admin" {
		t.Fatalf("got %q", got)
	}
	t.Setenv("OIDC_BLANK", "   ")
	kit.MustPanic(t, func() { _ = c.MustString("BLANK") })
	kit.MustPanic(t, func() { _ = c.MustString("MISSING") })
}

func TestMustURL(t *testing.T) {
	c := New().Prefix("DCB_")
	t.Setenv("DCB_BASE_URL", "https://dcb.example.org/")
	if u := c.MustURL("BASE_URL"); u.Host != "dcb.example.org" {
		t.Fatalf("host %q", u.Host)
	}
	t.Setenv("DCB_REL", "/relative/path")
	kit.MustPanic(t, func() { _ = c.MustURL("REL") })
	t.Setenv("DCB_BAD", "http://[::1")
	kit.MustPanic(t, func() { _ = c.MustURL("BAD") })
}

func TestMayGetters(t *testing.T) {
	c := New().Prefix("T_")
	t.Setenv("T_NAME", " grid ")
	t.Setenv("T_SIZE", "25")
	t.Setenv("T_ON", "true")
	t.Setenv("T_TTL", "90s")
	t.Setenv("T_RATE", "2.5")

	if c.MayString("NAME", "x") != "grid" || c.MayString("NONE", "x") != "x" {
		t.Fatal("MayString")
	}
	if c.MayInt("SIZE", 10) != 25 || c.MayInt("NONE", 10) != 10 {
		t.Fatal("MayInt")
	}
	if !c.MayBool("ON", false) || c.MayBool("NONE", true) != true {
		t.Fatal("MayBool")
	}
	if c.MayDuration("TTL", time.Second) != 90*time.Second || c.MayDuration("NONE", time.Second) != time.Second {
		t.Fatal("MayDuration")
	}
	if c.MayFloat("RATE", 1) != 2.5 || c.MayFloat("NONE", 1) != 1 {
		t.Fatal("MayFloat")
	}
}

func TestMayGetters_MalformedFallsBack(t *testing.T) {
	c := New().Prefix("T_")
	t.Setenv("T_SIZE", "lots")
	t.Setenv("T_ON", "sure")
	t.Setenv("T_TTL", "5 minutes")
	if c.MayInt("SIZE", 10) != 10 || !c.MayBool("ON", true) || c.MayDuration("TTL", time.Minute) != time.Minute {
		t.Fatal("malformed values should use the default")
	}
}

func TestMayCSV(t *testing.T) {
	c := New().Prefix("CORE_API_")
	def := []string{"ADMIN"}

	t.Setenv("CORE_API_ADMIN_ROLES", " ADMIN, ,CONSORTIUM_ADMIN ,")
	if diff := cmp.Diff([]string{"ADMIN", "CONSORTIUM_ADMIN"}, c.MayCSV("ADMIN_ROLES", def)); diff != "" {
		t.Fatalf("roles (-want +got):\n%s", diff)
	}
	t.Setenv("CORE_API_EMPTY", " , ,")
	if diff := cmp.Diff(def, c.MayCSV("EMPTY", def)); diff != "" {
		t.Fatalf("empty (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(def, c.MayCSV("NONE", def)); diff != "" {
		t.Fatalf("missing (-want +got):\n%s", diff)
	}
}

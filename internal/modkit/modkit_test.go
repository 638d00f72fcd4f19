package modkit

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dcbadmin/internal/modkit/httpkit"
	phttp "dcbadmin/internal/platform/net/http"
	kit "dcbadmin/internal/platform/testkit"

	"github.com/go-chi/chi/v5"
)

func tag(log *[]string, name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*log = append(*log, name)
			next.ServeHTTP(w, r)
		})
	}
}

func serve(t *testing.T, m Module, path string) *httptest.ResponseRecorder {
	t.Helper()
	r := phttp.AdaptChi(chi.NewRouter())
	m.MountRoutes(r)
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestBuild_CopiesMiddlewares(t *testing.T) {
	var log []string
	mws := []func(http.Handler) http.Handler{tag(&log, "a")}
	b := Build(WithName("grid"), WithPrefix("/grid"), WithMiddlewares(mws...), WithMiddlewares(tag(&log, "b")))

	mws[0] = nil
	if len(b.Mw) != 2 || b.Mw[0] == nil {
		t.Fatalf("middlewares not copied: %d", len(b.Mw))
	}
	if b.Name != "grid" || b.Prefix != "/grid" || b.Ports != nil || b.Register != nil {
		t.Fatalf("built %+v", b)
	}
}

func TestWithPorts_KeepsConcreteType(t *testing.T) {
	type ports struct{ N int }
	b := Build(WithPorts(ports{N: 7}))
	if p, ok := b.Ports.(ports); !ok || p.N != 7 {
		t.Fatalf("ports %T %+v", b.Ports, b.Ports)
	}
}

func TestModule_MountsUnderPrefixWithMiddlewaresInOrder(t *testing.T) {
	var log []string
	b := Build(
		WithName("reports"),
		WithPrefix(" reports/ "),
		WithMiddlewares(tag(&log, "a"), tag(&log, "b")),
		WithRegister(func(r phttp.Router) {
			httpkit.Get(r, "/extra", func(*http.Request) (any, error) { return "extra", nil })
		}),
	)
	m := b.Module("exported", func(r httpkit.Router) {
		httpkit.Get(r, "/bib-counts", func(*http.Request) (any, error) {
			log = append(log, "handler")
			return 1, nil
		})
	})

	if m.Name() != "reports" || m.Ports() != "exported" {
		t.Fatalf("module %q %v", m.Name(), m.Ports())
	}
	if rec := serve(t, m, "/reports/bib-counts"); rec.Code != http.StatusOK {
		t.Fatalf("own route: %d", rec.Code)
	}
	if got := strings.Join(log, ","); got != "a,b,handler" {
		t.Fatalf("order %s", got)
	}
	if rec := serve(t, m, "/reports/extra"); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "extra") {
		t.Fatalf("register hook: %d %s", rec.Code, rec.Body.String())
	}
	if rec := serve(t, m, "/bib-counts"); rec.Code != http.StatusNotFound {
		t.Fatalf("route leaked outside prefix: %d", rec.Code)
	}
}

func TestModule_RequiresNameAndPrefix(t *testing.T) {
	kit.MustPanic(t, func() { Build(WithPrefix("/x")).Module(nil, nil) })
	kit.MustPanic(t, func() { Build(WithName("x"), WithPrefix(" / ")).Module(nil, nil) })
	kit.MustNotPanic(t, func() { Build(WithName("x"), WithPrefix("x")).Module(nil, nil) })
}

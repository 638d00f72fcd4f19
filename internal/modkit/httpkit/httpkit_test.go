package httpkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perrs "dcbadmin/internal/platform/errors"
	phttp "dcbadmin/internal/platform/net/http"
	pnet "dcbadmin/internal/platform/net"

	"github.com/go-chi/chi/v5"
)

type encodeIn struct {
	Field string `json:"field" validate:"required"`
	Value string `json:"value"`
}

func newRouter() Router { return phttp.AdaptChi(chi.NewRouter()) }

func do(t *testing.T, r Router, method, path, body string) (int, Envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	}
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "tok"})
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, req)
	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: body %q: %v", method, path, rec.Body.String(), err)
	}
	return rec.Code, env
}

func TestPostJSON_DecodesValidatesAndWraps(t *testing.T) {
	r := newRouter()
	PostJSON(r, "/encode", func(_ *http.Request, in encodeIn) (any, error) {
		return in.Field + "=" + in.Value, nil
	})

	code, env := do(t, r, http.MethodPost, "/encode", `{"field":"title","value":"moby"}`)
	if code != http.StatusOK || env.Data != "title=moby" {
		t.Fatalf("ok: %d %+v", code, env)
	}

	code, env = do(t, r, http.MethodPost, "/encode", `{"value":"moby"}`)
	if code != http.StatusBadRequest || env.Field != "field" {
		t.Fatalf("validation: %d %+v", code, env)
	}

	code, env = do(t, r, http.MethodPost, "/encode", `{"field":"title","op":"x"}`)
	if code != http.StatusBadRequest || env.Code != perrs.ErrorCodeJSON {
		t.Fatalf("unknown field: %d %+v", code, env)
	}
}

func TestPostJSON_HandlerPicksStatus(t *testing.T) {
	r := newRouter()
	PostJSON(r, "/groups", func(_ *http.Request, in encodeIn) (any, error) {
		return Created(in.Field), nil
	})
	PostJSON(r, "/fail", func(_ *http.Request, _ encodeIn) (any, error) {
		return nil, perrs.Conflictf("group exists")
	})

	if code, env := do(t, r, http.MethodPost, "/groups", `{"field":"g1"}`); code != http.StatusCreated || env.Data != "g1" {
		t.Fatalf("created: %d %+v", code, env)
	}
	if code, env := do(t, r, http.MethodPost, "/fail", `{"field":"g1"}`); code != http.StatusConflict || env.Error != "group exists" {
		t.Fatalf("conflict: %d %+v", code, env)
	}
}

func TestGetAndPost_Bodyless(t *testing.T) {
	r := newRouter()
	Get(r, "/grids/{kind}/rows/{id}", func(req *http.Request) (any, error) {
		return Param(req, "kind") + "/" + Param(req, "id"), nil
	})
	Post(r, "/refresh", func(*http.Request) (any, error) { return nil, perrs.Unauthorizedf("expired") })

	if code, env := do(t, r, http.MethodGet, "/grids/agencies/rows/7", ""); code != http.StatusOK || env.Data != "agencies/7" {
		t.Fatalf("get: %d %+v", code, env)
	}
	if code, _ := do(t, r, http.MethodPost, "/refresh", ""); code != http.StatusUnauthorized {
		t.Fatalf("post: %d", code)
	}
}

type stubAuth struct{ err error }

func (s stubAuth) Parse(r *http.Request) (string, string, error) {
	if s.err != nil {
		return "", "", s.err
	}
	c, _ := r.Cookie(SessionCookie)
	return "user-1", "sess-" + c.Value, nil
}

func TestProtected_PutsSessionOnContext(t *testing.T) {
	r := newRouter()
	Get(r, "/login", func(req *http.Request) (any, error) {
		_, err := Session(req)
		return "public", err
	})
	Protected(r, stubAuth{}, func(pr Router) {
		Get(pr, "/me", func(req *http.Request) (any, error) { return Session(req) })
	})

	if code, env := do(t, r, http.MethodGet, "/me", ""); code != http.StatusOK || env.Data != "sess-tok" {
		t.Fatalf("me: %d %+v", code, env)
	}
	if code, _ := do(t, r, http.MethodGet, "/login", ""); code != http.StatusUnauthorized {
		t.Fatalf("public route saw a session: %d", code)
	}

	denied := newRouter()
	Protected(denied, stubAuth{err: perrs.Unauthorizedf("bad token")}, func(pr Router) {
		Get(pr, "/me", func(*http.Request) (any, error) {
			t.Fatal("handler ran without a session")
			return nil, nil
		})
	})
	if code, _ := do(t, denied, http.MethodGet, "/me", ""); code != http.StatusUnauthorized {
		t.Fatalf("denied: %d", code)
	}
}

func TestMountAPI_PrefixesAndAppliesMiddleware(t *testing.T) {
	r := newRouter()
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("X-Api", "1")
			next.ServeHTTP(w, req)
		})
	}
	MountAPIV1(r, []func(http.Handler) http.Handler{mw}, func(api Router) {
		Get(api, "/meta/health", func(*http.Request) (any, error) { return "ok", nil })
	})
	MountAPI(r, "/v2/", nil, func(api Router) {
		Get(api, "/meta/health", func(*http.Request) (any, error) { return "v2", nil })
	})

	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/meta/health", nil))
	if rec.Code != http.StatusOK || rec.Header().Get("X-Api") != "1" {
		t.Fatalf("v1: %d %v", rec.Code, rec.Header())
	}
	if code, env := do(t, r, http.MethodGet, "/api/v2/meta/health", ""); code != http.StatusOK || env.Data != "v2" {
		t.Fatalf("v2: %d %+v", code, env)
	}
}

func TestSession_MissingIsUnauthorized(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, err := Session(req); !perrs.IsCode(err, perrs.ErrorCodeUnauthorized) {
		t.Fatalf("got %v", err)
	}
	req = req.WithContext(pnet.WithRequest(req.Context(), "", "s1"))
	if sid, err := Session(req); err != nil || sid != "s1" {
		t.Fatalf("got %q %v", sid, err)
	}
}

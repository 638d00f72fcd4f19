package swaggerkit

import (
	"encoding/json"
	"net/http"
	"slices"
	"strings"
	"sync"

	"dcbadmin/internal/core/version"

	"github.com/go-chi/chi/v5"
)

// apiBase is where versioned routes live; only those are documented
const apiBase = "/api/v1"

// publicTags are route groups reachable without a session
var publicTags = []string{"meta", "session"}

type document struct {
	OpenAPI    string                          `json:"openapi"`
	Info       info                            `json:"info"`
	Servers    []server                        `json:"servers"`
	Paths      map[string]map[string]operation `json:"paths"`
	Components components                      `json:"components"`
}

type info struct {
	Title       string `json:"title"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

type server struct {
	URL string `json:"url"`
}

type operation struct {
	Tags        []string              `json:"tags"`
	OperationID string                `json:"operationId"`
	Parameters  []parameter           `json:"parameters,omitempty"`
	Security    []map[string][]string `json:"security,omitempty"`
	Responses   map[string]response   `json:"responses"`
}

type parameter struct {
	Name     string            `json:"name"`
	In       string            `json:"in"`
	Required bool              `json:"required"`
	Schema   map[string]string `json:"schema"`
}

type response struct {
	Description string               `json:"description"`
	Content     map[string]mediaType `json:"content,omitempty"`
}

type mediaType struct {
	Schema  map[string]string `json:"schema"`
	Example map[string]any    `json:"example,omitempty"`
}

type components struct {
	Schemas         map[string]any `json:"schemas"`
	SecuritySchemes map[string]any `json:"securitySchemes"`
}

// specFor walks the mounted routes on first use and caches the document
func specFor(routes chi.Routes) func() document {
	var (
		once sync.Once
		doc  document
	)
	return func() document {
		once.Do(func() { doc = build(routes) })
		return doc
	}
}

func build(routes chi.Routes) document {
	doc := document{
		OpenAPI: "3.0.3",
		Info: info{
			Title:       "DCB Admin API",
			Version:     version.Info().Version,
			Description: "Backend for the DCB hub admin dashboard",
		},
		Servers: []server{{URL: apiBase}},
		Paths:   map[string]map[string]operation{},
		Components: components{
			Schemas: map[string]any{"ErrorResponse": envelopeSchema},
			SecuritySchemes: map[string]any{
				"sessionCookie": map[string]string{"type": "apiKey", "in": "cookie", "name": "dcb_admin_session"},
				"sessionBearer": map[string]string{"type": "http", "scheme": "bearer"},
			},
		},
	}
	if routes == nil {
		return doc
	}
	_ = chi.Walk(routes, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		if rel, ok := strings.CutPrefix(route, apiBase+"/"); ok {
			addOperation(doc.Paths, method, "/"+rel)
		}
		return nil
	})
	return doc
}

// addOperation records one route; chi leaves a trailing /* on mounted subrouters
func addOperation(paths map[string]map[string]operation, method, route string) {
	route = strings.TrimSuffix(strings.TrimSuffix(route, "/*"), "/")
	if route == "" {
		return
	}
	tag, _, _ := strings.Cut(strings.TrimPrefix(route, "/"), "/")
	op := operation{
		Tags:        []string{tag},
		OperationID: operationID(method, route),
		Parameters:  pathParams(route),
		Responses: map[string]response{
			"200": {Description: "OK"},
			"400": errorResponse("Bad Request", 400, 8, "agency is a required field", "agency"),
			"500": errorResponse("Internal Server Error", 500, 1, "panic recovered", ""),
		},
	}
	if !slices.Contains(publicTags, tag) {
		op.Security = []map[string][]string{{"sessionCookie": {}}, {"sessionBearer": {}}}
		op.Responses["401"] = errorResponse("Unauthorized", 401, 5, "no session", "")
	}
	if paths[route] == nil {
		paths[route] = map[string]operation{}
	}
	paths[route][strings.ToLower(method)] = op
}

// operationID turns GET /grid/{kind} into getGridKind
func operationID(method, route string) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(method))
	for _, seg := range strings.Split(route, "/") {
		if seg = strings.Trim(seg, "{}"); seg != "" {
			b.WriteString(strings.ToUpper(seg[:1]) + seg[1:])
		}
	}
	return b.String()
}

func pathParams(route string) []parameter {
	var out []parameter
	for _, seg := range strings.Split(route, "/") {
		if name, ok := strings.CutPrefix(seg, "{"); ok && strings.HasSuffix(name, "}") {
			out = append(out, parameter{
				Name:     strings.TrimSuffix(name, "}"),
				In:       "path",
				Required: true,
				Schema:   map[string]string{"type": "string"},
			})
		}
	}
	return out
}

// envelopeSchema mirrors the error half of the response envelope
var envelopeSchema = map[string]any{
	"type":        "object",
	"description": "Error envelope",
	"required":    []string{"status_code", "status"},
	"properties": map[string]any{
		"status_code": map[string]string{"type": "integer", "format": "int32"},
		"status":      map[string]string{"type": "string"},
		"code":        map[string]string{"type": "integer", "format": "int32"},
		"error":       map[string]string{"type": "string"},
		"field":       map[string]string{"type": "string"},
		"request_id":  map[string]string{"type": "string"},
	},
}

func errorResponse(desc string, status, code int, msg, field string) response {
	example := map[string]any{
		"status_code": status,
		"status":      desc,
		"code":        code,
		"error":       msg,
		"request_id":  "host/abc-000001",
	}
	if field != "" {
		example["field"] = field
	}
	return response{
		Description: desc,
		Content: map[string]mediaType{"application/json": {
			Schema:  map[string]string{"$ref": "#/components/schemas/ErrorResponse"},
			Example: example,
		}},
	}
}

// serveDocJSON serves the generated document
func serveDocJSON(spec func() document) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(spec())
	}
}

// Package swaggerkit serves Swagger UI and an OpenAPI document built from the mounted routes
package swaggerkit

import (
	"net/http"

	phttp "dcbadmin/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Mount the Swagger UI and JSON spec if enabled
// the document is built on first request so routes mounted after this call are included
func Mount(r phttp.Router, enabled bool) {
	if !enabled {
		return
	}
	routes, _ := r.Mux().(chi.Routes)
	r.Get("/api/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/docs/", http.StatusPermanentRedirect)
	})
	r.Get("/api/docs/doc.json", serveDocJSON(specFor(routes)))
	r.Handle("/api/docs/*", httpSwagger.Handler(
		httpSwagger.InstanceName("api"),
		httpSwagger.URL("/api/docs/doc.json"),
	))
}

// Package http provides http transport for grids
package http

import (
	stdhttp "net/http"

	"dcbadmin/internal/adapters/dcb"
	"dcbadmin/internal/modkit/httpkit"
	"dcbadmin/internal/platform/net/middleware"
	"dcbadmin/internal/services/api/grid/domain"
	svc "dcbadmin/internal/services/api/grid/service"
)

// Deps are the handler dependencies
type Deps struct {
	Svc    svc.Service
	Auth   middleware.AuthPort
	Tokens func(sessionID string) dcb.TokenSource
}

type handlers struct {
	svc    svc.Service
	tokens func(string) dcb.TokenSource
}

// Register mounts grid endpoints; the kind list is public, pages need a session
func Register(r httpkit.Router, d Deps) {
	h := &handlers{svc: d.Svc, tokens: d.Tokens}

	httpkit.Get(r, "/kinds", h.kinds)

	httpkit.Protected(r, d.Auth, func(pr httpkit.Router) {
		httpkit.PostJSON[domain.PageRequest](pr, "/{kind}", h.page)
		httpkit.Get(pr, "/{kind}/rows/{id}", h.row)
		httpkit.Get(pr, "/{kind}/records/{id}", h.record)
	})
}

// swagger:route GET /grid/kinds Grid gridKinds
// @Summary List the grids on offer
// @Tags Grid
// @Produce json
// @Success 200 {array} gridquery.Kind "ok"
// @Router /grid/kinds [get]
func (h *handlers) kinds(r *stdhttp.Request) (any, error) {
	return h.svc.Kinds(r.Context()), nil
}

// swagger:route POST /grid/{kind} Grid gridPage
// @Summary Apply a grid interaction and load the page
// @Tags Grid
// @Accept json
// @Produce json
// @Param kind path string true "Grid kind"
// @Param payload body domain.PageRequest true "Interaction"
// @Success 200 {object} domain.PageResponse "ok"
// @Failure 409 {object} httpkit.Envelope "superseded by a newer request"
// @Router /grid/{kind} [post]
func (h *handlers) page(r *stdhttp.Request, in domain.PageRequest) (any, error) {
	sid, err := httpkit.Session(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Page(r.Context(), sid, h.tokens(sid), httpkit.Param(r, "kind"), in)
}

// swagger:route GET /grid/{kind}/rows/{id} Grid gridRow
// @Summary Read a row of the loaded page for the detail panel
// @Tags Grid
// @Produce json
// @Param kind path string true "Grid kind"
// @Param id path string true "Row id"
// @Success 200 {object} object "ok"
// @Router /grid/{kind}/rows/{id} [get]
func (h *handlers) row(r *stdhttp.Request) (any, error) {
	sid, err := httpkit.Session(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Row(r.Context(), sid, httpkit.Param(r, "kind"), httpkit.Param(r, "id"))
}

// swagger:route GET /grid/{kind}/records/{id} Grid gridRecord
// @Summary Fetch one record upstream
// @Tags Grid
// @Produce json
// @Param kind path string true "Grid kind"
// @Param id path string true "Record id"
// @Success 200 {object} object "ok"
// @Router /grid/{kind}/records/{id} [get]
func (h *handlers) record(r *stdhttp.Request) (any, error) {
	sid, err := httpkit.Session(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Record(r.Context(), h.tokens(sid), httpkit.Param(r, "kind"), httpkit.Param(r, "id"))
}

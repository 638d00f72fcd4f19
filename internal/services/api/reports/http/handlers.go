// Package http provides http transport for reports
package http

import (
	stdhttp "net/http"

	"dcbadmin/internal/adapters/dcb"
	"dcbadmin/internal/modkit/httpkit"
	"dcbadmin/internal/platform/net/middleware"
	svc "dcbadmin/internal/services/api/reports/service"
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

// Register mounts report endpoints behind session auth
func Register(r httpkit.Router, d Deps) {
	h := &handlers{svc: d.Svc, tokens: d.Tokens}
	httpkit.Protected(r, d.Auth, func(pr httpkit.Router) {
		httpkit.Get(pr, "/info", h.info)
		httpkit.Get(pr, "/bib-counts", h.bibCounts)
		httpkit.Get(pr, "/errors/{report}", h.errors)
	})
}

func (h *handlers) source(r *stdhttp.Request) (dcb.TokenSource, error) {
	sid, err := httpkit.Session(r)
	if err != nil {
		return nil, err
	}
	return h.tokens(sid), nil
}

// swagger:route GET /reports/info Reports reportsInfo
// @Summary DCB build and git metadata
// @Tags Reports
// @Produce json
// @Success 200 {object} dcb.ServiceInfo "ok"
// @Router /reports/info [get]
func (h *handlers) info(r *stdhttp.Request) (any, error) {
	ts, err := h.source(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Info(r.Context(), ts)
}

// swagger:route GET /reports/bib-counts Reports reportsBibCounts
// @Summary Source bibs per host system
// @Tags Reports
// @Produce json
// @Success 200 {object} domain.BibCounts "ok"
// @Router /reports/bib-counts [get]
func (h *handlers) bibCounts(r *stdhttp.Request) (any, error) {
	ts, err := h.source(r)
	if err != nil {
		return nil, err
	}
	return h.svc.BibCounts(r.Context(), ts)
}

// swagger:route GET /reports/errors/{report} Reports reportsErrors
// @Summary A named error overview report
// @Tags Reports
// @Produce json
// @Param report path string true "Report name"
// @Success 200 {array} dcb.ErrorCount "ok"
// @Router /reports/errors/{report} [get]
func (h *handlers) errors(r *stdhttp.Request) (any, error) {
	ts, err := h.source(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Errors(r.Context(), ts, httpkit.Param(r, "report"))
}

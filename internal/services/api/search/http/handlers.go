// Package http provides http transport for search
package http

import (
	stdhttp "net/http"

	"dcbadmin/internal/adapters/dcb"
	"dcbadmin/internal/modkit/httpkit"
	"dcbadmin/internal/platform/net/middleware"
	"dcbadmin/internal/services/api/search/domain"
	svc "dcbadmin/internal/services/api/search/service"
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

// Register mounts search endpoints; the codec routes are public, results need a session
func Register(r httpkit.Router, d Deps) {
	h := &handlers{svc: d.Svc, tokens: d.Tokens}

	httpkit.PostJSON[domain.EncodeInput](r, "/encode", h.encode)
	httpkit.Get(r, "/decode", h.decode)
	httpkit.PostJSON[domain.SelectFieldInput](r, "/select-field", h.selectField)
	httpkit.PostJSON[domain.GridFilterInput](r, "/grid-filter", h.gridFilter)
	httpkit.PostJSON[domain.FromGridFilterInput](r, "/from-grid-filter", h.fromGridFilter)

	httpkit.Protected(r, d.Auth, func(pr httpkit.Router) {
		httpkit.PostJSON[domain.ResultsInput](pr, "/results", h.results)
	})
}

// swagger:route POST /search/encode Search searchEncode
// @Summary Serialise criteria into a query string
// @Tags Search
// @Accept json
// @Produce json
// @Param payload body domain.EncodeInput true "Criteria"
// @Success 200 {object} domain.EncodeResponse "ok"
// @Router /search/encode [post]
func (h *handlers) encode(r *stdhttp.Request, in domain.EncodeInput) (any, error) {
	return h.svc.Encode(r.Context(), in)
}

// swagger:route GET /search/decode Search searchDecode
// @Summary Parse a query string back into criteria
// @Tags Search
// @Produce json
// @Param q query string true "Query string"
// @Success 200 {object} search.Parsed "ok"
// @Router /search/decode [get]
func (h *handlers) decode(r *stdhttp.Request) (any, error) {
	return h.svc.Decode(r.Context(), r.URL.Query().Get("q"))
}

// swagger:route POST /search/select-field Search searchSelectField
// @Summary Change the field of one criterion
// @Tags Search
// @Accept json
// @Produce json
// @Param payload body domain.SelectFieldInput true "Edit"
// @Success 200 {object} domain.CriteriaResponse "ok"
// @Router /search/select-field [post]
func (h *handlers) selectField(r *stdhttp.Request, in domain.SelectFieldInput) (any, error) {
	return h.svc.SelectField(r.Context(), in)
}

// swagger:route POST /search/grid-filter Search searchGridFilter
// @Summary Map criteria onto a grid filter model
// @Tags Search
// @Accept json
// @Produce json
// @Param payload body domain.GridFilterInput true "Criteria"
// @Success 200 {object} gridfilter.Model "ok"
// @Router /search/grid-filter [post]
func (h *handlers) gridFilter(r *stdhttp.Request, in domain.GridFilterInput) (any, error) {
	return h.svc.GridFilter(r.Context(), in)
}

// swagger:route POST /search/from-grid-filter Search searchFromGridFilter
// @Summary Map a grid filter model back onto criteria
// @Tags Search
// @Accept json
// @Produce json
// @Param payload body domain.FromGridFilterInput true "Model"
// @Success 200 {object} domain.CriteriaResponse "ok"
// @Router /search/from-grid-filter [post]
func (h *handlers) fromGridFilter(r *stdhttp.Request, in domain.FromGridFilterInput) (any, error) {
	return h.svc.FromGridFilter(r.Context(), in)
}

// swagger:route POST /search/results Search searchResults
// @Summary Run a discovery search
// @Tags Search
// @Accept json
// @Produce json
// @Param payload body domain.ResultsInput true "Search"
// @Success 200 {object} domain.ResultsResponse "ok"
// @Router /search/results [post]
func (h *handlers) results(r *stdhttp.Request, in domain.ResultsInput) (any, error) {
	sid, err := httpkit.Session(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Results(r.Context(), h.tokens(sid), in)
}

// Package http provides http transport for the admin forms
package http

import (
	stdhttp "net/http"

	"dcbadmin/internal/adapters/dcb"
	"dcbadmin/internal/modkit/httpkit"
	"dcbadmin/internal/platform/net/middleware"
	"dcbadmin/internal/services/api/admin/domain"
	svc "dcbadmin/internal/services/api/admin/service"
)

// Deps are the handler dependencies
type Deps struct {
	Svc    svc.Service
	Auth   middleware.AuthPort
	Roles  httpkit.RolePort
	Tokens func(sessionID string) dcb.TokenSource
	// Allowed are the realm roles that may use the forms
	Allowed []string
}

type handlers struct {
	svc    svc.Service
	tokens func(string) dcb.TokenSource
}

// Register mounts the admin forms; every route needs a session holding an allowed role
func Register(r httpkit.Router, d Deps) {
	h := &handlers{svc: d.Svc, tokens: d.Tokens}

	httpkit.Protected(r, d.Auth, func(pr httpkit.Router) {
		pr.Use(httpkit.RequireRole(d.Roles, d.Allowed...))
		httpkit.PostJSON[dcb.AgencyGroupInput](pr, "/groups", h.createGroup)
		httpkit.PostJSON[domain.MemberInput](pr, "/groups/{id}/members", h.addMember)
		httpkit.PostJSON[dcb.LibraryContactInput](pr, "/contacts", h.createContact)
		httpkit.PostJSON[dcb.ParticipationInput](pr, "/participation", h.participation)
	})
}

// session returns the caller's session id and DCB token source
func (h *handlers) session(r *stdhttp.Request) (string, dcb.TokenSource, error) {
	sid, err := httpkit.Session(r)
	if err != nil {
		return "", nil, err
	}
	return sid, h.tokens(sid), nil
}

// swagger:route POST /admin/groups Admin adminCreateGroup
// @Summary Create an agency group
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body dcb.AgencyGroupInput true "Group"
// @Success 201 {object} dcb.AgencyGroup "created"
// @Failure 400 {object} httpkit.Envelope "field-level validation error"
// @Router /admin/groups [post]
func (h *handlers) createGroup(r *stdhttp.Request, in dcb.AgencyGroupInput) (any, error) {
	sid, tokens, err := h.session(r)
	if err != nil {
		return nil, err
	}
	g, err := h.svc.CreateGroup(r.Context(), sid, tokens, in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(g), nil
}

// swagger:route POST /admin/groups/{id}/members Admin adminAddMember
// @Summary Add an agency to a group
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Group code"
// @Param payload body domain.MemberInput true "Agency"
// @Success 201 {object} dcb.AgencyGroupMember "created"
// @Router /admin/groups/{id}/members [post]
func (h *handlers) addMember(r *stdhttp.Request, in domain.MemberInput) (any, error) {
	sid, tokens, err := h.session(r)
	if err != nil {
		return nil, err
	}
	m, err := h.svc.AddMember(r.Context(), sid, tokens, httpkit.Param(r, "id"), in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(m), nil
}

// swagger:route POST /admin/contacts Admin adminCreateContact
// @Summary Add a contact to a library
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body dcb.LibraryContactInput true "Contact"
// @Success 201 {object} dcb.Person "created"
// @Router /admin/contacts [post]
func (h *handlers) createContact(r *stdhttp.Request, in dcb.LibraryContactInput) (any, error) {
	sid, tokens, err := h.session(r)
	if err != nil {
		return nil, err
	}
	p, err := h.svc.CreateContact(r.Context(), sid, tokens, in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(p), nil
}

// swagger:route POST /admin/participation Admin adminParticipation
// @Summary Change whether an agency supplies or borrows
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body dcb.ParticipationInput true "Participation"
// @Success 200 {object} dcb.Agency "ok"
// @Router /admin/participation [post]
func (h *handlers) participation(r *stdhttp.Request, in dcb.ParticipationInput) (any, error) {
	sid, tokens, err := h.session(r)
	if err != nil {
		return nil, err
	}
	return h.svc.UpdateParticipation(r.Context(), sid, tokens, in)
}

// Package http provides the session endpoints
package http

import (
	stdhttp "net/http"

	"dcbadmin/internal/modkit/httpkit"
	"dcbadmin/internal/platform/net/middleware"
	"dcbadmin/internal/services/api/session/domain"
	svc "dcbadmin/internal/services/api/session/service"
)

// Deps are the handler dependencies
type Deps struct {
	Svc    svc.Service
	Port   *httpkit.Port
	Cookie CookieOptions
}

// CookieOptions shape the session cookie
type CookieOptions struct {
	Name   string
	Secure bool
	Path   string
}

type handlers struct {
	svc    svc.Service
	port   *httpkit.Port
	cookie CookieOptions
}

// Register mounts the session routes; login, callback and logout are public
func Register(r httpkit.Router, d Deps, auth middleware.AuthPort) {
	if d.Cookie.Name == "" {
		d.Cookie.Name = httpkit.SessionCookie
	}
	if d.Cookie.Path == "" {
		d.Cookie.Path = "/"
	}
	h := &handlers{svc: d.Svc, port: d.Port, cookie: d.Cookie}

	httpkit.Get(r, "/login", h.login)
	r.Get("/callback", httpkit.Handle(h.callback))
	r.Post("/logout", httpkit.Handle(h.logout))

	httpkit.Protected(r, auth, func(pr httpkit.Router) {
		httpkit.Get(pr, "/me", h.me)
		httpkit.Post(pr, "/refresh", h.refresh)
	})
}

func (h *handlers) setCookie(value string, maxAge int) stdhttp.Header {
	c := &stdhttp.Cookie{
		Name:     h.cookie.Name,
		Value:    value,
		Path:     h.cookie.Path,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: stdhttp.SameSiteLaxMode,
		MaxAge:   maxAge,
	}
	return stdhttp.Header{"Set-Cookie": []string{c.String()}}
}

// swagger:route GET /session/login Session sessionLogin
// @Summary Start the sign-in redirect
// @Tags Session
// @Produce json
// @Param return_to query string false "Path to return to after sign-in"
// @Success 200 {object} domain.LoginResponse "ok"
// @Router /session/login [get]
func (h *handlers) login(r *stdhttp.Request) (any, error) {
	return h.svc.Login(r.Context(), r.URL.Query().Get("return_to"))
}

// swagger:route GET /session/callback Session sessionCallback
// @Summary Finish sign-in and set the session cookie
// @Tags Session
// @Produce json
// @Param state query string true "Login state"
// @Param code query string true "Authorization code"
// @Success 200 {object} domain.CallbackResponse "ok"
// @Router /session/callback [get]
func (h *handlers) callback(r *stdhttp.Request) httpkit.Response {
	q := r.URL.Query()
	sess, returnTo, err := h.svc.Callback(r.Context(), q.Get("state"), q.Get("code"))
	if err != nil {
		return httpkit.Error(err)
	}
	resp := httpkit.OK(domain.CallbackResponse{Me: svc.ToMe(sess), ReturnTo: returnTo})
	resp.Header = h.setCookie(sess.ID, 0)
	return resp
}

// swagger:route POST /session/logout Session sessionLogout
// @Summary End the session and get the provider logout URL
// @Tags Session
// @Produce json
// @Success 200 {object} domain.LogoutResponse "ok"
// @Router /session/logout [post]
func (h *handlers) logout(r *stdhttp.Request) httpkit.Response {
	token, _ := h.port.Token(r)
	out, err := h.svc.Logout(r.Context(), token)
	if err != nil {
		return httpkit.Error(err)
	}
	resp := httpkit.OK(out)
	resp.Header = h.setCookie("", -1)
	return resp
}

// swagger:route GET /session/me Session sessionMe
// @Summary Describe the signed-in user
// @Tags Session
// @Produce json
// @Success 200 {object} domain.Me "ok"
// @Router /session/me [get]
func (h *handlers) me(r *stdhttp.Request) (any, error) {
	id, err := httpkit.Session(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Me(r.Context(), id)
}

// swagger:route POST /session/refresh Session sessionRefresh
// @Summary Refresh the session tokens now
// @Tags Session
// @Produce json
// @Success 200 {object} domain.Me "ok"
// @Router /session/refresh [post]
func (h *handlers) refresh(r *stdhttp.Request) (any, error) {
	id, err := httpkit.Session(r)
	if err != nil {
		return nil, err
	}
	sess, err := h.svc.Refresh(r.Context(), id)
	if err != nil {
		return nil, err
	}
	return svc.ToMe(sess), nil
}

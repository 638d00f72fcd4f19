package httpkit

import "dcbadmin/internal/platform/net/middleware"

// Protected mounts fn's routes behind session auth
// the routes stay at the same path; only the middleware stack differs
func Protected(r Router, p middleware.AuthPort, fn func(Router)) {
	r.Group(func(gr Router) {
		gr.Use(Auth(p))
		fn(gr)
	})
}

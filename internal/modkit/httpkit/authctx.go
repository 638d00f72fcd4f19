package httpkit

import (
	"net/http"

	perrs "dcbadmin/internal/platform/errors"
	pnet "dcbadmin/internal/platform/net"
)

// Session returns the session id the auth middleware put on the request
func Session(r *http.Request) (string, error) {
	sid := pnet.SessionID(r.Context())
	if sid == "" {
		return "", perrs.Unauthorizedf("missing session")
	}
	return sid, nil
}

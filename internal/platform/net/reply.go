package net

import (
	"net/http"

	perr "dcbadmin/internal/platform/errors"
)

// Wire is the JSON envelope every response is written in
type Wire struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	Field      string         `json:"field,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

// Reply builds the envelope for body
// a non-nil error body replaces status with the one its code maps to; status 0 means 200
func Reply(status int, body any, reqID string) (int, Wire) {
	w := Wire{RequestID: reqID}
	if err, ok := body.(error); ok && err != nil {
		status = perr.HTTPStatus(err)
		e := perr.WireFrom(err)
		w.Code, w.Error, w.Field = e.Code, e.Message, e.Field
	} else {
		w.Data = body
	}
	if status == 0 {
		status = http.StatusOK
	}
	w.StatusCode = status
	w.Status = http.StatusText(status)
	return status, w
}

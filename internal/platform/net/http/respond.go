// Package http holds the router seam, its chi adapter, the server and the JSON envelope
package http

import (
	"encoding/json"
	stdhttp "net/http"

	perr "dcbadmin/internal/platform/errors"
	"dcbadmin/internal/platform/logger"
	pnet "dcbadmin/internal/platform/net"
)

// Envelope is the body of every JSON response
type Envelope = pnet.Wire

// JSON writes v as application/json with the given status
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Response is what return-style handlers produce
// a Body holding an error is written as an error envelope with the status the error maps to
type Response struct {
	Status int
	Body   any
	Header stdhttp.Header
}

// OK returns a 200 response
func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: data} }

// Created returns a 201 response
func Created(data any) Response { return Response{Status: stdhttp.StatusCreated, Body: data} }

// NoContent returns a 204 response
func NoContent() Response { return Response{Status: stdhttp.StatusNoContent} }

// Error returns a response carrying err
func Error(err error) Response { return Response{Body: err} }

// Handle adapts a Response-returning handler to a Handler
func Handle(h func(r *stdhttp.Request) Response) Handler {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		h(r).write(w, r)
	}
}

func (resp Response) write(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	for k, vv := range resp.Header {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}
	status := resp.Status
	if status == 0 {
		status = stdhttp.StatusOK
	}
	if status == stdhttp.StatusNoContent {
		w.WriteHeader(status)
		return
	}

	status, env := pnet.Reply(status, resp.Body, pnet.RequestID(r.Context()))
	if err, ok := resp.Body.(error); ok && status >= stdhttp.StatusInternalServerError {
		logger.C(r.Context()).Error().Err(err).Stringer("code", perr.CodeOf(err)).Int("status", status).Msg("request failed")
	}
	JSON(w, status, env)
}

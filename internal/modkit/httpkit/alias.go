// Package httpkit is what modules use to mount handlers
// it re-exports the platform http types so modules do not import internal/platform/net/http
package httpkit

import (
	"net/http"

	phttp "dcbadmin/internal/platform/net/http"
	"dcbadmin/internal/platform/net/http/bind"

	"github.com/go-chi/chi/v5"
)

type (
	// Envelope is the JSON body every route answers with
	Envelope = phttp.Envelope

	// Response is what return-style handlers produce
	Response = phttp.Response

	// Handler is the platform handler type
	Handler = phttp.Handler

	// Router is the platform router seam
	Router = phttp.Router
)

// OK returns a 200 response
func OK(data any) Response { return phttp.OK(data) }

// Created returns a 201 response
func Created(data any) Response { return phttp.Created(data) }

// Error returns a response that maps err to its status and envelope
func Error(err error) Response { return phttp.Error(err) }

// Handle adapts a Response-returning function
func Handle(fn func(*http.Request) Response) Handler { return phttp.Handle(fn) }

// JSON decodes and validates the body into T before calling fn
// fn may return a Response to pick its own status
func JSON[T any](fn func(*http.Request, T) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		in, err := bind.ParseJSON[T](r)
		if err != nil {
			return Error(err)
		}
		return result(fn(r, in))
	})
}

// Call adapts a handler that takes no body
func Call(fn func(*http.Request) (any, error)) Handler {
	return Handle(func(r *http.Request) Response { return result(fn(r)) })
}

func result(out any, err error) Response {
	if err != nil {
		return Error(err)
	}
	if resp, ok := out.(Response); ok {
		return resp
	}
	return OK(out)
}

// Param returns a path parameter of the matched route
func Param(r *http.Request, name string) string { return chi.URLParam(r, name) }

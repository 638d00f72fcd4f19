// Package http serves the liveness, readiness and build endpoints under /meta
package http

import (
	"context"
	"net/http"
	"time"

	"dcbadmin/internal/core/version"
	"dcbadmin/internal/modkit/httpkit"

	"golang.org/x/sync/errgroup"
)

// Pinger is satisfied by stores and adapters that can report reachability
type Pinger interface {
	Ping(context.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(context.Context) error

// Ping calls f
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Check is one named readiness dependency; a nil Target is reported as skipped
type Check struct {
	Name   string
	Target any
	// Optional checks degrade readiness when failing instead of failing it
	Optional bool
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName  string
	StartedAt    time.Time
	Checks       []Check
	ReadyTimeout time.Duration
	Now          func() time.Time
}

// Register mounts the meta routes; none of them need a session
func Register(r httpkit.Router, d Deps) {
	if d.ReadyTimeout <= 0 {
		d.ReadyTimeout = 2 * time.Second
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	m := meta(d)
	httpkit.Get(r, "/health", m.health)
	httpkit.Get(r, "/ready", m.ready)
	httpkit.Get(r, "/version", func(*http.Request) (any, error) { return version.Info(), nil })
	httpkit.Get(r, "/service", m.service)
}

// Readiness states, per check and overall
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
	StatusFail     = "fail"
	StatusSkipped  = "skipped"
	StatusUnknown  = "unknown"
)

// Health is the liveness payload
type Health struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	Started string `json:"started"`
	Now     string `json:"now"`
}

// CheckResult is the outcome of one Check
type CheckResult struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
	Elapsed int64  `json:"elapsedMs"`
}

// Readiness is ok, degraded when only optional checks fail, fail otherwise
type Readiness struct {
	Status string        `json:"status"`
	Checks []CheckResult `json:"checks"`
	Now    string        `json:"now"`
}

// Service reports uptime in seconds
type Service struct {
	Name    string `json:"name"`
	Started string `json:"started"`
	Uptime  int64  `json:"uptime"`
}

type meta Deps

func (m meta) stamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func (m meta) health(*http.Request) (any, error) {
	return Health{OK: true, Service: m.ServiceName, Started: m.stamp(m.StartedAt), Now: m.stamp(m.Now())}, nil
}

func (m meta) service(*http.Request) (any, error) {
	return Service{
		Name:    m.ServiceName,
		Started: m.stamp(m.StartedAt),
		Uptime:  int64(m.Now().Sub(m.StartedAt) / time.Second),
	}, nil
}

// ready runs every check concurrently under one deadline; a failed required check answers 503
func (m meta) ready(r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), m.ReadyTimeout)
	defer cancel()

	results := make([]CheckResult, len(m.Checks))
	var g errgroup.Group
	for i, c := range m.Checks {
		g.Go(func() error {
			results[i] = probe(ctx, c)
			return nil
		})
	}
	_ = g.Wait()

	out := Readiness{Status: StatusOK, Checks: results, Now: m.stamp(m.Now())}
	for i, res := range results {
		switch {
		case res.Status == StatusFail && !m.Checks[i].Optional:
			out.Status = StatusFail
		case res.Status != StatusOK && res.Status != StatusSkipped && out.Status == StatusOK:
			out.Status = StatusDegraded
		}
	}
	if out.Status == StatusFail {
		return httpkit.Response{Status: http.StatusServiceUnavailable, Body: out}, nil
	}
	return out, nil
}

func probe(ctx context.Context, c Check) CheckResult {
	res := CheckResult{Name: c.Name, Status: StatusSkipped}
	if c.Target == nil {
		return res
	}
	p, ok := c.Target.(Pinger)
	if !ok {
		res.Status = StatusUnknown
		return res
	}
	start := time.Now()
	err := p.Ping(ctx)
	res.Elapsed = time.Since(start).Milliseconds()
	if err != nil {
		res.Status, res.Error = StatusFail, err.Error()
		return res
	}
	res.Status = StatusOK
	return res
}

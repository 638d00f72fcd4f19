// Package dcb is the client for the DCB service: GraphQL list queries and mutations plus the
// handful of REST endpoints the dashboard reads, all sent with the signed-in user's token
package dcb

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"dcbadmin/internal/core/version"
	perr "dcbadmin/internal/platform/errors"
	"dcbadmin/internal/platform/logger"

	"golang.org/x/time/rate"
)

const (
	defaultGraphQLPath = "/graphql"
	defaultTimeout     = 15 * time.Second
	// DefaultRetries is used when Options.MaxRetries is zero
	DefaultRetries     = 3
	defaultRetryBase   = 250 * time.Millisecond
	maxBackoff         = 10 * time.Second
	maxBody            = 4 << 20
)

// TokenSource hands out the bearer token for one user session
// Refresh obtains a new token after the service rejected the current one
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Refresh(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource that never refreshes, for tooling and tests
type StaticToken string

// Token returns the token
func (s StaticToken) Token(context.Context) (string, error) { return string(s), nil }

// Refresh always fails; a static token cannot be renewed
func (s StaticToken) Refresh(context.Context) (string, error) {
	return "", perr.Unauthorizedf("static token cannot be refreshed")
}

// Options configures the Client; zero values take the defaults
type Options struct {
	BaseURL     string
	GraphQLPath string
	UserAgent   string
	Timeout     time.Duration

	// MaxRetries bounds retries of transport errors, 429 and 502/503/504; negative disables them
	// and zero takes DefaultRetries, see Retries for configured counts
	MaxRetries int
	RetryBase  time.Duration

	// MaxRefreshes bounds refresh-and-retry cycles after a 401 within one call
	MaxRefreshes int

	// RatePerSecond paces outgoing requests across all sessions; 0 leaves them unpaced
	RatePerSecond float64
	Burst         int
}

// Client talks to one DCB deployment
type Client struct {
	hc      *http.Client
	opts    Options
	log     *logger.Logger
	limiter *rate.Limiter
	// pause waits d or until ctx ends
	pause func(ctx context.Context, d time.Duration) error
}

// NewClient builds a Client
func NewClient(o Options) *Client {
	if o.GraphQLPath == "" {
		o.GraphQLPath = defaultGraphQLPath
	}
	if o.UserAgent == "" {
		o.UserAgent = version.UserAgent()
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	switch {
	case o.MaxRetries < 0:
		o.MaxRetries = 0
	case o.MaxRetries == 0:
		o.MaxRetries = DefaultRetries
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	if o.MaxRefreshes <= 0 {
		o.MaxRefreshes = 1
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if o.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(o.RatePerSecond), max(o.Burst, 1))
	}
	return &Client{
		hc:      &http.Client{Timeout: o.Timeout},
		opts:    o,
		log:     logger.Named("dcb"),
		limiter: limiter,
		pause:   pause,
	}
}

// Retries converts a configured retry count to Options.MaxRetries; a configured 0 means no retries
func Retries(n int) int {
	if n <= 0 {
		return -1
	}
	return n
}

// cancelled reports a call abandoned because its context ended while waiting or sending
func cancelled(err error) error {
	return perr.Wrapf(err, perr.ErrorCodeUnavailable, "dcb request cancelled")
}

func pause(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// BaseURL returns the configured service root
func (c *Client) BaseURL() string { return c.opts.BaseURL }

// Do sends one request with the session's bearer token and returns a 2xx response
//
// A 401 triggers the refresh cycle in refresh.go; 502, 503, 504, 429 and transport errors are
// retried with backoff. Any other status is mapped to a project error and the body is closed.
func (c *Client) Do(ctx context.Context, tokens TokenSource, method, path string, body any) (*http.Response, error) {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeJSON, "dcb encode request body")
		}
		payload = b
	}
	tok, err := bearer(ctx, tokens)
	if err != nil {
		return nil, err
	}

	ref := newRefresher(c.opts.MaxRefreshes)
	for retries := 0; ; {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, cancelled(err)
		}
		started := time.Now()
		resp, err := c.send(ctx, method, path, payload, tok)
		if err != nil {
			if ctx.Err() != nil {
				return nil, cancelled(ctx.Err())
			}
			if retries >= c.opts.MaxRetries {
				return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "dcb unreachable, try again later")
			}
			if err := c.retry(ctx, &retries, 0, err, path); err != nil {
				return nil, err
			}
			continue
		}

		c.log.Debug().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Int("retries", retries).
			Stringer("refresh", ref.state).
			Dur("elapsed", time.Since(started)).
			Msg("dcb response")

		switch code := resp.StatusCode; {
		case code >= 200 && code < 300:
			ref.succeeded()
			return resp, nil

		case code == http.StatusUnauthorized:
			discard(resp)
			if tokens == nil || !ref.begin() {
				return nil, perr.Unauthorizedf("dcb rejected the session token")
			}
			// the first refresh goes straight away, later ones back off
			if ref.refreshes > 1 {
				if err := c.pause(ctx, c.backoff(ref.refreshes-2)); err != nil {
					return nil, cancelled(err)
				}
			}
			if tok, err = tokens.Refresh(ctx); err != nil {
				ref.fail()
				return nil, perr.Wrapf(err, perr.ErrorCodeUnauthorized, "dcb token refresh failed")
			}
			ref.retried()
			c.log.Info().Int("refreshes", ref.refreshes).Str("path", path).Msg("dcb token refreshed, retrying")

		case code == http.StatusTooManyRequests:
			wait := retryAfter(resp.Header)
			discard(resp)
			if retries >= c.opts.MaxRetries {
				return nil, perr.New(perr.ErrorCodeTooManyRequests, "dcb rate limited")
			}
			if err := c.retry(ctx, &retries, wait, nil, path); err != nil {
				return nil, err
			}

		case code == http.StatusBadGateway, code == http.StatusServiceUnavailable, code == http.StatusGatewayTimeout:
			discard(resp)
			if retries >= c.opts.MaxRetries {
				return nil, perr.Unavailablef("dcb temporarily unavailable, try again later")
			}
			if err := c.retry(ctx, &retries, 0, nil, path); err != nil {
				return nil, err
			}

		default:
			return nil, statusError(resp)
		}
	}
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, tok string) (*http.Response, error) {
	var rdr io.Reader
	if payload != nil {
		rdr = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.opts.BaseURL+path, rdr)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "dcb build request")
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	return c.hc.Do(req)
}

// retry waits before the next attempt; wait 0 means exponential backoff
func (c *Client) retry(ctx context.Context, retries *int, wait time.Duration, cause error, path string) error {
	if wait <= 0 {
		wait = c.backoff(*retries)
	}
	*retries++
	c.log.Warn().Err(cause).Str("path", path).Int("retry", *retries).Dur("wait", wait).Msg("dcb retrying")
	if err := c.pause(ctx, wait); err != nil {
		return cancelled(err)
	}
	return nil
}

func (c *Client) backoff(n int) time.Duration {
	d := c.opts.RetryBase << uint(n)
	if d <= 0 || d > maxBackoff {
		return maxBackoff
	}
	return d
}

// getJSON issues a GET and decodes the body into out
func (c *Client) getJSON(ctx context.Context, tokens TokenSource, path string, out any) error {
	resp, err := c.Do(ctx, tokens, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decode(resp.Body, out)
}

func bearer(ctx context.Context, tokens TokenSource) (string, error) {
	if tokens == nil {
		return "", nil
	}
	tok, err := tokens.Token(ctx)
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeUnauthorized, "no session token")
	}
	return tok, nil
}

func decode(r io.Reader, out any) error {
	b, err := io.ReadAll(io.LimitReader(r, maxBody))
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "dcb read body")
	}
	if err := json.Unmarshal(b, out); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUpstream, "dcb returned malformed json")
	}
	return nil
}

// statusError maps a status that is not retried to a project error and closes the body
func statusError(resp *http.Response) error {
	defer resp.Body.Close()
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	switch resp.StatusCode {
	case http.StatusNotFound:
		return perr.NotFoundf("dcb record not found")
	case http.StatusForbidden:
		return perr.Forbiddenf("dcb denied access")
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return perr.InvalidArgf("dcb rejected the request: %s", snippet)
	case http.StatusConflict:
		return perr.Conflictf("dcb conflict: %s", snippet)
	}
	return perr.Upstreamf("dcb answered %d: %s", resp.StatusCode, snippet)
}

// retryAfter reads a Retry-After given in seconds, capped at maxBackoff
func retryAfter(h http.Header) time.Duration {
	n, err := strconv.Atoi(h.Get("Retry-After"))
	if err != nil || n <= 0 {
		return 0
	}
	if n >= int(maxBackoff/time.Second) {
		return maxBackoff
	}
	return time.Duration(n) * time.Second
}

// discard drains a little of the body so the connection can be reused
func discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 512))
	_ = resp.Body.Close()
}

// Package api is the single boundary between pitstop and the shop backend.
// Every call returns a tagged Result; nothing here returns a Go error or
// panics into the caller.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// NetworkErrorDetail is reported when no HTTP response was received.
const NetworkErrorDetail = "Network error or unexpected issue."

// Error is the failure half of a Result. Status is 0 for transport and
// decode failures, otherwise the HTTP status code.
type Error struct {
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return e.Detail
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Detail)
}

// Network reports whether the failure happened before any response arrived.
func (e *Error) Network() bool {
	return e.Status == 0
}

// Result is either {OK: true, Data} or {OK: false, Err}.
type Result struct {
	OK   bool
	Data json.RawMessage
	Err  *Error
}

// Failed builds an unsuccessful Result.
func Failed(status int, detail string) Result {
	return Result{Err: &Error{Status: status, Detail: detail}}
}

// Error returns the failure as an error, or nil on success.
func (r Result) Error() error {
	if r.OK || r.Err == nil {
		return nil
	}
	return r.Err
}

// Detail is the user-facing failure text, empty on success.
func (r Result) Detail() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Detail
}

// Options configures a Client.
type Options struct {
	BaseURL string
	Timeout time.Duration
	// RatePerSecond paces outgoing requests. Zero disables pacing.
	RatePerSecond float64
	HTTPClient    *http.Client
	Logger        *slog.Logger
}

// Client talks JSON to the shop backend.
type Client struct {
	base    string
	http    *http.Client
	limiter *rate.Limiter
	log     *slog.Logger
}

// New builds a Client from opts.
func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		base: strings.TrimRight(opts.BaseURL, "/"),
		http: hc,
		log:  logger.With("component", "api"),
	}
	if opts.RatePerSecond > 0 {
		burst := int(opts.RatePerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), burst)
	}
	return c
}

// BaseURL returns the backend root the client was configured with.
func (c *Client) BaseURL() string {
	return c.base
}

// Call performs one request. body, when non-nil, is sent as JSON.
func (c *Client) Call(ctx context.Context, method, path string, body any) Result {
	start := time.Now()
	res := c.do(ctx, method, path, body)
	status := http.StatusOK
	if res.Err != nil {
		status = res.Err.Status
	}
	c.log.Debug("api call", "method", method, "path", path, "status", status, "duration", time.Since(start))
	return res
}

func (c *Client) do(ctx context.Context, method, path string, body any) Result {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return Failed(0, NetworkErrorDetail)
		}
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return Failed(0, fmt.Sprintf("encode request: %v", err))
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return Failed(0, NetworkErrorDetail)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("api transport failure", "method", method, "path", path, "err", err)
		return Failed(0, NetworkErrorDetail)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Failed(0, NetworkErrorDetail)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Failed(resp.StatusCode, errorDetail(resp.StatusCode, raw))
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = []byte("null")
	}
	return Result{OK: true, Data: raw}
}

// errorDetail prefers a string "detail" field in a JSON body, then the raw
// body text, then a generic message naming the status.
func errorDetail(status int, raw []byte) string {
	var structured struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &structured); err == nil && len(structured.Detail) > 0 {
		var s string
		if err := json.Unmarshal(structured.Detail, &s); err == nil && s != "" {
			return s
		}
		// Validation errors arrive as a list; show it as-is.
		if d := strings.TrimSpace(string(structured.Detail)); d != "" && d != "null" {
			return d
		}
	}
	if text := strings.TrimSpace(string(raw)); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP Error: %d", status)
}

// decode unmarshals a successful Result into T. A body that does not match T
// turns the Result into a status-0 failure.
func decode[T any](res Result) (T, Result) {
	var out T
	if !res.OK {
		return out, res
	}
	if err := json.Unmarshal(res.Data, &out); err != nil {
		return out, Failed(0, fmt.Sprintf("unexpected response: %v", err))
	}
	return out, res
}

func query(key, value string) string {
	if value == "" {
		return ""
	}
	return "?" + url.Values{key: []string{value}}.Encode()
}

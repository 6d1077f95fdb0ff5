// Package fetch performs rate-limited HTTP calls against the genealogy
// upstreams and classifies their failures.
//
// Adapters never touch net/http directly: every request goes through a
// Client, which acquires the upstream's rate-limit budget, applies the
// hard timeout, and maps transport problems onto a small error taxonomy
// the calling layer can act on (retry with a narrower query, wait, or
// ask the user for different input).
package fetch

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/morikuni/failure/v2"
	"github.com/mvdburg/stamboom/api/ratelimit"
)

// DefaultTimeout is the hard per-request timeout
const DefaultTimeout = 10 * time.Second

// ErrorCode defines error types for fetch operations
type ErrorCode string

const (
	// ErrTimeout represents an upstream that did not answer within the
	// request timeout
	ErrTimeout ErrorCode = "Timeout"
	// ErrRequestFailed represents a transport error or a non-2xx status
	ErrRequestFailed ErrorCode = "RequestFailed"
	// ErrMalformedResponse represents a response body that could not be
	// decoded into the expected shape
	ErrMalformedResponse ErrorCode = "MalformedResponse"
)

func (c ErrorCode) ErrorCode() string {
	return string(c)
}

// Request describes a single GET against an upstream.
// Fast skips the limiter's pacing delay; it is meant for bulk
// sub-document fetches nested inside a search result, not for direct
// user-initiated calls.
type Request struct {
	URL    string
	Params url.Values
	Fast   bool
}

// Client issues rate-limited GET requests to one upstream host
type Client struct {
	httpClient *http.Client
	limiter    *ratelimit.Limiter
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (used by tests to
// inject a mock transport)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout overrides the default request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// New creates a fetch client sharing the given limiter.
// All clients for the same upstream host must share one limiter.
func New(limiter *ratelimit.Limiter, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    limiter,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get performs the request and returns the raw response body.
// No retry is attempted; a single failure surfaces immediately.
func (c *Client) Get(req Request) ([]byte, error) {
	rawURL := req.URL
	if len(req.Params) > 0 {
		rawURL += "?" + req.Params.Encode()
	}

	release := c.limiter.Acquire(req.Fast)
	defer release()

	resp, err := c.httpClient.Get(rawURL)
	if err != nil {
		if isTimeout(err) {
			return nil, failure.New(ErrTimeout,
				failure.Message("API request timed out"),
				failure.Context{"url": req.URL},
			)
		}
		return nil, failure.New(ErrRequestFailed,
			failure.Message("API request failed"),
			failure.Context{"url": req.URL, "cause": err.Error()},
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, failure.New(ErrRequestFailed,
			failure.Message("API request failed"),
			failure.Context{"url": req.URL, "status": resp.Status},
		)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, failure.New(ErrRequestFailed,
			failure.Message("Failed to read API response"),
			failure.Context{"url": req.URL, "cause": err.Error()},
		)
	}

	return body, nil
}

// GetJSON performs the request and decodes the JSON response into out
func (c *Client) GetJSON(req Request, out any) error {
	body, err := c.Get(req)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return failure.New(ErrMalformedResponse,
			failure.Message("API returned a response that could not be decoded"),
			failure.Context{"url": req.URL, "cause": err.Error()},
		)
	}

	return nil
}

// isTimeout reports whether err represents a client-side timeout
func isTimeout(err error) bool {
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Timeout() {
		return true
	}
	var nerr interface{ Timeout() bool }
	return errors.As(err, &nerr) && nerr.Timeout()
}

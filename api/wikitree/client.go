// Package wikitree adapts the WikiTree collaborative family-tree API.
//
// The upstream is a single endpoint dispatching on an action parameter
// and answering with a one-element JSON array. Three failure modes are
// kept apart so the calling layer can react appropriately: a response
// that is not JSON at all, an explicit upstream error payload, and a
// success payload with a surprising structure (which is often
// recoverable and should not hold up the user).
package wikitree

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/morikuni/failure/v2"
	"github.com/mvdburg/stamboom/api/fetch"
	"github.com/mvdburg/stamboom/api/ratelimit"
)

// DefaultBaseURL is the WikiTree API endpoint
const DefaultBaseURL = "https://api.wikitree.com/api.php"

// ErrorCode defines error types for WikiTree operations
type ErrorCode string

const (
	// ErrAPIError represents an explicit error payload from the upstream
	ErrAPIError ErrorCode = "WikiTreeAPIError"
	// ErrUnexpectedPayload represents a structurally surprising success
	// payload, e.g. an empty list where one element was expected
	ErrUnexpectedPayload ErrorCode = "WikiTreeUnexpectedPayload"
)

func (c ErrorCode) ErrorCode() string {
	return string(c)
}

// Client talks to the WikiTree API
type Client struct {
	fetch      *fetch.Client
	limiter    *ratelimit.Limiter
	httpClient *http.Client
	baseURL    string
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL overrides the API endpoint (used by tests)
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLimiter replaces the upstream rate limiter
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// New creates a WikiTree client with its own rate limiter
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		limiter: ratelimit.NewDefault(),
	}
	for _, opt := range opts {
		opt(c)
	}

	fetchOpts := []fetch.Option{}
	if c.httpClient != nil {
		fetchOpts = append(fetchOpts, fetch.WithHTTPClient(c.httpClient))
	}
	c.fetch = fetch.New(c.limiter, fetchOpts...)

	return c
}

// ProfileParams selects a profile by its symbolic WikiTree ID
// (e.g. "Wiebrens-12"). Name is sent upstream as the key parameter.
type ProfileParams struct {
	Name            string
	Fields          []string
	BioFormat       string
	ResolveRedirect string
}

// RelativesParams selects the relatives of one or more profiles.
// Names is sent upstream as the comma-joined keys parameter.
type RelativesParams struct {
	Names       []string
	Fields      []string
	GetParents  bool
	GetChildren bool
	GetSiblings bool
	GetSpouses  bool
}

// SearchParams drives a person search
type SearchParams struct {
	FirstName string
	LastName  string
	BirthDate string
	DeathDate string
	Fields    []string
	Limit     int
}

// GetProfile fetches a profile by its symbolic ID
func (c *Client) GetProfile(p ProfileParams) (map[string]any, error) {
	params := url.Values{"key": {p.Name}}
	setFields(params, p.Fields)
	if p.BioFormat != "" {
		params.Set("bioFormat", p.BioFormat)
	}
	if p.ResolveRedirect != "" {
		params.Set("resolveRedirect", p.ResolveRedirect)
	}

	item, err := c.call("getProfile", params)
	if err != nil {
		return nil, err
	}

	profile, ok := item["profile"].(map[string]any)
	if !ok {
		return nil, failure.New(ErrUnexpectedPayload,
			failure.Message("WikiTree returned a result without a profile"),
			failure.Context{"key": p.Name},
		)
	}
	return profile, nil
}

// GetPerson fetches a profile by its numeric person ID
func (c *Client) GetPerson(id int64, fields []string) (map[string]any, error) {
	params := url.Values{"key": {strconv.FormatInt(id, 10)}}
	setFields(params, fields)

	item, err := c.call("getPerson", params)
	if err != nil {
		return nil, err
	}

	person, ok := item["person"].(map[string]any)
	if !ok {
		return nil, failure.New(ErrUnexpectedPayload,
			failure.Message("WikiTree returned a result without a person"),
			failure.Context{"key": strconv.FormatInt(id, 10)},
		)
	}
	return person, nil
}

// GetRelatives fetches the requested relatives for each named profile
func (c *Client) GetRelatives(p RelativesParams) ([]map[string]any, error) {
	params := url.Values{"keys": {strings.Join(p.Names, ",")}}
	setFields(params, p.Fields)
	for flag, enabled := range map[string]bool{
		"getParents":  p.GetParents,
		"getChildren": p.GetChildren,
		"getSiblings": p.GetSiblings,
		"getSpouses":  p.GetSpouses,
	} {
		if enabled {
			params.Set(flag, "1")
		}
	}

	item, err := c.call("getRelatives", params)
	if err != nil {
		return nil, err
	}

	rawItems, ok := item["items"].([]any)
	if !ok {
		return nil, failure.New(ErrUnexpectedPayload,
			failure.Message("WikiTree returned relatives without an items list"),
			failure.Context{"keys": strings.Join(p.Names, ",")},
		)
	}

	items := make([]map[string]any, 0, len(rawItems))
	for _, raw := range rawItems {
		if m, ok := raw.(map[string]any); ok {
			items = append(items, m)
		}
	}
	return items, nil
}

// SearchPerson searches profiles by name and life dates
func (c *Client) SearchPerson(p SearchParams) ([]map[string]any, error) {
	params := url.Values{}
	for key, value := range map[string]string{
		"FirstName": p.FirstName,
		"LastName":  p.LastName,
		"BirthDate": p.BirthDate,
		"DeathDate": p.DeathDate,
	} {
		if value != "" {
			params.Set(key, value)
		}
	}
	setFields(params, p.Fields)
	if p.Limit > 0 {
		params.Set("limit", strconv.Itoa(p.Limit))
	}

	item, err := c.call("searchPerson", params)
	if err != nil {
		return nil, err
	}

	rawMatches, ok := item["matches"].([]any)
	if !ok {
		return nil, failure.New(ErrUnexpectedPayload,
			failure.Message("WikiTree returned a search result without matches"),
			failure.Context{"last_name": p.LastName},
		)
	}

	matches := make([]map[string]any, 0, len(rawMatches))
	for _, raw := range rawMatches {
		if m, ok := raw.(map[string]any); ok {
			matches = append(matches, m)
		}
	}
	return matches, nil
}

// call performs one action request and unwraps the upstream's
// one-element array envelope
func (c *Client) call(action string, params url.Values) (map[string]any, error) {
	params.Set("action", action)
	params.Set("format", "json")

	// Upstream defaults, applied unless the caller overrode them
	if params.Get("bioFormat") == "" {
		params.Set("bioFormat", "wiki")
	}
	if params.Get("resolveRedirect") == "" {
		params.Set("resolveRedirect", "1")
	}

	var envelope []map[string]any
	err := c.fetch.GetJSON(fetch.Request{URL: c.baseURL, Params: params}, &envelope)
	if err != nil {
		return nil, err
	}

	if len(envelope) != 1 {
		return nil, failure.New(ErrUnexpectedPayload,
			failure.Message("WikiTree returned an unexpected number of results"),
			failure.Context{"action": action, "results": strconv.Itoa(len(envelope))},
		)
	}

	item := envelope[0]
	if status, ok := item["status"]; ok && !statusOK(status) {
		return nil, failure.New(ErrAPIError,
			failure.Message("WikiTree reported an error for this request"),
			failure.Context{"action": action, "status": statusString(status)},
		)
	}

	return item, nil
}

// setFields serializes a field list into the comma-joined format the
// upstream expects
func setFields(params url.Values, fields []string) {
	if len(fields) > 0 {
		params.Set("fields", strings.Join(fields, ","))
	}
}

// statusOK reports whether an envelope status denotes success; the
// upstream uses numeric zero for success and a message string otherwise
func statusOK(status any) bool {
	switch v := status.(type) {
	case float64:
		return v == 0
	case string:
		return v == "" || v == "0"
	default:
		return false
	}
}

func statusString(status any) string {
	switch v := status.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return "unknown"
	}
}

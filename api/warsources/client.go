// Package warsources adapts the Oorlogsbronnen network, a faceted
// index of Dutch WWII archive material.
//
// Reads are composite: a person document is assembled from four
// required sub-resources, and a document missing any section is
// unusable for biography construction, so one failed sub-fetch fails
// the whole read. No partial documents are ever returned.
package warsources

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/morikuni/failure/v2"
	"github.com/mvdburg/stamboom/api/fetch"
	"github.com/mvdburg/stamboom/api/ratelimit"
	"golang.org/x/sync/errgroup"
)

// DefaultBaseURL is the Oorlogsbronnen API root
const DefaultBaseURL = "https://rest.oorlogsbronnen.nl/api/v2"

// ErrorCode defines error types for Oorlogsbronnen operations
type ErrorCode string

const (
	// ErrPartialDocument represents a composite read in which one of
	// the required sub-fetches failed
	ErrPartialDocument ErrorCode = "PartialDocument"
)

func (c ErrorCode) ErrorCode() string {
	return string(c)
}

// Client talks to the Oorlogsbronnen API
type Client struct {
	fetch      *fetch.Client
	limiter    *ratelimit.Limiter
	httpClient *http.Client
	baseURL    string
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL overrides the API root (used by tests)
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

// New creates an Oorlogsbronnen client with its own rate limiter
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

// SearchMatch is one faceted-search hit
type SearchMatch struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title"`
}

// Search runs a faceted person search. The upstream expects the query
// percent-encoded into a URL path segment, not a query parameter.
func (c *Client) Search(name string, count int) ([]SearchMatch, error) {
	if count <= 0 {
		count = 10
	}

	var envelope struct {
		Items []struct {
			Tuple []struct {
				ID         string `json:"id"`
				Class      []string `json:"class"`
				Attributes map[string]any `json:"attributes"`
			} `json:"tuple"`
		} `json:"items"`
	}

	err := c.fetch.GetJSON(fetch.Request{
		URL:    c.baseURL + "/search/person/" + url.PathEscape(name) + "/results",
		Params: url.Values{"count": {strconv.Itoa(count)}},
	}, &envelope)
	if err != nil {
		return nil, err
	}

	matches := make([]SearchMatch, 0, len(envelope.Items))
	for _, item := range envelope.Items {
		if len(item.Tuple) == 0 {
			continue
		}
		entry := item.Tuple[0]
		m := SearchMatch{ID: entry.ID}
		if len(entry.Class) > 0 {
			m.Type = entry.Class[0]
		}
		if title, ok := entry.Attributes["title"].(string); ok {
			m.Title = title
		}
		matches = append(matches, m)
	}
	return matches, nil
}

// PersonDocument is a combined person document, keyed by resource type
type PersonDocument struct {
	Person  map[string]any `json:"person"`
	Events  []any          `json:"events"`
	Related []any          `json:"related"`
	Sources []any          `json:"sources"`
}

// GetPerson assembles the combined document for one person from its
// four required sub-resources. Sub-fetches are bulk work nested inside
// one read, so they skip rate-limit pacing; the window budget still
// applies to each.
func (c *Client) GetPerson(id string) (*PersonDocument, error) {
	doc := &PersonDocument{}
	base := c.baseURL + "/person/" + url.PathEscape(id)

	var g errgroup.Group

	g.Go(func() error {
		return c.getSection(base, "person", id, &doc.Person)
	})
	g.Go(func() error {
		return c.getSection(base+"/events", "events", id, &doc.Events)
	})
	g.Go(func() error {
		return c.getSection(base+"/related", "related", id, &doc.Related)
	})
	g.Go(func() error {
		return c.getSection(base+"/sources", "sources", id, &doc.Sources)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return doc, nil
}

// getSection fetches one sub-resource of a composite read, marking its
// failure as a partial-document error naming the missing section
func (c *Client) getSection(rawURL, section, id string, out any) error {
	err := c.fetch.GetJSON(fetch.Request{URL: rawURL, Fast: true}, out)
	if err != nil {
		return failure.New(ErrPartialDocument,
			failure.Message("Person document is missing a required section"),
			failure.Context{"id": id, "section": section, "cause": err.Error()},
		)
	}
	return nil
}

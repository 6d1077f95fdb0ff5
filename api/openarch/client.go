package openarch

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/morikuni/failure/v2"
	"github.com/mvdburg/stamboom/api/cache"
	"github.com/mvdburg/stamboom/api/fetch"
	"github.com/mvdburg/stamboom/api/ratelimit"
	"github.com/mvdburg/stamboom/log"
)

const (
	// DefaultBaseURL is the Open Archieven API root
	DefaultBaseURL = "https://api.openarch.nl/1.0"

	// MaxPageSize is the hard per-request page cap; larger requests
	// are silently clamped
	MaxPageSize = 30
)

// Sort modes for the search endpoint
const (
	SortByName  = 1
	SortByRole  = 2
	SortByEvent = 3
	SortByDate  = 4
)

// Client talks to the Open Archieven civil-records API
type Client struct {
	fetch      *fetch.Client
	limiter    *ratelimit.Limiter
	httpClient *http.Client
	baseURL    string
	lang       string
	useCache   bool
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

// WithLimiter replaces the upstream rate limiter. All clients for the
// same upstream must share one limiter.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// WithLang sets the response language (default "en")
func WithLang(lang string) Option {
	return func(c *Client) { c.lang = lang }
}

// WithoutCache disables the on-disk show-response cache
func WithoutCache() Option {
	return func(c *Client) { c.useCache = false }
}

// New creates an Open Archieven client with its own rate limiter
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:  DefaultBaseURL,
		lang:     "en",
		useCache: true,
		limiter:  ratelimit.NewDefault(),
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

// SearchOptions holds a search query and its filters.
// Query uses the search mini-language; the remaining fields map onto
// the upstream's filter parameters.
type SearchOptions struct {
	Query        string
	Archive      string
	SourceType   string
	EventPlace   string
	RelationType string
	EventType    string
	CountryCode  string

	Start    int
	PageSize int
	Sort     int

	// MultiPage allows results beyond one page; without it a search
	// matching more records than the page cap fails as over-broad
	// instead of silently truncating
	MultiPage bool
}

// SearchResult is one page of resolved, normalized records.
// Start + len(Records) + Remaining always equals Total.
type SearchResult struct {
	Query      string   `json:"query"`
	Records    []Record `json:"records"`
	Start      int      `json:"start"`
	Remaining  int      `json:"remaining"`
	Total      int      `json:"total"`
	Page       int      `json:"page,omitempty"`
	TotalPages int      `json:"total_pages,omitempty"`
}

// searchEnvelope is the raw search response
type searchEnvelope struct {
	Response struct {
		NumberFound int         `json:"number_found"`
		Docs        []searchDoc `json:"docs"`
	} `json:"response"`
}

type searchDoc struct {
	Archive    string `json:"archive"`
	Identifier string `json:"identifier"`
}

// Search validates and normalizes the query, runs it upstream, and
// resolves every result reference into a full normalized record,
// preserving upstream chronological ordering.
func (c *Client) Search(opts SearchOptions) (*SearchResult, error) {
	query := NormalizeQuery(opts.Query)
	if err := ValidateQuery(query); err != nil {
		return nil, err
	}

	pageSize := opts.PageSize
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	sort := opts.Sort
	if sort == 0 {
		sort = SortByName
	}

	params := url.Values{
		"name":        {query},
		"lang":        {c.lang},
		"number_show": {strconv.Itoa(pageSize)},
		"start":       {strconv.Itoa(opts.Start)},
		"sort":        {strconv.Itoa(sort)},
	}
	for key, value := range map[string]string{
		"archive_code": opts.Archive,
		"sourcetype":   opts.SourceType,
		"eventplace":   opts.EventPlace,
		"relationtype": opts.RelationType,
		"eventtype":    opts.EventType,
		"country_code": opts.CountryCode,
	} {
		if value != "" {
			params.Set(key, value)
		}
	}

	var envelope searchEnvelope
	err := c.fetch.GetJSON(fetch.Request{
		URL:    c.baseURL + "/records/search.json",
		Params: params,
	}, &envelope)
	if err != nil {
		return nil, err
	}

	total := envelope.Response.NumberFound
	if !opts.MultiPage && total > pageSize {
		return nil, failure.New(ErrOverBroadQuery,
			failure.Message("Query matched more records than one page can hold; narrow the query or request multi-page search"),
			failure.Context{
				"query":        query,
				"number_found": strconv.Itoa(total),
				"page_size":    strconv.Itoa(pageSize),
			},
		)
	}

	result := &SearchResult{
		Query:   query,
		Records: make([]Record, 0, len(envelope.Response.Docs)),
		Start:   opts.Start,
		Total:   total,
	}

	// Resolve each reference to a full record. These are nested bulk
	// fetches, so they skip the limiter's pacing delay; the window
	// budget still applies.
	for _, doc := range envelope.Response.Docs {
		raw, err := c.show(doc.Archive, doc.Identifier, true)
		if err != nil {
			return nil, err
		}
		link := Link{Archive: doc.Archive, Identifier: doc.Identifier}
		result.Records = append(result.Records, *Normalize(raw, link))
	}

	result.Remaining = total - opts.Start - len(result.Records)
	if result.Remaining < 0 {
		result.Remaining = 0
	}

	if opts.MultiPage {
		result.Page = opts.Start/pageSize + 1
		result.TotalPages = (total + pageSize - 1) / pageSize
	}

	log.Debug("openarch search resolved",
		"query", query,
		"records", len(result.Records),
		"total", total,
	)

	return result, nil
}

// Show fetches one record by archive code and identifier and returns
// the raw nested document. Search resolves and normalizes these
// internally; direct single-record reads get the document as-is.
func (c *Client) Show(archive, identifier string) (*Document, error) {
	return c.show(archive, identifier, false)
}

func (c *Client) show(archive, identifier string, fast bool) (*Document, error) {
	req := fetch.Request{
		URL: c.baseURL + "/records/show.json",
		Params: url.Values{
			"archive":    {archive},
			"identifier": {identifier},
			"lang":       {c.lang},
		},
		Fast: fast,
	}

	body, err := c.fetchBody(req, fmt.Sprintf("openarch/show/%s/%s", archive, identifier))
	if err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, failure.New(fetch.ErrMalformedResponse,
			failure.Message("Record has an unrecognized shape"),
			failure.Context{"archive": archive, "identifier": identifier, "cause": err.Error()},
		)
	}

	return &doc, nil
}

// fetchBody reads a response body through the on-disk cache when it is
// enabled; show documents are immutable upstream, so cached reads save
// rate-limit budget on repeated lookups
func (c *Client) fetchBody(req fetch.Request, key string) ([]byte, error) {
	if !c.useCache {
		return c.fetch.Get(req)
	}
	responses := cache.New[[]byte]("openarch")
	return responses.GetOrSet(key, func() ([]byte, error) {
		return c.fetch.Get(req)
	}, false)
}

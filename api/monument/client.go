// Package monument adapts the Joods Monument memorial archive, a
// name-indexed document store commemorating Dutch victims of the
// Holocaust.
package monument

import (
	"net/http"
	"net/url"
	"strconv"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/morikuni/failure/v2"
	"github.com/mvdburg/stamboom/api/fetch"
	"github.com/mvdburg/stamboom/api/ratelimit"
)

// DefaultBaseURL is the Joods Monument API root
const DefaultBaseURL = "https://www.joodsmonument.nl/api"

// Client talks to the Joods Monument API
type Client struct {
	fetch      *fetch.Client
	limiter    *ratelimit.Limiter
	httpClient *http.Client
	baseURL    string
	lang       string
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

// WithLang sets the preferred translation language (default "en")
func WithLang(lang string) Option {
	return func(c *Client) { c.lang = lang }
}

// New creates a Joods Monument client with its own rate limiter
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		lang:    "en",
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

// SearchMatch is one search hit
type SearchMatch struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Person is one memorial document after translation unwrapping and
// field extraction. Raw holds the full unwrapped document for callers
// that need fields this projection leaves out.
type Person struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	BirthDate   string         `json:"birth_date,omitempty"`
	BirthPlace  string         `json:"birth_place,omitempty"`
	DeathDate   string         `json:"death_date,omitempty"`
	DeathPlace  string         `json:"death_place,omitempty"`
	URL         string         `json:"url,omitempty"`
	Raw         map[string]any `json:"-"`
}

// Search runs a name-indexed document search
func (c *Client) Search(name string, limit int) ([]SearchMatch, error) {
	params := url.Values{"q": {name}}
	if limit > 0 {
		params.Set("n", strconv.Itoa(limit))
	}

	var envelope struct {
		Results []struct {
			ID    any    `json:"id"`
			Title any    `json:"title"`
			URL   string `json:"url"`
		} `json:"results"`
	}
	err := c.fetch.GetJSON(fetch.Request{
		URL:    c.baseURL + "/search",
		Params: params,
	}, &envelope)
	if err != nil {
		return nil, err
	}

	matches := make([]SearchMatch, 0, len(envelope.Results))
	for _, r := range envelope.Results {
		matches = append(matches, SearchMatch{
			ID:    asString(r.ID),
			Title: asString(UnwrapTranslations(r.Title, c.lang)),
			URL:   r.URL,
		})
	}
	return matches, nil
}

// Get fetches one memorial document by identifier
func (c *Client) Get(id string) (*Person, error) {
	var raw map[string]any
	err := c.fetch.GetJSON(fetch.Request{
		URL: c.baseURL + "/document/" + url.PathEscape(id),
	}, &raw)
	if err != nil {
		return nil, err
	}

	unwrapped, ok := UnwrapTranslations(raw, c.lang).(map[string]any)
	if !ok {
		return nil, failure.New(fetch.ErrMalformedResponse,
			failure.Message("Memorial document has an unrecognized shape"),
			failure.Context{"id": id},
		)
	}

	p := &Person{
		ID:         id,
		Title:      asString(unwrapped["title"]),
		BirthDate:  asString(unwrapped["birth_date"]),
		BirthPlace: asString(unwrapped["birth_place"]),
		DeathDate:  asString(unwrapped["death_date"]),
		DeathPlace: asString(unwrapped["death_place"]),
		URL:        asString(unwrapped["url"]),
		Raw:        unwrapped,
	}
	p.Description = htmlToMarkdown(asString(unwrapped["description"]))

	return p, nil
}

// htmlToMarkdown converts an HTML description fragment to markdown;
// on conversion failure the raw text is kept rather than dropped
func htmlToMarkdown(s string) string {
	if s == "" {
		return ""
	}
	converter := md.NewConverter("", true, nil)
	out, err := converter.ConvertString(s)
	if err != nil {
		return s
	}
	return out
}

func asString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return ""
	}
}

package openarch

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/morikuni/failure/v2"
	"github.com/mvdburg/stamboom/api/ratelimit"
)

const showDocTemplate = `{
  "a2a": {
    "A2A_Person": {"pid": "p1", "PersonName": {"PersonNameFirstName": "Gabe", "PersonNameLastName": "Wiebrens"}},
    "A2A_RelationEP": {"PersonKeyRef": "p1", "RelationType": "Kind"},
    "A2A_Event": {"pid": "e1", "EventType": "Geboorte"}
  }
}`

// testUpstream simulates the search and show endpoints and counts every
// request so tests can assert that rejected queries cost no calls
type testUpstream struct {
	total    int
	docs     int
	requests atomic.Int64
	shows    atomic.Int64
}

func (u *testUpstream) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.requests.Add(1)
		switch r.URL.Path {
		case "/records/search.json":
			docs := ""
			for i := 0; i < u.docs; i++ {
				if i > 0 {
					docs += ","
				}
				docs += fmt.Sprintf(`{"archive": "frl", "identifier": "rec-%d"}`, i)
			}
			fmt.Fprintf(w, `{"response": {"number_found": %d, "docs": [%s]}}`, u.total, docs)
		case "/records/show.json":
			u.shows.Add(1)
			io.WriteString(w, showDocTemplate)
		default:
			http.NotFound(w, r)
		}
	})
}

func newTestUpstreamClient(t *testing.T, u *testUpstream) *Client {
	t.Helper()
	srv := httptest.NewServer(u.handler())
	t.Cleanup(srv.Close)
	return New(
		WithBaseURL(srv.URL),
		WithLimiter(ratelimit.New(1000, time.Hour, 0)),
		WithoutCache(),
	)
}

func TestSearchResolvesRecordsInOrder(t *testing.T) {
	upstream := &testUpstream{total: 3, docs: 3}
	c := newTestUpstreamClient(t, upstream)

	result, err := c.Search(SearchOptions{Query: "Gabe Wiebrens"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if len(result.Records) != 3 {
		t.Fatalf("got %d records, want 3", len(result.Records))
	}
	if result.Total != 3 {
		t.Errorf("total = %d, want 3", result.Total)
	}
	if got := upstream.shows.Load(); got != 3 {
		t.Errorf("show calls = %d, want 3", got)
	}

	// One show resolution per result doc, each annotated with its link
	for i, rec := range result.Records {
		wantID := fmt.Sprintf("rec-%d", i)
		if rec.Source.Identifier != wantID {
			t.Errorf("record %d identifier = %q, want %q", i, rec.Source.Identifier, wantID)
		}
		if rec.Source.Archive != "frl" {
			t.Errorf("record %d archive = %q, want frl", i, rec.Source.Archive)
		}
	}

	// Start + records + remaining == total
	if got := result.Start + len(result.Records) + result.Remaining; got != result.Total {
		t.Errorf("start+records+remaining = %d, want %d", got, result.Total)
	}
}

func TestSearchRejectsInvalidQueryWithoutNetworkCall(t *testing.T) {
	upstream := &testUpstream{}
	c := newTestUpstreamClient(t, upstream)

	_, err := c.Search(SearchOptions{Query: "A & B & C & D"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !failure.Is(err, ErrInvalidQuery) {
		t.Errorf("expected %v, got %v", ErrInvalidQuery, err)
	}
	if got := upstream.requests.Load(); got != 0 {
		t.Errorf("network calls = %d, want 0", got)
	}
}

func TestSearchOverBroadQuery(t *testing.T) {
	// 45 matches against a 30-record cap without multi-page mode must
	// fail rather than silently truncate
	upstream := &testUpstream{total: 45, docs: 30}
	c := newTestUpstreamClient(t, upstream)

	_, err := c.Search(SearchOptions{Query: "Jansen"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !failure.Is(err, ErrOverBroadQuery) {
		t.Errorf("expected %v, got %v", ErrOverBroadQuery, err)
	}
	if got := upstream.shows.Load(); got != 0 {
		t.Errorf("show calls = %d, want 0 after over-broad failure", got)
	}
}

func TestSearchMultiPage(t *testing.T) {
	upstream := &testUpstream{total: 45, docs: 30}
	c := newTestUpstreamClient(t, upstream)

	result, err := c.Search(SearchOptions{Query: "Jansen", MultiPage: true})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if result.Page != 1 {
		t.Errorf("page = %d, want 1", result.Page)
	}
	if result.TotalPages != 2 {
		t.Errorf("total pages = %d, want 2", result.TotalPages)
	}
	if result.Remaining != 15 {
		t.Errorf("remaining = %d, want 15", result.Remaining)
	}
	if got := result.Start + len(result.Records) + result.Remaining; got != result.Total {
		t.Errorf("start+records+remaining = %d, want %d", got, result.Total)
	}
}

func TestSearchClampsPageSize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/records/search.json" {
			http.NotFound(w, r)
			return
		}
		got, _ := strconv.Atoi(r.URL.Query().Get("number_show"))
		if got != MaxPageSize {
			t.Errorf("number_show = %d, want clamped to %d", got, MaxPageSize)
		}
		io.WriteString(w, `{"response": {"number_found": 0, "docs": []}}`)
	}))
	defer srv.Close()

	c := New(
		WithBaseURL(srv.URL),
		WithLimiter(ratelimit.New(1000, time.Hour, 0)),
		WithoutCache(),
	)

	if _, err := c.Search(SearchOptions{Query: "Jansen", PageSize: 100}); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
}

func TestShowReturnsRawDocument(t *testing.T) {
	upstream := &testUpstream{}
	c := newTestUpstreamClient(t, upstream)

	doc, err := c.Show("frl", "rec-0")
	if err != nil {
		t.Fatalf("Show() error = %v", err)
	}

	if len(doc.A2A.Persons) != 1 {
		t.Fatalf("got %d persons, want 1", len(doc.A2A.Persons))
	}
	// Raw documents keep their cross-references; only Normalize strips them
	if doc.A2A.Persons[0].Pid != "p1" {
		t.Errorf("pid = %q, want p1", doc.A2A.Persons[0].Pid)
	}
}

package warsources

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/morikuni/failure/v2"
	"github.com/mvdburg/stamboom/api/ratelimit"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(
		WithBaseURL(srv.URL),
		WithLimiter(ratelimit.New(1000, time.Hour, 0)),
	)
}

func TestSearchEncodesQueryIntoPath(t *testing.T) {
	var gotPath string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		io.WriteString(w, `{"items": [
			{"tuple": [{"id": "person-1", "class": ["Person"], "attributes": {"title": "Isaac de Vries"}}]}
		]}`)
	}))

	matches, err := c.Search("Isaac de Vries", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	want := "/search/person/" + url.PathEscape("Isaac de Vries") + "/results"
	if gotPath != want {
		t.Errorf("path = %q, want %q", gotPath, want)
	}
	if len(matches) != 1 || matches[0].Title != "Isaac de Vries" {
		t.Errorf("matches = %+v", matches)
	}
}

// personUpstream serves the four sub-resources of a composite read and
// can be told to fail one of them
type personUpstream struct {
	failSection string
}

func (u *personUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	section := "person"
	switch {
	case r.URL.Path == "/person/p-1":
	case r.URL.Path == "/person/p-1/events":
		section = "events"
	case r.URL.Path == "/person/p-1/related":
		section = "related"
	case r.URL.Path == "/person/p-1/sources":
		section = "sources"
	default:
		http.NotFound(w, r)
		return
	}

	if section == u.failSection {
		http.Error(w, "boom", http.StatusInternalServerError)
		return
	}

	if section == "person" {
		io.WriteString(w, `{"id": "p-1", "name": "Isaac de Vries"}`)
		return
	}
	io.WriteString(w, `[{"section": "`+section+`"}]`)
}

func TestGetPersonCombinesAllSections(t *testing.T) {
	c := newTestClient(t, &personUpstream{})

	doc, err := c.GetPerson("p-1")
	if err != nil {
		t.Fatalf("GetPerson() error = %v", err)
	}

	if doc.Person["name"] != "Isaac de Vries" {
		t.Errorf("person = %+v", doc.Person)
	}
	if len(doc.Events) != 1 || len(doc.Related) != 1 || len(doc.Sources) != 1 {
		t.Errorf("sections incomplete: events=%d related=%d sources=%d",
			len(doc.Events), len(doc.Related), len(doc.Sources))
	}
}

func TestGetPersonFailsWholeReadWhenOneSectionFails(t *testing.T) {
	// The third of four sub-fetches failing must fail the read; no
	// partial combined document may surface
	c := newTestClient(t, &personUpstream{failSection: "related"})

	doc, err := c.GetPerson("p-1")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !failure.Is(err, ErrPartialDocument) {
		t.Errorf("expected %v, got %v", ErrPartialDocument, err)
	}
	if doc != nil {
		t.Errorf("expected no partial document, got %+v", doc)
	}
}

package monument

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mvdburg/stamboom/api/ratelimit"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(
		WithBaseURL(srv.URL),
		WithLimiter(ratelimit.New(1000, time.Hour, 0)),
	)
}

func TestSearchUnwrapsTitles(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "de Vries" {
			t.Errorf("q = %q, want %q", got, "de Vries")
		}
		io.WriteString(w, `{"results": [
			{"id": 561862, "title": {"_type": "trans", "tr": {"en": "Isaac de Vries", "nl": "Isaac de Vries (NL)"}}, "url": "https://example.org/page/561862"}
		]}`)
	})

	matches, err := c.Search("de Vries", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].Title != "Isaac de Vries" {
		t.Errorf("title = %q, want unwrapped English title", matches[0].Title)
	}
	if matches[0].ID != "561862" {
		t.Errorf("id = %q, want 561862", matches[0].ID)
	}
}

func TestGetExtractsFieldsAfterUnwrapping(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/document/561862" {
			t.Errorf("path = %q, want /document/561862", r.URL.Path)
		}
		io.WriteString(w, `{
			"title": {"_type": "trans", "tr": {"en": "Isaac de Vries"}},
			"description": {"_type": "trans", "tr": {"nl": "<p>Woonde in <em>Amsterdam</em>.</p>"}},
			"birth_date": "1893-04-02",
			"death_date": "1943-02-12",
			"death_place": {"_type": "trans", "tr": {"nl": "Auschwitz"}}
		}`)
	})

	p, err := c.Get("561862")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if p.Title != "Isaac de Vries" {
		t.Errorf("title = %q", p.Title)
	}
	if p.DeathPlace != "Auschwitz" {
		t.Errorf("death place = %q, want fallback translation", p.DeathPlace)
	}
	// The HTML description is converted for terminal display
	if strings.Contains(p.Description, "<p>") {
		t.Errorf("description still contains HTML: %q", p.Description)
	}
	if !strings.Contains(p.Description, "Amsterdam") {
		t.Errorf("description lost its text: %q", p.Description)
	}
}

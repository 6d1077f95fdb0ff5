package wikitree

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/morikuni/failure/v2"
	"github.com/mvdburg/stamboom/api/fetch"
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

func TestGetProfileSendsRenamedKeyAndDefaults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("action"); got != "getProfile" {
			t.Errorf("action = %q, want getProfile", got)
		}
		// The parameter object's Name field travels as key
		if got := q.Get("key"); got != "Wiebrens-12" {
			t.Errorf("key = %q, want Wiebrens-12", got)
		}
		if got := q.Get("fields"); got != "Id,Name,BirthDate" {
			t.Errorf("fields = %q, want comma-joined list", got)
		}
		if got := q.Get("bioFormat"); got != "wiki" {
			t.Errorf("bioFormat = %q, want default wiki", got)
		}
		if got := q.Get("resolveRedirect"); got != "1" {
			t.Errorf("resolveRedirect = %q, want default 1", got)
		}
		io.WriteString(w, `[{"page_name": "Wiebrens-12", "profile": {"Id": 123, "Name": "Wiebrens-12"}, "status": 0}]`)
	})

	profile, err := c.GetProfile(ProfileParams{
		Name:   "Wiebrens-12",
		Fields: []string{"Id", "Name", "BirthDate"},
	})
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if got := profile["Name"]; got != "Wiebrens-12" {
		t.Errorf("profile Name = %v, want Wiebrens-12", got)
	}
}

func TestGetProfileDefaultsCanBeOverridden(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("bioFormat"); got != "html" {
			t.Errorf("bioFormat = %q, want html", got)
		}
		io.WriteString(w, `[{"profile": {"Id": 1}, "status": 0}]`)
	})

	_, err := c.GetProfile(ProfileParams{Name: "Wiebrens-12", BioFormat: "html"})
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
}

func TestGetRelativesJoinsKeys(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("keys"); got != "Wiebrens-12,Meulen-3" {
			t.Errorf("keys = %q, want comma-joined names", got)
		}
		if got := q.Get("getSpouses"); got != "1" {
			t.Errorf("getSpouses = %q, want 1", got)
		}
		io.WriteString(w, `[{"items": [{"key": "Wiebrens-12", "person": {"Id": 123}}]}]`)
	})

	items, err := c.GetRelatives(RelativesParams{
		Names:      []string{"Wiebrens-12", "Meulen-3"},
		GetSpouses: true,
	})
	if err != nil {
		t.Fatalf("GetRelatives() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
}

func TestCallDistinguishesErrorKinds(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode any
	}{
		{
			name:     "upstream error payload",
			body:     `[{"status": "Invalid page"}]`,
			wantCode: ErrAPIError,
		},
		{
			name:     "empty list where one element was expected",
			body:     `[]`,
			wantCode: ErrUnexpectedPayload,
		},
		{
			name:     "malformed response body",
			body:     `<html>maintenance</html>`,
			wantCode: fetch.ErrMalformedResponse,
		},
		{
			name:     "success payload missing the profile",
			body:     `[{"status": 0}]`,
			wantCode: ErrUnexpectedPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, tt.body)
			})

			_, err := c.GetProfile(ProfileParams{Name: "Wiebrens-12"})
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !failure.Is(err, tt.wantCode) {
				t.Errorf("expected %v, got %v", tt.wantCode, err)
			}
		})
	}
}

func TestSearchPerson(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("action"); got != "searchPerson" {
			t.Errorf("action = %q, want searchPerson", got)
		}
		if got := q.Get("LastName"); got != "Wiebrens" {
			t.Errorf("LastName = %q, want Wiebrens", got)
		}
		io.WriteString(w, `[{"matches": [{"Id": 1, "Name": "Wiebrens-12"}, {"Id": 2, "Name": "Wiebrens-13"}], "total": 2}]`)
	})

	matches, err := c.SearchPerson(SearchParams{LastName: "Wiebrens", Limit: 10})
	if err != nil {
		t.Fatalf("SearchPerson() error = %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("got %d matches, want 2", len(matches))
	}
}

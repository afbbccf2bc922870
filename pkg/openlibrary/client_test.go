package openlibrary

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func newTestClient(endpoint string) *Client {
	return NewClient(Config{
		Endpoint:  endpoint,
		RateLimit: 1000, // don't slow tests down
	})
}

func TestBuildQueryPrimaryField(t *testing.T) {
	tests := []struct {
		name      string
		mode      Mode
		wantParam string
	}{
		{"all mode uses q", ModeAll, "q"},
		{"title mode", ModeTitle, "title"},
		{"author mode", ModeAuthor, "author"},
		{"isbn mode", ModeISBN, "isbn"},
	}

	c := newTestClient("http://example.test/search.json")
	primary := []string{"q", "title", "author", "isbn"}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := c.buildQuery(Query{Mode: tt.mode, Text: "dune", Page: 1, PageSize: 20})

			if got := v.Get(tt.wantParam); got != "dune" {
				t.Errorf("param %s = %q, want %q", tt.wantParam, got, "dune")
			}
			// Exactly one primary field must be present.
			for _, p := range primary {
				if p != tt.wantParam && v.Get(p) != "" {
					t.Errorf("unexpected primary param %s=%q", p, v.Get(p))
				}
			}
			if v.Get("page") != "1" {
				t.Errorf("page = %q, want 1", v.Get("page"))
			}
			if v.Get("limit") != "20" {
				t.Errorf("limit = %q, want 20", v.Get("limit"))
			}
			if !strings.Contains(v.Get("fields"), "ebook_count_i") {
				t.Errorf("fields selection missing ebook_count_i: %q", v.Get("fields"))
			}
		})
	}
}

func TestBuildQuerySubject(t *testing.T) {
	c := newTestClient("http://example.test/search.json")

	v := c.buildQuery(Query{Mode: ModeAll, Text: "dune", Subject: "science fiction"})
	if got := v.Get("subject"); got != "science fiction" {
		t.Errorf("subject = %q", got)
	}

	v = c.buildQuery(Query{Mode: ModeAll, Text: "dune"})
	if _, ok := v["subject"]; ok {
		t.Error("empty subject must not be sent")
	}
}

func TestSearchDecodesDocs(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"numFound": 312,
			"docs": [
				{
					"key": "/works/OL45883W",
					"title": "Dune",
					"author_name": ["Frank Herbert"],
					"first_publish_year": 1965,
					"publish_year": [1965, 1990, 2005],
					"publisher": ["Chilton Books"],
					"edition_count": 120,
					"cover_i": 11481354,
					"language": ["eng", "fre"],
					"ebook_count_i": 3,
					"subject": ["Science fiction", "Deserts"],
					"ratings_average": 4.2
				}
			]
		}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	res, err := c.Search(context.Background(), Query{Mode: ModeTitle, Text: "dune", Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if gotQuery.Get("title") != "dune" {
		t.Errorf("server saw title=%q", gotQuery.Get("title"))
	}
	if res.NumFound != 312 {
		t.Errorf("NumFound = %d, want 312", res.NumFound)
	}
	if len(res.Books) != 1 {
		t.Fatalf("got %d books, want 1", len(res.Books))
	}

	b := res.Books[0]
	if b.Key != "/works/OL45883W" || b.Title != "Dune" {
		t.Errorf("unexpected book: %+v", b)
	}
	if b.FirstPublishYear != 1965 || b.EbookCount != 3 || b.CoverID != 11481354 {
		t.Errorf("unexpected numeric fields: %+v", b)
	}
	if len(b.Languages) != 2 || b.Languages[0] != "eng" {
		t.Errorf("unexpected languages: %v", b.Languages)
	}
}

func TestSearchNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := c.Search(context.Background(), Query{Mode: ModeAll, Text: "dune"}); err == nil {
		t.Error("expected error for non-200 status")
	}
}

func TestSearchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newTestClient("http://127.0.0.1:0/search.json")
	_, err := c.Search(ctx, Query{Mode: ModeAll, Text: "dune"})
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestParseMode(t *testing.T) {
	if got := ParseMode("author"); got != ModeAuthor {
		t.Errorf("ParseMode(author) = %v", got)
	}
	if got := ParseMode("bogus"); got != ModeAll {
		t.Errorf("ParseMode(bogus) = %v, want all", got)
	}
}

func TestCoverURL(t *testing.T) {
	c := NewClient(Config{CoversEndpoint: "https://covers.test"})

	if got := c.CoverURL(123, "L"); got != "https://covers.test/b/id/123-L.jpg" {
		t.Errorf("CoverURL = %q", got)
	}
	if got := c.CoverURL(123, "x"); got != "https://covers.test/b/id/123-M.jpg" {
		t.Errorf("unknown size should fall back to M, got %q", got)
	}
	if got := c.CoverURL(0, "L"); got != "" {
		t.Errorf("missing cover id must yield empty URL, got %q", got)
	}
}

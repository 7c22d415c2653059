package websearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const resultsPage = `<!DOCTYPE html>
<html><body>
<a href="/url?q=https://go.dev/doc&sa=U">Go docs</a>
<a href="https://en.wikipedia.org/wiki/Go">Wikipedia</a>
<a href="/url?q=https://www.google.com/imghp">ignored google link</a>
<a href="/search?q=related">ignored internal link</a>
<a href="https://go.dev/doc">duplicate after redirect form</a>
<a href="https://pkg.go.dev/std">Stdlib</a>
</body></html>`

func TestLinks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "golang" {
			t.Errorf("query = %q, want golang", got)
		}
		w.Write([]byte(resultsPage))
	}))
	defer srv.Close()

	s := NewGoogleSearcherWithBase(srv.URL)
	links, err := s.Links(context.Background(), "golang", 5)
	if err != nil {
		t.Fatalf("Links failed: %v", err)
	}

	want := []string{"https://go.dev/doc", "https://en.wikipedia.org/wiki/Go", "https://pkg.go.dev/std"}
	if len(links) != len(want) {
		t.Fatalf("got %d links (%v), want %d", len(links), links, len(want))
	}
	for i := range want {
		if links[i] != want[i] {
			t.Errorf("links[%d] = %q, want %q", i, links[i], want[i])
		}
	}
}

func TestLinksLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(resultsPage))
	}))
	defer srv.Close()

	s := NewGoogleSearcherWithBase(srv.URL)
	links, err := s.Links(context.Background(), "golang", 1)
	if err != nil {
		t.Fatalf("Links failed: %v", err)
	}
	if len(links) != 1 {
		t.Fatalf("got %d links, want 1", len(links))
	}
}

func TestLinksServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := NewGoogleSearcherWithBase(srv.URL)
	if _, err := s.Links(context.Background(), "golang", 5); err == nil {
		t.Fatal("Expected error on non-200 response")
	}
}

func TestExtractLinksMalformedHTML(t *testing.T) {
	// html.Parse is lenient; malformed markup should degrade, not fail.
	links, err := extractLinks(strings.NewReader("<a href='https://go.dev'>go<div>"), 3)
	if err != nil {
		t.Fatalf("extractLinks failed: %v", err)
	}
	if len(links) != 1 || links[0] != "https://go.dev" {
		t.Errorf("links = %v", links)
	}
}

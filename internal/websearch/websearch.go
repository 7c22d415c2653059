// Package websearch fetches Google result links for a query. It backs the
// realtime answer context and the open-app fallback.
package websearch

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/100.0.4896.75 Safari/537.36"

// Searcher returns up to n result links for a query.
type Searcher interface {
	Links(ctx context.Context, query string, n int) ([]string, error)
}

// GoogleSearcher scrapes the Google results page.
type GoogleSearcher struct {
	baseURL    string
	httpClient *http.Client
}

// NewGoogleSearcher creates a searcher against the live Google endpoint.
func NewGoogleSearcher() *GoogleSearcher {
	return &GoogleSearcher{
		baseURL: "https://www.google.com",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewGoogleSearcherWithBase creates a searcher against a custom endpoint.
// Tests point this at a local server.
func NewGoogleSearcherWithBase(baseURL string) *GoogleSearcher {
	s := NewGoogleSearcher()
	s.baseURL = baseURL
	return s
}

// Links fetches the results page and extracts up to n outbound result
// links in page order.
func (s *GoogleSearcher) Links(ctx context.Context, query string, n int) ([]string, error) {
	searchURL := fmt.Sprintf("%s/search?q=%s", s.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, "GET", searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch search results: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	links, err := extractLinks(resp.Body, n)
	if err != nil {
		return nil, fmt.Errorf("failed to parse search results: %w", err)
	}

	log.Printf("Search for %q returned %d links", query, len(links))
	return links, nil
}

// extractLinks walks the result page and collects outbound result hrefs.
// Google wraps results either as direct https anchors or as "/url?q=..."
// redirects; both are handled.
func extractLinks(r io.Reader, n int) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var links []string
	seen := make(map[string]bool)

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if len(links) >= n {
			return
		}
		if node.Type == html.ElementNode && node.Data == "a" {
			for _, attr := range node.Attr {
				if attr.Key != "href" {
					continue
				}
				if link, ok := resultLink(attr.Val); ok && !seen[link] {
					seen[link] = true
					links = append(links, link)
				}
			}
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	return links, nil
}

func resultLink(href string) (string, bool) {
	// Redirect-style result: /url?q=<target>&...
	if strings.HasPrefix(href, "/url?") {
		parsed, err := url.Parse(href)
		if err != nil {
			return "", false
		}
		target := parsed.Query().Get("q")
		if strings.HasPrefix(target, "http") && !strings.Contains(target, "google.com") {
			return target, true
		}
		return "", false
	}

	// Direct outbound anchor.
	if strings.HasPrefix(href, "http") && !strings.Contains(href, "google.com") {
		return href, true
	}

	return "", false
}

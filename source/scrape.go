package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ScrapeConfig configures the organization page scraper.
type ScrapeConfig struct {
	URL    string       // Organization page, ex. https://github.com/bebanjo (required)
	Client *http.Client // HTTP client (default: 30s timeout)
}

// Scrape returns a ListFunc that downloads the organization page and collects
// the text of every link inside an h3 heading, in document order.
func Scrape(cfg ScrapeConfig) ListFunc {
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	return func(ctx context.Context) ([]string, error) {
		if cfg.URL == "" {
			return nil, fmt.Errorf("scrape: organization url is required")
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.URL, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "text/html")

		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("scrape request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return nil, fmt.Errorf("scrape error (status %d): %s", resp.StatusCode, string(body))
		}

		doc, err := html.Parse(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("parse page: %w", err)
		}

		names := ExtractHeadingLinks(doc)
		if len(names) == 0 {
			return nil, fmt.Errorf("scrape %s: %w", cfg.URL, ErrNoRepositories)
		}
		return names, nil
	}
}

// ExtractHeadingLinks returns the trimmed text of each a element nested in an
// h3 element. Empty link texts are skipped.
func ExtractHeadingLinks(doc *html.Node) []string {
	var names []string
	var walk func(n *html.Node, inHeading bool)
	walk = func(n *html.Node, inHeading bool) {
		if n.Type == html.ElementNode {
			switch {
			case n.DataAtom == atom.H3:
				inHeading = true
			case n.DataAtom == atom.A && inHeading:
				if name := strings.TrimSpace(textContent(n)); name != "" {
					names = append(names, name)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inHeading)
		}
	}
	walk(doc, false)
	return names
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}

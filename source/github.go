package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// GitHubConfig configures the GitHub REST API provider.
type GitHubConfig struct {
	URL          string       // API base URL (default: https://api.github.com)
	Organization string       // Organization login (required)
	Token        string       // Optional token, sent as a bearer token
	PerPage      int          // Page size (default: 100)
	MaxPages     int          // Page limit (default: 10)
	Client       *http.Client // HTTP client (default: 30s timeout)
}

type githubRepository struct {
	Name string `json:"name"`
}

// GitHub returns a ListFunc that lists the repositories of an organization
// through the REST API, following pages until a short one.
func GitHub(cfg GitHubConfig) ListFunc {
	cfg.URL = strings.TrimRight(cfg.URL, "/")
	if cfg.URL == "" {
		cfg.URL = "https://api.github.com"
	}
	if cfg.PerPage <= 0 {
		cfg.PerPage = 100
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 10
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	return func(ctx context.Context) ([]string, error) {
		if cfg.Organization == "" {
			return nil, fmt.Errorf("github: organization is required")
		}

		var names []string
		for page := 1; page <= cfg.MaxPages; page++ {
			repos, err := fetchGitHubPage(ctx, client, cfg, page)
			if err != nil {
				return nil, err
			}
			for _, r := range repos {
				if r.Name != "" {
					names = append(names, r.Name)
				}
			}
			if len(repos) < cfg.PerPage {
				break
			}
		}

		if len(names) == 0 {
			return nil, fmt.Errorf("github %s: %w", cfg.Organization, ErrNoRepositories)
		}
		return names, nil
	}
}

func fetchGitHubPage(ctx context.Context, client *http.Client, cfg GitHubConfig, page int) ([]githubRepository, error) {
	q := url.Values{}
	q.Set("per_page", strconv.Itoa(cfg.PerPage))
	q.Set("page", strconv.Itoa(page))
	endpoint := cfg.URL + "/orgs/" + url.PathEscape(cfg.Organization) + "/repos?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.Token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("github error (status %d): %s", resp.StatusCode, string(body))
	}

	var repos []githubRepository
	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return repos, nil
}

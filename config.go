package omnibox

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/go-homedir"

	"github.com/bebanjo/omnibox/source"
)

// DefaultOrganizationURL is the organization whose repositories are suggested.
const DefaultOrganizationURL = "https://github.com/bebanjo"

// DefaultCacheDir is where the repository list is cached.
const DefaultCacheDir = "~/.omnibox"

// Config holds the omnibox configuration loaded from a TOML file.
type Config struct {
	Organization OrganizationConfig `toml:"organization"`
	Source       SourceConfig       `toml:"source"`
	Cache        CacheConfig        `toml:"cache"`
	Commands     []CommandConfig    `toml:"commands"`
}

// OrganizationConfig names the organization and its offline repository list.
type OrganizationConfig struct {
	URL      string   `toml:"url"`      // default: https://github.com/bebanjo
	Fallback []string `toml:"fallback"` // default: DefaultFallback
}

// SourceConfig configures how the repository list is acquired.
type SourceConfig struct {
	Provider string `toml:"provider"` // "scrape", "github", "static"
	URL      string `toml:"url"`      // page or API base override
	Token    string `toml:"token"`    // supports ${ENV_VAR} expansion
}

// CacheConfig configures repository list caching.
type CacheConfig struct {
	Backend    string `toml:"backend"`    // "file", "sqlite", "memory"
	Dir        string `toml:"dir"`        // default: ~/.omnibox
	Expiration string `toml:"expiration"` // duration string like "5m"
}

// CommandConfig declares an extra command opening <repository>/<path>.
type CommandConfig struct {
	Trigger     string `toml:"trigger"`
	Description string `toml:"description"`
	Path        string `toml:"path"`
}

// LoadConfig reads a TOML file at path and returns a parsed Config.
// Environment variables referenced as ${VAR_NAME} in the token field are expanded.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.Source.Token = expandEnvVars(cfg.Source.Token)

	return &cfg, nil
}

// OrganizationURL returns the configured organization URL without trailing slash.
func (c *Config) OrganizationURL() string {
	u := strings.TrimRight(strings.TrimSpace(c.Organization.URL), "/")
	if u == "" {
		return DefaultOrganizationURL
	}
	return u
}

// CacheDir returns the cache directory with ~ expanded. OMNIBOX_CACHE_DIR
// overrides the file.
func (c *Config) CacheDir() (string, error) {
	dir := c.Cache.Dir
	if envDir := os.Getenv("OMNIBOX_CACHE_DIR"); envDir != "" {
		dir = envDir
	}
	if dir == "" {
		dir = DefaultCacheDir
	}
	expanded, err := homedir.Expand(dir)
	if err != nil {
		return "", fmt.Errorf("expand cache dir %q: %w", dir, err)
	}
	return expanded, nil
}

// BuildListFunc constructs the acquisition function from the source configuration.
func (c *Config) BuildListFunc() (source.ListFunc, error) {
	switch c.Source.Provider {
	case "scrape", "":
		pageURL := c.Source.URL
		if pageURL == "" {
			pageURL = c.OrganizationURL()
		}
		return source.Scrape(source.ScrapeConfig{URL: pageURL}), nil
	case "github":
		org, err := organizationLogin(c.OrganizationURL())
		if err != nil {
			return nil, err
		}
		return source.GitHub(source.GitHubConfig{
			URL:          c.Source.URL,
			Organization: org,
			Token:        c.Source.Token,
		}), nil
	case "static":
		return source.Static(c.fallback()), nil
	default:
		return nil, fmt.Errorf("unknown source provider: %q", c.Source.Provider)
	}
}

// BuildCache constructs the cache backend. The returned close function
// releases it and is never nil.
func (c *Config) BuildCache(ctx context.Context) (Cache, func() error, error) {
	noop := func() error { return nil }

	if c.Cache.Backend == "memory" {
		return NewMemoryCache(), noop, nil
	}

	dir, err := c.CacheDir()
	if err != nil {
		return nil, noop, err
	}

	switch c.Cache.Backend {
	case "file", "":
		fc, err := NewFileCache(dir)
		if err != nil {
			return nil, noop, fmt.Errorf("create file cache: %w", err)
		}
		return fc, noop, nil
	case "sqlite":
		sc, err := NewSQLiteCache(ctx, filepath.Join(dir, CacheDBName))
		if err != nil {
			return nil, noop, fmt.Errorf("create sqlite cache: %w", err)
		}
		return sc, sc.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown cache backend: %q", c.Cache.Backend)
	}
}

// BuildCommands returns the built-in commands followed by the configured ones.
func (c *Config) BuildCommands() []Command {
	base := c.OrganizationURL()
	cmds := DefaultCommands(base)
	for _, cc := range c.Commands {
		cmds = append(cmds, PathCommand(base, cc.Trigger, cc.Description, cc.Path))
	}
	return cmds
}

// BuildSourceConfig constructs the CachedSource configuration.
func (c *Config) BuildSourceConfig(cache Cache, logger *slog.Logger) (CachedSourceConfig, error) {
	fetch, err := c.BuildListFunc()
	if err != nil {
		return CachedSourceConfig{}, fmt.Errorf("build list func: %w", err)
	}

	expiration, err := parseExpiration(c.Cache.Expiration)
	if err != nil {
		return CachedSourceConfig{}, fmt.Errorf("parse expiration: %w", err)
	}

	return CachedSourceConfig{
		Fetch:      fetch,
		Cache:      cache,
		Expiration: expiration,
		Fallback:   c.fallback(),
		Logger:     logger,
	}, nil
}

// BuildOptions assembles the runtime options: the cache backend, a CachedSource
// over the configured provider and the command table. The navigator is left to
// the caller. The returned close function releases the cache and is never nil.
func (c *Config) BuildOptions(ctx context.Context, logger *slog.Logger) (Options, func() error, error) {
	noop := func() error { return nil }

	cache, closeCache, err := c.BuildCache(ctx)
	if err != nil {
		return Options{}, noop, fmt.Errorf("build cache: %w", err)
	}

	srcCfg, err := c.BuildSourceConfig(cache, logger)
	if err != nil {
		_ = closeCache()
		return Options{}, noop, err
	}
	src, err := NewCachedSource(srcCfg)
	if err != nil {
		_ = closeCache()
		return Options{}, noop, fmt.Errorf("init source: %w", err)
	}

	return Options{
		BaseURL:  c.OrganizationURL(),
		Commands: c.BuildCommands(),
		Source:   src,
		Logger:   logger,
	}, closeCache, nil
}

func (c *Config) fallback() []string {
	if len(c.Organization.Fallback) == 0 {
		return DefaultFallback
	}
	return c.Organization.Fallback
}

// organizationLogin extracts the organization login from its page URL.
func organizationLogin(orgURL string) (string, error) {
	u, err := url.Parse(orgURL)
	if err != nil {
		return "", fmt.Errorf("parse organization url: %w", err)
	}
	login := path.Base(strings.TrimRight(u.Path, "/"))
	if login == "" || login == "." || login == "/" {
		return "", fmt.Errorf("organization url %q has no organization path", orgURL)
	}
	return login, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns in s with the corresponding environment variable values.
func expandEnvVars(s string) string {
	return os.Expand(s, func(key string) string {
		return os.Getenv(key)
	})
}

// parseExpiration parses a Go duration string. An empty string returns zero,
// which selects DefaultExpiration.
func parseExpiration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid expiration %q: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid expiration %q: must not be negative", s)
	}
	return d, nil
}

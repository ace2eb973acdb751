package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/bebanjo/omnibox"
	"github.com/spf13/cobra"
)

const defaultConfigFile = ".omnibox.toml"

// app bundles an Omnibox with the cached source behind it.
type app struct {
	box    *omnibox.Omnibox
	source *omnibox.CachedSource
	close  func() error
}

// loadConfig reads the configuration file. A missing file selects the defaults.
func loadConfig() (*omnibox.Config, error) {
	cfg, err := omnibox.LoadConfig(configPath)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load config: %w", err)
	}
	slog.Debug("config file not found, using defaults", "path", configPath)
	return &omnibox.Config{}, nil
}

func newApp(ctx context.Context, nav omnibox.Navigator) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	opts, closeCache, err := cfg.BuildOptions(ctx, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("build config: %w", err)
	}
	opts.Navigator = nav

	box, err := omnibox.New(opts)
	if err != nil {
		_ = closeCache()
		return nil, fmt.Errorf("init omnibox: %w", err)
	}

	src, _ := opts.Source.(*omnibox.CachedSource)
	return &app{box: box, source: src, close: closeCache}, nil
}

// inputText joins the arguments into the typed text. Without arguments it
// reads piped standard input.
func inputText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if !stdinPiped() {
		return "", fmt.Errorf("text is required")
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "omnibox",
	Short: "Jump to the repositories of a GitHub organization",
	Long: `omnibox resolves short text like "mov#p" to a page of an organization
repository: the repository itself, its pull requests, issues, wiki or a
single issue.

Type the first letters of a repository, then # and a command:
  mov        https://github.com/bebanjo/movida
  mov#p      https://github.com/bebanjo/movida/pulls
  mov#42     https://github.com/bebanjo/movida/issues/42`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		setupLogging(cmd.ErrOrStderr(), verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigFile, "configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug level)")

	rootCmd.AddCommand(
		newInitCommand(),
		newSuggestCommand(),
		newOpenCommand(),
		newListCommand(),
		newRefreshCommand(),
		newShellCommand(),
	)
}

// setupLogging installs the default slog logger: warnings only unless verbose.
func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newInitCommand() *cobra.Command {
	var (
		force    bool
		provider string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a " + defaultConfigFile + " configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, configPath, provider, force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration file")
	cmd.Flags().StringVar(&provider, "provider", "scrape", "repository list provider: scrape, github, static")
	return cmd
}

// runInit writes the configuration template to path.
func runInit(cmd *cobra.Command, path, provider string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("`%s` already exists (use --force to overwrite)", path)
		}
	}

	content, err := buildTemplate(provider)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
	fmt.Fprintln(cmd.OutOrStdout(), "Next: edit the organization url, then try `omnibox suggest mov`.")
	return nil
}

// buildTemplate returns the TOML configuration template for the given provider.
func buildTemplate(provider string) (string, error) {
	header := `# omnibox configuration

[organization]
url = "https://github.com/bebanjo"
# Served when the list cannot be fetched and nothing is cached.
fallback = ["movida", "sequence", "sheriff", "support", "tron"]

`

	var src string
	switch provider {
	case "github":
		src = `[source]
# Repository list provider: "scrape", "github", "static"
provider = "github"
# url = "https://api.github.com"
token = "${GITHUB_TOKEN}"
`
	case "static":
		src = `[source]
# Repository list provider: "scrape", "github", "static"
# "static" serves the fallback list above.
provider = "static"
`
	case "scrape", "":
		src = `[source]
# Repository list provider: "scrape", "github", "static"
provider = "scrape"
# url = ""            # page to scrape, defaults to the organization url
`
	default:
		return "", fmt.Errorf("unknown source provider: %q", provider)
	}

	rest := `
[cache]
# Cache backend: "file", "sqlite", "memory"
backend = "file"
dir = "~/.omnibox"
expiration = "5m"

# Extra commands, matched after the built-in p, i, w and issue number.
# [[commands]]
# trigger = "a"
# description = "actions"
# path = "actions"
`

	return header + src + rest, nil
}

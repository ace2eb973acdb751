package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bebanjo/omnibox"
	"github.com/spf13/cobra"
)

func newListCommand() *cobra.Command {
	var (
		limit   int
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "list [QUERY]",
		Short: "List repositories, best matches of QUERY first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer a.close()

			names, err := a.source.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("list: %w", err)
			}
			if len(args) > 0 {
				n := limit
				if n <= 0 {
					n = len(names)
				}
				names = omnibox.Rank(strings.Join(args, " "), names, n)
			} else if limit > 0 && len(names) > limit {
				names = names[:limit]
			}

			if jsonOut {
				data, err := json.MarshalIndent(names, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No repositories found.")
				return nil
			}
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%-30s  %s\n", name, a.box.RepositoryURL(name))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of repositories (0 = all)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")
	return cmd
}

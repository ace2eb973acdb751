package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRefreshCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Fetch the repository list now, ignoring the cache age",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer a.close()

			names, err := a.source.Refresh(cmd.Context())
			if err != nil {
				return fmt.Errorf("refresh: %w (serving %d repositories)", err, len(names))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Refreshed %d repositories.\n", len(names))
			return nil
		},
	}
}

package main

import (
	"fmt"

	"github.com/bebanjo/omnibox"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newShellCommand() *cobra.Command {
	var copyURL bool

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Type with live suggestions, press Enter to open",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			nav := omnibox.Browser()
			if copyURL {
				nav = omnibox.Clipboard()
			}

			a, err := newApp(cmd.Context(), nav)
			if err != nil {
				return err
			}
			defer a.close()

			final, err := tea.NewProgram(newShellModel(cmd.Context(), a.box)).Run()
			if err != nil {
				return fmt.Errorf("run shell: %w", err)
			}
			if m, ok := final.(shellModel); ok && m.err != nil {
				return m.err
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&copyURL, "copy", false, "copy the destination to the clipboard instead of opening it")
	return cmd
}

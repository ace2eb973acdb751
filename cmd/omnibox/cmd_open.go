package main

import (
	"context"
	"fmt"

	"github.com/bebanjo/omnibox"
	"github.com/spf13/cobra"
)

func newOpenCommand() *cobra.Command {
	var (
		copyURL  bool
		printURL bool
	)

	cmd := &cobra.Command{
		Use:   "open TEXT",
		Short: "Open the destination of typed text in the browser",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := inputText(cmd, args)
			if err != nil {
				return err
			}

			var nav omnibox.Navigator
			switch {
			case printURL:
				nav = omnibox.Writer(cmd.OutOrStdout())
			case copyURL:
				nav = omnibox.Clipboard()
			default:
				nav = omnibox.Browser()
			}

			opened := false
			a, err := newApp(cmd.Context(), omnibox.NavigatorFunc(func(ctx context.Context, url string) error {
				opened = true
				return nav.Open(ctx, url)
			}))
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.box.Enter(cmd.Context(), text); err != nil {
				return err
			}
			if !opened {
				return fmt.Errorf("no destination for %q", text)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&copyURL, "copy", false, "copy the destination to the clipboard")
	cmd.Flags().BoolVar(&printURL, "print", false, "print the destination instead of opening it")
	cmd.MarkFlagsMutuallyExclusive("copy", "print")
	return cmd
}

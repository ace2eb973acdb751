package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/bebanjo/omnibox"
	"github.com/spf13/cobra"
)

type suggestOutput struct {
	Event       string               `json:"event"`
	State       string               `json:"state"`
	Default     string               `json:"default"`
	Suggestions []omnibox.Suggestion `json:"suggestions"`
}

func newSuggestCommand() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "suggest TEXT",
		Short: "Show the suggestions for typed text",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := inputText(cmd, args)
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer a.close()

			inf := a.box.Infer(cmd.Context(), text)

			if jsonOut {
				data, err := json.MarshalIndent(suggestOutput{
					Event:       inf.Event,
					State:       inf.State.Kind.String(),
					Default:     inf.Default,
					Suggestions: inf.Suggestions,
				}, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			printInference(cmd.OutOrStdout(), inf, isTerminal(os.Stdout))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")
	return cmd
}

package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
)

func newStateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Dump the internal state of the notebook and its storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			nb, err := a.open(false)
			if err != nil {
				return err
			}
			state := nb.State()
			return a.render(cmd.OutOrStdout(), state, func(w io.Writer) {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				_ = enc.Encode(state)
			})
		},
	}
}

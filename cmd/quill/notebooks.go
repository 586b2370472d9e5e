package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aretw0/quill"
)

func newNotebooksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "notebooks",
		Short: "List the notebooks kept in the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := quill.Notebooks(a.storePath(),
				quill.WithReadOnly(true),
				quill.WithLogger(a.logger),
			)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), names, func(w io.Writer) {
				for _, n := range names {
					if n == "" {
						n = "(default)"
					}
					fmt.Fprintln(w, n)
				}
			})
		},
	}
}

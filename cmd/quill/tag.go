package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newTagCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage the tag registry",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <label>",
		Short: "Create a tag and print its id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nb, err := a.open(true)
			if err != nil {
				return err
			}
			tag, err := nb.AddTag(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), tag, func(w io.Writer) {
				fmt.Fprintln(w, tag.ID)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <id> <label>",
		Short: "Change the label of a tag",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			nb, err := a.open(true)
			if err != nil {
				return err
			}
			if _, ok := nb.Tag(args[0]); !ok {
				a.logger.Info("no such tag", "id", args[0])
			}
			return nb.RenameTag(cmd.Context(), args[0], args[1])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a tag; notes stop showing it",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nb, err := a.open(true)
			if err != nil {
				return err
			}
			if _, ok := nb.Tag(args[0]); !ok {
				a.logger.Info("no such tag", "id", args[0])
			}
			return nb.DeleteTag(cmd.Context(), args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tags in registry order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			nb, err := a.open(false)
			if err != nil {
				return err
			}
			tags := nb.Tags()
			return a.render(cmd.OutOrStdout(), tags, func(w io.Writer) {
				printTags(w, tags)
			})
		},
	})

	return cmd
}

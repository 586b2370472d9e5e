package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/aretw0/quill"
	"github.com/aretw0/quill/pkg/core"
)

func newListCmd(a *app) *cobra.Command {
	var (
		title  string
		labels []string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List notes with their resolved tags",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			nb, err := a.open(false)
			if err != nil {
				return err
			}

			filter := quill.Filter{Title: title}
			views := []quill.NoteView{}
			known := true
			for _, label := range labels {
				tags := nb.TagsByLabel(label)
				if len(tags) == 0 {
					known = false
					break
				}
				// A label names every tag carrying it; each --tag must match one of them.
				filter.TagSets = append(filter.TagSets, core.TagIDs(tags))
			}
			if known {
				views = nb.Search(filter)
			}

			return a.render(cmd.OutOrStdout(), views, func(w io.Writer) {
				printViews(w, views)
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Only notes whose title contains this text")
	cmd.Flags().StringSliceVar(&labels, "tag", nil, "Only notes carrying this tag label (repeatable)")
	return cmd
}

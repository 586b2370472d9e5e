package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/aretw0/quill"
)

type noteFlags struct {
	title     string
	body      string
	file      string
	tags      []string
	clearTags bool
}

func (f *noteFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "Note title")
	cmd.Flags().StringVarP(&f.body, "body", "b", "", "Markdown body")
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "Read the Markdown body from a file (- for stdin)")
	cmd.Flags().StringSliceVar(&f.tags, "tag", nil, "Tag label to attach (repeatable); missing tags are created")
}

// markdown returns the body from --file or --body, and whether either was given.
func (f *noteFlags) markdown(cmd *cobra.Command) (string, bool, error) {
	switch {
	case f.file == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", false, fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), true, nil
	case f.file != "":
		data, err := os.ReadFile(f.file)
		if err != nil {
			return "", false, fmt.Errorf("failed to read %s: %w", f.file, err)
		}
		return string(data), true, nil
	case cmd.Flags().Changed("body"):
		return f.body, true, nil
	}
	return "", false, nil
}

// resolveTags maps labels to registry tags, adding the ones that do not exist yet.
// A label shared by several tags attaches all of them.
func resolveTags(ctx context.Context, nb *quill.Notebook, labels []string) ([]quill.Tag, error) {
	tags := make([]quill.Tag, 0, len(labels))
	for _, label := range labels {
		if found := nb.TagsByLabel(label); len(found) > 0 {
			for _, t := range found {
				if !slices.ContainsFunc(tags, func(x quill.Tag) bool { return x.ID == t.ID }) {
					tags = append(tags, t)
				}
			}
			continue
		}
		t, err := nb.AddTag(ctx, label)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, nil
}

func newNoteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Create, change and inspect notes",
	}

	var create noteFlags
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a note and print its id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, _, err := create.markdown(cmd)
			if err != nil {
				return err
			}
			nb, err := a.open(true)
			if err != nil {
				return err
			}
			tags, err := resolveTags(cmd.Context(), nb, create.tags)
			if err != nil {
				return err
			}
			id, err := nb.CreateNote(cmd.Context(), quill.NoteData{
				Title:    create.title,
				Markdown: body,
				Tags:     tags,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	create.bind(createCmd)

	var update noteFlags
	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace the title, body or tags of a note",
		Long: `Replace the title, body or tags of a note.
Fields whose flags are not given keep their current value.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, bodySet, err := update.markdown(cmd)
			if err != nil {
				return err
			}
			nb, err := a.open(true)
			if err != nil {
				return err
			}

			current, ok := nb.StoredNote(args[0])
			if !ok {
				a.logger.Info("no such note", "id", args[0])
				return nil
			}

			data := quill.NoteData{
				Title:    current.Title,
				Markdown: current.Markdown,
				Tags:     make([]quill.Tag, 0, len(current.TagIDs)),
			}
			for _, id := range current.TagIDs {
				data.Tags = append(data.Tags, quill.Tag{ID: id})
			}
			if cmd.Flags().Changed("title") {
				data.Title = update.title
			}
			if bodySet {
				data.Markdown = body
			}
			switch {
			case update.clearTags:
				data.Tags = []quill.Tag{}
			case cmd.Flags().Changed("tag"):
				if data.Tags, err = resolveTags(cmd.Context(), nb, update.tags); err != nil {
					return err
				}
			}

			return nb.UpdateNote(cmd.Context(), args[0], data)
		},
	}
	update.bind(updateCmd)
	updateCmd.Flags().BoolVar(&update.clearTags, "clear-tags", false, "Detach every tag")

	deleteCmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a note",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nb, err := a.open(true)
			if err != nil {
				return err
			}
			if _, ok := nb.StoredNote(args[0]); !ok {
				a.logger.Info("no such note", "id", args[0])
			}
			return nb.DeleteNote(cmd.Context(), args[0])
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a note with its resolved tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nb, err := a.open(false)
			if err != nil {
				return err
			}
			view, ok := nb.Note(args[0])
			if !ok {
				return fmt.Errorf("note not found: %s", args[0])
			}
			return a.render(cmd.OutOrStdout(), view, func(w io.Writer) {
				fmt.Fprintf(w, "# %s\n", view.Title)
				if len(view.Tags) > 0 {
					fmt.Fprintf(w, "tags: %s\n", labels(view.Tags))
				}
				fmt.Fprintln(w)
				fmt.Fprintln(w, view.Markdown)
			})
		},
	}

	cmd.AddCommand(createCmd, updateCmd, deleteCmd, showCmd)
	return cmd
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/quill"
	"github.com/aretw0/quill/internal/config"
)

// render writes v in the configured format. text is used for the text format.
func (a *app) render(w io.Writer, v any, text func(io.Writer)) error {
	switch a.cfg.Format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		text(w)
		return nil
	}
}

func labels(tags []quill.Tag) string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = t.Label
	}
	return strings.Join(out, ",")
}

func printTags(w io.Writer, tags []quill.Tag) {
	for _, t := range tags {
		fmt.Fprintf(w, "%s\t%s\n", t.ID, t.Label)
	}
}

func printViews(w io.Writer, views []quill.NoteView) {
	for _, v := range views {
		fmt.Fprintf(w, "%s\t%s\t%s\n", v.ID, v.Title, labels(v.Tags))
	}
}

package main

import (
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/notjosh/rangy/internal/config"
)

// emit writes v in the configured format. Text output uses plain.
func emit(w io.Writer, v any, plain func(io.Writer)) error {
	switch cfg.Output {
	case config.OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case config.OutputTOML:
		if err := toml.NewEncoder(w).Encode(v); err != nil {
			return fmt.Errorf("encoding toml: %w", err)
		}
		return nil
	default:
		plain(w)
		return nil
	}
}

func printMatches(w io.Writer, res findResult) {
	if len(res.Matches) == 0 {
		fmt.Fprintf(w, "No matches for %q\n", res.Term)
		return
	}
	for _, m := range res.Matches {
		fmt.Fprintf(w, "[%d, %d) %q\n", m.Start, m.End, m.Text)
	}
}

func printTokens(w io.Writer, res wordsResult) {
	for _, t := range res.Tokens {
		kind := "     "
		if t.Word {
			kind = "word "
		}
		fmt.Fprintf(w, "%s[%d, %d) %q\n", kind, t.Start, t.End, t.Text)
	}
}

func printOffsets(w io.Writer, res offsetsResult) {
	fmt.Fprintf(w, "Characters: [%d, %d)\n", res.Start, res.End)
	fmt.Fprintf(w, "Start:      %s\n", res.StartBoundary)
	fmt.Fprintf(w, "End:        %s\n", res.EndBoundary)
	fmt.Fprintf(w, "Text:       %q\n", res.Text)
}

func printMove(w io.Writer, res moveResult) {
	fmt.Fprintf(w, "Moved %d of %d %s(s) from %d to %d\n",
		res.Moved, res.Requested, res.Unit, res.From, res.Offset)
}

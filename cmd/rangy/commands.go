package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/notjosh/rangy"
)

var textCmd = &cobra.Command{
	Use:   "text [file]",
	Short: "Print the visible text of the container",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWorkspace(cmd, args, func(w *workspace, s *rangy.Session) error {
			res := w.innerText(s)
			return emit(cmd.OutOrStdout(), res, func(out io.Writer) {
				fmt.Fprintln(out, res.Text)
			})
		})
	},
}

var findCmd = &cobra.Command{
	Use:   "find <term> [file]",
	Short: "List matches of a term or pattern in the visible text",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := findRequest{Term: args[0]}
		flags := cmd.Flags()
		req.Regexp, _ = flags.GetBool("regexp")
		req.CaseSensitive, _ = flags.GetBool("case-sensitive")
		req.WholeWords, _ = flags.GetBool("whole-words")
		req.Backward, _ = flags.GetBool("backward")
		req.Limit, _ = flags.GetInt("limit")

		return withWorkspace(cmd, args[1:], func(w *workspace, s *rangy.Session) error {
			res, err := w.find(s, req)
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), res, func(out io.Writer) {
				printMatches(out, res)
			})
		})
	},
}

var wordsCmd = &cobra.Command{
	Use:   "words [file]",
	Short: "List word and non-word tokens from a character offset",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		from, _ := flags.GetInt("from")
		backward, _ := flags.GetBool("backward")
		limit, _ := flags.GetInt("limit")

		return withWorkspace(cmd, args, func(w *workspace, s *rangy.Session) error {
			res, err := w.words(s, from, backward, limit)
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), res, func(out io.Writer) {
				printTokens(out, res)
			})
		})
	},
}

var offsetsCmd = &cobra.Command{
	Use:   "offsets <start> <end> [file]",
	Short: "Select characters by offset and show the resulting DOM range",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid start: %w", err)
		}
		end, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid end: %w", err)
		}

		return withWorkspace(cmd, args[2:], func(w *workspace, s *rangy.Session) error {
			res, err := w.offsets(s, start, end)
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), res, func(out io.Writer) {
				printOffsets(out, res)
			})
		})
	},
}

var moveCmd = &cobra.Command{
	Use:   "move <count> [file]",
	Short: "Move a caret by characters or words",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid count: %w", err)
		}
		flags := cmd.Flags()
		from, _ := flags.GetInt("from")
		unitName, _ := flags.GetString("unit")
		unit, err := parseUnit(unitName)
		if err != nil {
			return err
		}

		return withWorkspace(cmd, args[1:], func(w *workspace, s *rangy.Session) error {
			res, err := w.move(s, from, unit, count)
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), res, func(out io.Writer) {
				printMove(out, res)
			})
		})
	},
}

func init() {
	findCmd.Flags().BoolP("regexp", "e", false, "treat the term as a regular expression")
	findCmd.Flags().BoolP("case-sensitive", "C", false, "match case exactly")
	findCmd.Flags().BoolP("whole-words", "w", false, "only match whole words")
	findCmd.Flags().BoolP("backward", "b", false, "search from the end")
	findCmd.Flags().IntP("limit", "n", 0, "stop after this many matches (0 for all)")

	wordsCmd.Flags().Int("from", 0, "character offset to start from")
	wordsCmd.Flags().BoolP("backward", "b", false, "walk backward")
	wordsCmd.Flags().IntP("limit", "n", 0, "stop after this many tokens (0 for all)")

	moveCmd.Flags().Int("from", 0, "character offset of the caret")
	moveCmd.Flags().StringP("unit", "u", "character", "unit to move by: character or word")
}

// withWorkspace loads the input and runs fn inside one Session.
func withWorkspace(cmd *cobra.Command, args []string, fn func(*workspace, *rangy.Session) error) error {
	w, err := openWorkspace(cmd, args)
	if err != nil {
		return err
	}
	return w.lib.Do(nil, func(s *rangy.Session) error {
		err := fn(w, s)
		st := s.Stats()
		logger.Debug("session stats",
			"wrapperHits", st.WrapperHits,
			"wrapperMisses", st.WrapperMisses,
			"characterHits", st.CharacterHits,
			"characterMisses", st.CharacterMisses,
			"maxResolveDepth", st.MaxResolveDepth)
		return err
	})
}

package rangy

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"

	"github.com/notjosh/rangy/dom"
)

// Match is a search hit. Start is the boundary before the first matched
// character and End the boundary after the last. Valid is false when a
// whole-word search matched part of a word.
type Match struct {
	Start *Position
	End   *Position
	Valid bool
}

// Range returns the Range between the Match's boundaries.
func (m *Match) Range() Range {
	return Range{Start: m.Start.Boundary(), End: m.End.Boundary()}
}

// CompilePattern compiles a search pattern, optionally case-insensitive.
func CompilePattern(pattern string, caseInsensitive bool) (*regexp.Regexp, error) {
	if caseInsensitive {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}
	return re, nil
}

// FindTextFromPosition scans the character stream from pos toward the edge
// of scope in opts.Direction and returns the first occurrence of term, or
// nil.
func (s *Session) FindTextFromPosition(pos *Position, term string, scope Range, opts FindOptions) *Match {
	opts = opts.resolve()
	return s.findFromPosition(pos, foldTerm(term, opts), nil, scope, opts)
}

// FindRegexpFromPosition is like FindTextFromPosition for a pattern. A match
// is reported once it can no longer grow, or when it reaches the edge of
// scope.
func (s *Session) FindRegexpFromPosition(pos *Position, re *regexp.Regexp, scope Range, opts FindOptions) *Match {
	return s.findFromPosition(pos, "", re, scope, opts.resolve())
}

// foldTerm applies Unicode case folding to term for case-insensitive
// searches.
func foldTerm(term string, opts FindOptions) string {
	if opts.CaseSensitive {
		return term
	}
	return cases.Fold().String(term)
}

func (s *Session) findFromPosition(initial *Position, term string, re *regexp.Regexp, scope Range, opts FindOptions) *Match {
	if re == nil && term == "" {
		return nil
	}
	backward := opts.Direction == Backward
	scopeStart, scopeEnd := s.rangePositions(scope)
	limit := scopeEnd
	if backward {
		limit = scopeStart
	}
	it := newCharacterIterator(initial, backward, limit, opts.Character)
	defer it.Dispose()

	s.lib.logger.Debug("find from position",
		"session", s.id,
		"from", initial.Inspect(),
		"scope", scope.String(),
		"direction", opts.Direction.String(),
		"regexp", re != nil)

	// Characters in the order they were read.
	var read []*Position
	var texts []string
	inside := false
	var matchStart, matchEnd int
	var fold cases.Caser
	if re == nil && !opts.CaseSensitive {
		fold = cases.Fold()
	}

	for pos := it.Next(); pos != nil; pos = it.Next() {
		c := pos.character(opts.Character)
		if re == nil && !opts.CaseSensitive {
			c = fold.String(c)
		}
		read = append(read, pos)
		texts = append(texts, c)

		if re == nil {
			if n := matchAtFrontier(texts, term, backward); n > 0 {
				chars := documentOrder(read, backward)
				if backward {
					return s.handleMatch(chars, 0, n, opts)
				}
				return s.handleMatch(chars, len(chars)-n, len(chars), opts)
			}
			continue
		}

		text, offsets := joinStrings(documentOrder(texts, backward))
		loc := firstNonEmptyMatch(re, text)
		if loc == nil {
			continue
		}
		matchStart, matchEnd = charIndex(offsets, loc[0]), charIndex(offsets, loc[1])
		if !inside {
			inside = true
			continue
		}
		if (!backward && matchEnd < len(texts)) || (backward && matchStart > 0) {
			return s.handleMatch(documentOrder(read, backward), matchStart, matchEnd, opts)
		}
	}

	if inside {
		return s.handleMatch(documentOrder(read, backward), matchStart, matchEnd, opts)
	}
	return nil
}

// matchAtFrontier reports how many of the most recently read characters
// spell term, or 0 if they do not. Forward the most recent characters are at
// the end of the text; backward they are at its start.
func matchAtFrontier(texts []string, term string, backward bool) int {
	size, n := 0, 0
	for i := len(texts) - 1; i >= 0 && size < len(term); i-- {
		size += len(texts[i])
		n++
	}
	if size != len(term) {
		return 0
	}
	var b strings.Builder
	if backward {
		for i := len(texts) - 1; i >= len(texts)-n; i-- {
			b.WriteString(texts[i])
		}
	} else {
		for _, t := range texts[len(texts)-n:] {
			b.WriteString(t)
		}
	}
	if b.String() != term {
		return 0
	}
	return n
}

func documentOrder[T any](read []T, backward bool) []T {
	if !backward {
		return read
	}
	out := make([]T, len(read))
	for i, v := range read {
		out[len(read)-1-i] = v
	}
	return out
}

func joinStrings(texts []string) (string, []int) {
	var b strings.Builder
	offsets := make([]int, 0, len(texts)+1)
	for _, t := range texts {
		offsets = append(offsets, b.Len())
		b.WriteString(t)
	}
	offsets = append(offsets, b.Len())
	return b.String(), offsets
}

func firstNonEmptyMatch(re *regexp.Regexp, text string) []int {
	for _, loc := range re.FindAllStringIndex(text, -1) {
		if loc[1] > loc[0] {
			return loc
		}
	}
	return nil
}

func (s *Session) handleMatch(chars []*Position, start, end int, opts FindOptions) *Match {
	startPos := chars[start].PreviousVisible()
	if startPos == nil {
		startPos = chars[start]
	}
	endPos := chars[end-1]
	valid := !opts.WholeWordsOnly || s.isWholeWord(startPos, endPos, opts)
	return &Match{Start: startPos, End: endPos, Valid: valid}
}

// isWholeWord reports whether expanding the span to word boundaries leaves
// it unchanged.
func (s *Session) isWholeWord(start, end *Position, opts FindOptions) bool {
	r := Range{Start: start.Boundary(), End: end.Boundary()}
	_, moved := s.expandToWords(r, ExpandOptions{Character: opts.Character, Word: opts.Word})
	return !moved
}

// FindText searches for term from r: forward from its start or backward from
// its end, within opts.Within or the whole tree. Matches that fail the
// whole-word check are skipped. With opts.Wrap the search continues once from
// the other edge of the scope up to the starting point.
func (s *Session) FindText(r Range, term string, opts FindOptions) (Range, bool) {
	opts = opts.resolve()
	return s.findText(r, foldTerm(term, opts), nil, opts)
}

// FindRegexp is like FindText for a pattern. opts.CaseSensitive is not used;
// compile the pattern with CompilePattern to control case.
func (s *Session) FindRegexp(r Range, re *regexp.Regexp, opts FindOptions) (Range, bool) {
	return s.findText(r, "", re, opts.resolve())
}

func (s *Session) findText(r Range, term string, re *regexp.Regexp, opts FindOptions) (Range, bool) {
	backward := opts.Direction == Backward

	var scope Range
	if opts.Within != nil {
		scope = *opts.Within
	} else {
		scope = NodeContents(dom.Root(r.Start.Node))
	}

	initial := r.Start
	if backward {
		initial = r.End
	}
	c, err := scope.ComparePoint(initial)
	if err != nil {
		s.lib.logger.Debug("find outside scope", "session", s.id, "error", err)
		return Range{}, false
	}
	if c < 0 {
		initial = scope.Start
	} else if c > 0 {
		initial = scope.End
	}

	pos := s.boundaryPosition(initial)
	wrapped := false
	for {
		m := s.findFromPosition(pos, term, re, scope, opts)
		switch {
		case m != nil && m.Valid:
			return m.Range(), true
		case m != nil:
			if backward {
				pos = m.Start
			} else {
				pos = m.End
			}
		case opts.Wrap && !wrapped:
			if backward {
				pos = s.boundaryPosition(scope.End)
				scope.Start = initial
			} else {
				pos = s.boundaryPosition(scope.Start)
				scope.End = initial
			}
			s.lib.logger.Debug("find wrapped", "session", s.id, "scope", scope.String())
			wrapped = true
		default:
			return Range{}, false
		}
	}
}

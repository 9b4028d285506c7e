package rangy

import (
	"fmt"
	"strings"

	"github.com/notjosh/rangy/dom"
)

// Text returns the visible text between r's boundaries.
func (s *Session) Text(r Range, opts CharacterOptions) string {
	return s.text(r, opts.resolve())
}

func (s *Session) text(r Range, opts CharacterOptions) string {
	var b strings.Builder
	for _, p := range s.rangeCharacters(r, opts) {
		b.WriteString(p.character(opts))
	}
	return b.String()
}

// textLength returns the number of visible characters in r.
func (s *Session) textLength(r Range, opts CharacterOptions) int {
	return len(s.rangeCharacters(r, opts))
}

// InnerText returns the visible text of node's contents.
func (s *Session) InnerText(node dom.Node, opts CharacterOptions) string {
	text := s.Text(NodeContents(node), opts)
	s.lib.logger.Debug("inner text", "session", s.id, "node", dom.Inspect(node), "length", len(text))
	return text
}

// ToCharacterRange converts r to character offsets counted from the boundary
// before container. A start before container gives a negative offset.
func (s *Session) ToCharacterRange(r Range, container dom.Node, opts CharacterOptions) (CharacterRange, error) {
	opts = opts.resolve()
	origin := Boundary{Node: container}
	if parent := container.Parent(); parent != nil {
		origin = Boundary{Node: parent, Offset: dom.Index(container)}
	}

	c, err := dom.ComparePoints(r.Start.Node, r.Start.Offset, origin.Node, origin.Offset)
	if err != nil {
		return CharacterRange{}, fmt.Errorf("character range of %s: %w", r, err)
	}
	var start int
	if c < 0 {
		start = -s.textLength(Range{Start: r.Start, End: origin}, opts)
	} else {
		start = s.textLength(Range{Start: origin, End: r.Start}, opts)
	}
	return CharacterRange{Start: start, End: start + s.textLength(r, opts)}, nil
}

// SelectCharacters returns the Range covering characters [start, end) of
// container's contents. Offsets beyond the stream clamp to its edge and an
// end before start gives a collapsed Range.
func (s *Session) SelectCharacters(container dom.Node, start, end int, opts CharacterOptions) Range {
	moveOpts := MoveOptions{Character: opts}.resolve()

	res := s.movePositionBy(s.Position(container, 0), CharacterUnit, start, moveOpts)
	b := res.Position.Boundary()
	r := Collapsed(b.Node, b.Offset)

	res = s.movePositionBy(res.Position, CharacterUnit, end-start, moveOpts)
	return r.WithEnd(res.Position.Boundary())
}

// SavedRange is a Range stored as character offsets.
type SavedRange struct {
	CharacterRange `yaml:",inline"`
	Backward       bool             `yaml:"backward,omitempty"`
	Character      CharacterOptions `yaml:"-"`
}

// SaveCharacterRanges stores ranges as character offsets relative to
// container so that they survive changes to the tree that keep its text.
// backward is recorded only for a single range.
func (s *Session) SaveCharacterRanges(ranges []Range, backward bool, container dom.Node, opts CharacterOptions) ([]SavedRange, error) {
	backward = backward && len(ranges) == 1
	saved := make([]SavedRange, 0, len(ranges))
	for _, r := range ranges {
		cr, err := s.ToCharacterRange(r, container, opts)
		if err != nil {
			return nil, err
		}
		saved = append(saved, SavedRange{CharacterRange: cr, Backward: backward, Character: opts})
	}
	return saved, nil
}

// RestoreCharacterRanges converts saved offsets back into Ranges.
func (s *Session) RestoreCharacterRanges(container dom.Node, saved []SavedRange) []Range {
	ranges := make([]Range, 0, len(saved))
	for _, sr := range saved {
		ranges = append(ranges, s.SelectCharacters(container, sr.Start, sr.End, sr.Character))
	}
	return ranges
}

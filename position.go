package rangy

import (
	"fmt"
	"strings"

	"github.com/notjosh/rangy/dom"
)

// CharacterType classifies the character preceding a Position.
type CharacterType int

const (
	Empty CharacterType = iota
	NonSpace
	UncollapsibleSpace
	CollapsibleSpace
	TrailingSpaceBeforeBlock
	TrailingSpaceInBlock
	TrailingSpaceBeforeBr
	PreLineTrailingSpaceBeforeLineBreak
	TrailingLineBreakAfterBr
	IncludedTrailingLineBreakAfterBr
)

var characterTypeNames = [...]string{
	Empty:                               "EMPTY",
	NonSpace:                            "NON_SPACE",
	UncollapsibleSpace:                  "UNCOLLAPSIBLE_SPACE",
	CollapsibleSpace:                    "COLLAPSIBLE_SPACE",
	TrailingSpaceBeforeBlock:            "TRAILING_SPACE_BEFORE_BLOCK",
	TrailingSpaceInBlock:                "TRAILING_SPACE_IN_BLOCK",
	TrailingSpaceBeforeBr:               "TRAILING_SPACE_BEFORE_BR",
	PreLineTrailingSpaceBeforeLineBreak: "PRE_LINE_TRAILING_SPACE_BEFORE_LINE_BREAK",
	TrailingLineBreakAfterBr:            "TRAILING_LINE_BREAK_AFTER_BR",
	IncludedTrailingLineBreakAfterBr:    "INCLUDED_TRAILING_LINE_BREAK_AFTER_BR",
}

func (t CharacterType) String() string {
	if int(t) >= 0 && int(t) < len(characterTypeNames) {
		return characterTypeNames[t]
	}
	return fmt.Sprintf("CharacterType(%d)", int(t))
}

// Position is a boundary in the content tree together with the cached
// classification of the character immediately before it. Positions are
// owned by a Session; obtain them with Session.Position.
type Position struct {
	wrapper *nodeWrapper
	node    dom.Node
	offset  int

	// char is the provisional character, finalized per policy by Character.
	char     string
	charType CharacterType
	// kind records the relationship to the following line break, discovered
	// while resolving the character.
	kind CharacterType
	isBr bool

	prepopulated    bool
	invariant       bool
	checkLeading    bool
	checkTrailing   bool
	isLeadingSpace  bool
	isTrailingSpace bool

	resolved map[characterKey]string

	nextMemo            lazy[*Position]
	previousMemo        lazy[*Position]
	nextVisibleMemo     lazy[*Position]
	previousVisibleMemo lazy[*Position]
	nextUncollapsedMemo lazy[*Position]
}

// Node returns the Position's node.
func (p *Position) Node() dom.Node { return p.node }

// Offset returns the Position's offset in its node.
func (p *Position) Offset() int { return p.offset }

// Boundary returns the Position as a plain boundary value.
func (p *Position) Boundary() Boundary { return Boundary{Node: p.node, Offset: p.offset} }

// Equal reports whether p and o address the same boundary.
func (p *Position) Equal(o *Position) bool {
	return o != nil && p.node == o.node && p.offset == o.offset
}

// String returns the provisional character, which is the resolved one for
// positions produced by an iterator.
func (p *Position) String() string { return p.char }

// Inspect returns a debugging description.
func (p *Position) Inspect() string {
	return fmt.Sprintf("[Position(%s:%d)]", dom.Inspect(p.node), p.offset)
}

// CharacterType returns the policy-independent classification.
func (p *Position) CharacterType() CharacterType {
	p.resolveLeadingAndTrailingSpaces()
	return p.charType
}

func (p *Position) session() *Session { return p.wrapper.session }

// prepopulate classifies the preceding character independently of any
// policy. Positions whose character depends on their neighbours are given a
// provisional character.
func (p *Position) prepopulate() {
	if p.prepopulated {
		return
	}
	char, charType, invariant := "", Empty, false

	if p.offset > 0 {
		if p.wrapper.isText() {
			info := p.wrapper.textInfo()
			r := info.runes[p.offset-1]
			switch {
			case !info.collapseSpaces:
				char, charType, invariant = string(r), UncollapsibleSpace, true
			case !info.isSpace(r):
				char, charType, invariant = string(r), NonSpace, true
			case p.offset > 1 && info.isSpace(info.runes[p.offset-2]):
				// Collapses into the space before it.
			case info.preLine && info.spacesBeforeLineBreak(p.offset):
				char, charType = " ", PreLineTrailingSpaceBeforeLineBreak
			default:
				char, charType = " ", CollapsibleSpace
			}
		} else {
			if passed := p.wrapper.child(p.offset - 1); passed != nil && passed.Type() == dom.ElementNode {
				if pw := p.session().wrapper(passed); !pw.isCollapsed() {
					if strings.EqualFold(passed.Name(), "br") {
						char, charType = "\n", CollapsibleSpace
						p.isBr = true
					} else {
						p.checkTrailing = true
					}
				}
			}
			// A block following inline content implies a line break.
			if char == "" {
				if next := p.wrapper.child(p.offset); next != nil && next.Type() == dom.ElementNode {
					if !p.session().wrapper(next).isCollapsed() {
						p.checkLeading = true
					}
				}
			}
		}
	}

	p.prepopulated = true
	p.char = char
	p.charType = charType
	p.invariant = invariant
}

func (p *Position) isDefinitelyNonEmpty() bool {
	return p.charType == NonSpace || p.charType == UncollapsibleSpace
}

// resolveLeadingAndTrailingSpaces fills in the space synthesized by the
// adjacent elements. It never consults a character policy.
func (p *Position) resolveLeadingAndTrailingSpaces() {
	p.prepopulate()

	if p.checkTrailing {
		if space := p.session().wrapper(p.wrapper.child(p.offset - 1)).trailingSpace(); space != "" {
			p.isTrailingSpace = true
			p.char = space
			p.charType = CollapsibleSpace
		}
		p.checkTrailing = false
	}

	if p.checkLeading {
		if space := p.session().wrapper(p.wrapper.child(p.offset)).leadingSpace(); space != "" {
			p.isLeadingSpace = true
			p.char = space
			p.charType = CollapsibleSpace
		}
		p.checkLeading = false
	}
}

// precedingUncollapsed returns the nearest earlier position whose character
// is non-empty under opts. Earlier positions that are not settled yet are
// resolved oldest first, so each of them finds its own predecessors settled
// and resolution never nests more than one level.
func (p *Position) precedingUncollapsed(opts CharacterOptions) *Position {
	var pending []*Position
	var found *Position
	for pos := p.PreviousVisible(); pos != nil; pos = pos.PreviousVisible() {
		c, ok := pos.settledCharacter(opts)
		if !ok {
			pending = append(pending, pos)
			continue
		}
		if c != "" {
			found = pos
			break
		}
	}
	for i := len(pending) - 1; i >= 0; i-- {
		if pending[i].character(opts) != "" {
			found = pending[i]
		}
	}
	return found
}

// settledCharacter returns the character before p under opts when it is
// known without applying the collapsing rules: invariant characters,
// positions that can never produce one, and cached results.
func (p *Position) settledCharacter(opts CharacterOptions) (string, bool) {
	p.resolveLeadingAndTrailingSpaces()
	if p.invariant {
		if opts.ignores(p.char) {
			return "", true
		}
		return p.char, true
	}
	if p.charType != CollapsibleSpace && p.charType != PreLineTrailingSpaceBeforeLineBreak {
		return "", true
	}
	c, ok := p.resolved[opts.key()]
	return c, ok
}

// Character returns the character preceding p as a renderer would display
// it under opts: a single character or the empty string.
func (p *Position) Character(opts CharacterOptions) string {
	return p.character(opts.resolve())
}

// character is Character for already resolved options.
func (p *Position) character(opts CharacterOptions) string {
	s := p.session()
	if s.ended {
		violation(ErrSessionEnded, "character of %s", p.Inspect())
	}
	p.resolveLeadingAndTrailingSpaces()

	if p.invariant {
		if opts.ignores(p.char) {
			return ""
		}
		return p.char
	}

	key := opts.key()
	if c, ok := p.resolved[key]; ok {
		s.stats.CharacterHits++
		return c
	}
	s.stats.CharacterMisses++

	s.depth++
	if s.depth > s.stats.MaxResolveDepth {
		s.stats.MaxResolveDepth = s.depth
	}
	c := p.decide(opts)
	s.depth--

	if opts.ignores(c) {
		c = ""
	}
	if p.resolved == nil {
		p.resolved = make(map[characterKey]string)
	}
	p.resolved[key] = c
	return c
}

// decide applies the collapsing rules to a provisional character.
func (p *Position) decide(opts CharacterOptions) string {
	if p.charType != CollapsibleSpace && p.charType != PreLineTrailingSpaceBeforeLineBreak {
		return ""
	}
	if p.kind == IncludedTrailingLineBreakAfterBr {
		return "\n"
	}

	var previous *Position
	gotPrevious := false
	previousPos := func() *Position {
		if !gotPrevious {
			previous = p.precedingUncollapsed(opts)
			gotPrevious = true
		}
		return previous
	}

	thisChar := p.char

	// A space at the start, or after a trailing space, a line break or
	// another collapsible space, collapses.
	if thisChar == " " {
		prev := previousPos()
		if prev == nil || prev.isTrailingSpace || prev.char == "\n" ||
			(prev.char == " " && prev.charType == CollapsibleSpace) {
			return ""
		}
	}

	if thisChar == "\n" && p.isLeadingSpace {
		if prev := previousPos(); prev != nil && prev.char != "\n" {
			return "\n"
		}
		return ""
	}

	next := p.NextUncollapsed()
	if next == nil {
		return ""
	}

	if p.charType == PreLineTrailingSpaceBeforeLineBreak && p.kind == Empty {
		p.kind = PreLineTrailingSpaceBeforeLineBreak
	}
	switch {
	case next.isBr:
		p.kind = TrailingSpaceBeforeBr
	case next.isTrailingSpace && next.char == "\n":
		p.kind = TrailingSpaceInBlock
	case next.isLeadingSpace && next.char == "\n":
		p.kind = TrailingSpaceBeforeBlock
	}

	if next.char != "\n" {
		return thisChar
	}

	switch {
	case p.kind == TrailingSpaceBeforeBr && !opts.IncludeSpaceBeforeBr:
		return ""
	case p.kind == TrailingSpaceBeforeBlock && !opts.IncludeSpaceBeforeBlock:
		return ""
	case p.kind == TrailingSpaceInBlock && next.isTrailingSpace && !opts.IncludeBlockContentTrailingSpace:
		return ""
	case p.kind == PreLineTrailingSpaceBeforeLineBreak && next.charType == NonSpace && !opts.IncludePreLineTrailingSpace:
		return ""
	case thisChar == "\n":
		if !next.isTrailingSpace {
			return "\n"
		}
		if p.isTrailingSpace || !p.isBr {
			return ""
		}
		// A block's trailing line break directly after a <br> is dropped in
		// favour of the <br>'s own, unless nothing but a leading line break
		// precedes the <br>.
		next.kind = TrailingLineBreakAfterBr
		if prev := previousPos(); prev != nil && prev.isLeadingSpace && !prev.isTrailingSpace && prev.char == "\n" {
			next.char = ""
		} else {
			next.kind = IncludedTrailingLineBreakAfterBr
		}
		return ""
	case thisChar == " ":
		return " "
	}
	return ""
}

// Next returns the following position in document order, or nil at the end
// of the tree.
func (p *Position) Next() *Position {
	return p.nextMemo.get(func() *Position {
		w := p.wrapper
		if p.offset == w.length() {
			parent := w.parent()
			if parent == nil {
				return nil
			}
			return parent.position(w.index() + 1)
		}
		if w.isCharacterData() {
			return w.position(p.offset + 1)
		}
		child := p.session().wrapper(w.child(p.offset))
		if child.containsPositions() {
			return child.position(0)
		}
		return w.position(p.offset + 1)
	})
}

// Previous returns the preceding position in document order, or nil at the
// start of the tree.
func (p *Position) Previous() *Position {
	return p.previousMemo.get(func() *Position {
		w := p.wrapper
		if p.offset == 0 {
			parent := w.parent()
			if parent == nil {
				return nil
			}
			return parent.position(w.index())
		}
		if w.isCharacterData() {
			return w.position(p.offset - 1)
		}
		child := p.session().wrapper(w.child(p.offset - 1))
		if child.containsPositions() {
			return child.position(child.length())
		}
		return w.position(p.offset - 1)
	})
}

// NextVisible is like Next but steps over collapsed subtrees.
func (p *Position) NextVisible() *Position {
	return p.nextVisibleMemo.get(func() *Position {
		next := p.Next()
		if next == nil {
			return nil
		}
		if w := next.wrapper; w.isCollapsed() {
			parent := w.parent()
			if parent == nil {
				return nil
			}
			return parent.position(w.index() + 1)
		}
		return next
	})
}

// PreviousVisible is like Previous but steps over collapsed subtrees.
func (p *Position) PreviousVisible() *Position {
	return p.previousVisibleMemo.get(func() *Position {
		previous := p.Previous()
		if previous == nil {
			return nil
		}
		if w := previous.wrapper; w.isCollapsed() {
			parent := w.parent()
			if parent == nil {
				return nil
			}
			return parent.position(w.index())
		}
		return previous
	})
}

// NextUncollapsed returns the next visible position with a non-empty
// provisional character. It resolves synthesized spaces but never applies a
// character policy, so it cannot recurse into Character.
func (p *Position) NextUncollapsed() *Position {
	return p.nextUncollapsedMemo.get(func() *Position {
		for pos := p.NextVisible(); pos != nil; pos = pos.NextVisible() {
			pos.resolveLeadingAndTrailingSpaces()
			if pos.char != "" {
				return pos
			}
		}
		return nil
	})
}

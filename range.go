package rangy

import (
	"fmt"

	"github.com/notjosh/rangy/dom"
)

// Boundary is a point between characters: a node and an offset into it.
type Boundary struct {
	Node   dom.Node
	Offset int
}

func (b Boundary) String() string {
	return fmt.Sprintf("%s:%d", dom.Inspect(b.Node), b.Offset)
}

// Range is a pair of boundaries. Start is expected not to come after End.
type Range struct {
	Start Boundary
	End   Boundary
}

// NewRange returns the Range between (startNode, startOffset) and
// (endNode, endOffset).
func NewRange(startNode dom.Node, startOffset int, endNode dom.Node, endOffset int) Range {
	return Range{
		Start: Boundary{Node: startNode, Offset: startOffset},
		End:   Boundary{Node: endNode, Offset: endOffset},
	}
}

// Collapsed returns the empty Range at (node, offset).
func Collapsed(node dom.Node, offset int) Range {
	return NewRange(node, offset, node, offset)
}

// NodeContents returns the Range spanning the contents of node.
func NodeContents(node dom.Node) Range {
	return NewRange(node, 0, node, dom.Length(node))
}

// IsCollapsed reports whether r is empty.
func (r Range) IsCollapsed() bool {
	return r.Start == r.End
}

// CollapseToStart returns the empty Range at r's start.
func (r Range) CollapseToStart() Range {
	return Range{Start: r.Start, End: r.Start}
}

// CollapseToEnd returns the empty Range at r's end.
func (r Range) CollapseToEnd() Range {
	return Range{Start: r.End, End: r.End}
}

// WithStart returns r with a new start. The end moves to the start when the
// start would otherwise pass it.
func (r Range) WithStart(b Boundary) Range {
	r.Start = b
	if c, err := dom.ComparePoints(r.Start.Node, r.Start.Offset, r.End.Node, r.End.Offset); err != nil || c > 0 {
		r.End = b
	}
	return r
}

// WithEnd returns r with a new end. The start moves to the end when the end
// would otherwise precede it.
func (r Range) WithEnd(b Boundary) Range {
	r.End = b
	if c, err := dom.ComparePoints(r.Start.Node, r.Start.Offset, r.End.Node, r.End.Offset); err != nil || c > 0 {
		r.Start = b
	}
	return r
}

// ComparePoint returns -1, 0 or 1 depending on whether b lies before, inside
// or after r.
func (r Range) ComparePoint(b Boundary) (int, error) {
	c, err := dom.ComparePoints(b.Node, b.Offset, r.Start.Node, r.Start.Offset)
	if err != nil {
		return 0, err
	}
	if c < 0 {
		return -1, nil
	}
	c, err = dom.ComparePoints(b.Node, b.Offset, r.End.Node, r.End.Offset)
	if err != nil {
		return 0, err
	}
	if c > 0 {
		return 1, nil
	}
	return 0, nil
}

func (r Range) String() string {
	return fmt.Sprintf("[%s, %s]", r.Start, r.End)
}

// CharacterRange is a pair of character offsets relative to a container.
type CharacterRange struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

func (c CharacterRange) String() string {
	return fmt.Sprintf("{%d, %d}", c.Start, c.End)
}

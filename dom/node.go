// Package dom defines the content tree contract that rangy addresses: nodes,
// their types and children, and the resolved style properties a renderer
// would use to lay them out.
package dom

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDisconnected indicates that two boundary points do not share a root.
var ErrDisconnected = errors.New("boundary points are in disconnected trees")

// NodeType identifies the kind of a node.
type NodeType int

const (
	ElementNode NodeType = iota + 1
	TextNode
	CommentNode
	ProcessingInstructionNode
	DocumentNode
	DocumentFragmentNode
	DoctypeNode
)

func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case CommentNode:
		return "comment"
	case ProcessingInstructionNode:
		return "processing-instruction"
	case DocumentNode:
		return "document"
	case DocumentFragmentNode:
		return "document-fragment"
	case DoctypeNode:
		return "doctype"
	}
	return fmt.Sprintf("NodeType(%d)", int(t))
}

// Node is one node of a content tree.
//
// Implementations must be comparable (typically pointer types) and must hand
// out the same value for the same underlying node, because node identity is
// used as a cache key. Parent must return a nil interface, not a typed nil,
// for the root.
type Node interface {
	Type() NodeType
	// Name is the lower-case tag name for elements and "#text", "#comment",
	// "#document" and so on for other node types.
	Name() string
	// Data is the character data of text, comment and processing
	// instruction nodes.
	Data() string
	Parent() Node
	ChildNodes() []Node
}

// Styler resolves the computed style properties rangy needs. Each method is
// only called with element nodes.
type Styler interface {
	// Display returns the computed display value, e.g. "block", "inline",
	// "table-cell" or "none".
	Display(el Node) string
	// WhiteSpace returns the computed white-space value, e.g. "normal" or
	// "pre-line".
	WhiteSpace(el Node) string
	// Visibility returns the computed visibility value, e.g. "visible".
	Visibility(el Node) string
}

// IsCharacterData reports whether n holds character data rather than
// children.
func IsCharacterData(n Node) bool {
	switch n.Type() {
	case TextNode, CommentNode, ProcessingInstructionNode:
		return true
	}
	return false
}

// Length returns the number of offsets inside n, excluding offset 0: the
// rune count for character data and the child count otherwise.
func Length(n Node) int {
	if IsCharacterData(n) {
		return len([]rune(n.Data()))
	}
	return len(n.ChildNodes())
}

// Index returns the index of n in its parent's child list, or 0 for a root.
func Index(n Node) int {
	p := n.Parent()
	if p == nil {
		return 0
	}
	for i, c := range p.ChildNodes() {
		if c == n {
			return i
		}
	}
	return 0
}

// Root walks up from n to the root of its tree.
func Root(n Node) Node {
	for {
		p := n.Parent()
		if p == nil {
			return n
		}
		n = p
	}
}

// IsAncestorOf reports whether ancestor is a proper ancestor of n.
func IsAncestorOf(ancestor, n Node) bool {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p == ancestor {
			return true
		}
	}
	return false
}

// NextNode returns the node following n in document order, or nil.
func NextNode(n Node) Node {
	if children := n.ChildNodes(); len(children) > 0 {
		return children[0]
	}
	for n != nil {
		p := n.Parent()
		if p == nil {
			return nil
		}
		siblings := p.ChildNodes()
		if i := Index(n); i+1 < len(siblings) {
			return siblings[i+1]
		}
		n = p
	}
	return nil
}

// PreviousNode returns the node preceding n in document order, or nil.
func PreviousNode(n Node) Node {
	p := n.Parent()
	if p == nil {
		return nil
	}
	i := Index(n)
	if i == 0 {
		return p
	}
	prev := p.ChildNodes()[i-1]
	for {
		children := prev.ChildNodes()
		if len(children) == 0 {
			return prev
		}
		prev = children[len(children)-1]
	}
}

// path returns the child indexes leading from the root of n's tree to n.
func path(n Node) (root Node, indexes []int) {
	for {
		p := n.Parent()
		if p == nil {
			break
		}
		indexes = append(indexes, Index(n))
		n = p
	}
	for i, j := 0, len(indexes)-1; i < j; i, j = i+1, j-1 {
		indexes[i], indexes[j] = indexes[j], indexes[i]
	}
	return n, indexes
}

// ComparePoints compares the boundary points (nodeA, offsetA) and
// (nodeB, offsetB) in document order, returning -1, 0 or 1.
func ComparePoints(nodeA Node, offsetA int, nodeB Node, offsetB int) (int, error) {
	if nodeA == nodeB {
		return compareInts(offsetA, offsetB), nil
	}
	rootA, pathA := path(nodeA)
	rootB, pathB := path(nodeB)
	if rootA != rootB {
		return 0, ErrDisconnected
	}
	pathA = append(pathA, offsetA)
	pathB = append(pathB, offsetB)
	for i := 0; i < len(pathA) && i < len(pathB); i++ {
		if c := compareInts(pathA[i], pathB[i]); c != 0 {
			return c, nil
		}
	}
	// One boundary's container encloses the other's: the shorter path sits
	// before the child it shares an index with.
	return compareInts(len(pathA), len(pathB)), nil
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Inspect returns a short human readable description of n.
func Inspect(n Node) string {
	if n == nil {
		return "[nil]"
	}
	switch n.Type() {
	case ElementNode:
		return fmt.Sprintf("<%s>[%d]", n.Name(), len(n.ChildNodes()))
	case TextNode:
		data := n.Data()
		if len(data) > 20 {
			data = data[:20] + "..."
		}
		return fmt.Sprintf("%q", data)
	}
	return "[" + strings.TrimPrefix(n.Name(), "#") + "]"
}

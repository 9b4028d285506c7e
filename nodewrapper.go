package rangy

import (
	"strings"

	"github.com/notjosh/rangy/dom"
)

// lazy memoizes a value computed on first use.
type lazy[T any] struct {
	done bool
	val  T
}

func (l *lazy[T]) get(compute func() T) T {
	if !l.done {
		l.val = compute()
		l.done = true
	}
	return l.val
}

// Void elements never contain positions.
var voidElements = map[string]bool{
	"area": true, "base": true, "basefont": true, "br": true, "col": true,
	"frame": true, "hr": true, "img": true, "input": true, "isindex": true,
	"link": true, "meta": true, "param": true,
}

// textNodeInfo describes how the white-space mode of a text node's parent
// treats its characters.
type textNodeInfo struct {
	runes          []rune
	collapseSpaces bool
	preLine        bool
}

// isSpace reports whether r belongs to the collapsible whitespace set.
func (t *textNodeInfo) isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\f', '\r':
		return true
	case '\n':
		return !t.preLine
	}
	return false
}

// spacesBeforeLineBreak reports whether the run of spaces starting at rune i
// ends at a line break.
func (t *textNodeInfo) spacesBeforeLineBreak(i int) bool {
	for ; i < len(t.runes); i++ {
		if !t.isSpace(t.runes[i]) {
			return t.runes[i] == '\n'
		}
	}
	return false
}

// nodeWrapper memoizes facts about one node for the lifetime of a Session.
type nodeWrapper struct {
	session   *Session
	node      dom.Node
	positions map[int]*Position

	memo struct {
		index               lazy[int]
		length              lazy[int]
		children            lazy[[]dom.Node]
		containsPositions   lazy[bool]
		whitespace          lazy[bool]
		collapsedWhitespace lazy[bool]
		hidden              lazy[bool]
		collapsed           lazy[bool]
		ignored             lazy[bool]
		display             lazy[string]
		textInfo            lazy[*textNodeInfo]
		innerText           lazy[bool]
		renderedBlock       lazy[bool]
		trailingSpace       lazy[string]
		leadingSpace        lazy[string]
	}
}

func newNodeWrapper(s *Session, node dom.Node) *nodeWrapper {
	return &nodeWrapper{
		session:   s,
		node:      node,
		positions: make(map[int]*Position),
	}
}

func (w *nodeWrapper) String() string {
	return "[nodeWrapper(" + dom.Inspect(w.node) + ")]"
}

func (w *nodeWrapper) position(offset int) *Position {
	if p, ok := w.positions[offset]; ok {
		return p
	}
	if offset < 0 || offset > w.length() {
		violation(ErrInvalidOffset, "offset %d in %s of length %d", offset, dom.Inspect(w.node), w.length())
	}
	p := &Position{wrapper: w, node: w.node, offset: offset}
	w.positions[offset] = p
	return p
}

func (w *nodeWrapper) isElement() bool {
	return w.node.Type() == dom.ElementNode
}

func (w *nodeWrapper) isText() bool {
	return w.node.Type() == dom.TextNode
}

func (w *nodeWrapper) isCharacterData() bool {
	return dom.IsCharacterData(w.node)
}

func (w *nodeWrapper) mustBeElement(fact string) {
	if !w.isElement() {
		violation(ErrNotElement, "%s of %s (%s)", fact, dom.Inspect(w.node), w.node.Type())
	}
}

func (w *nodeWrapper) childNodes() []dom.Node {
	return w.memo.children.get(w.node.ChildNodes)
}

// child returns the i-th child, or nil when there is none.
func (w *nodeWrapper) child(i int) dom.Node {
	children := w.childNodes()
	if i < 0 || i >= len(children) {
		return nil
	}
	return children[i]
}

func (w *nodeWrapper) parent() *nodeWrapper {
	p := w.node.Parent()
	if p == nil {
		return nil
	}
	return w.session.wrapper(p)
}

func (w *nodeWrapper) index() int {
	return w.memo.index.get(func() int {
		p := w.parent()
		if p == nil {
			return 0
		}
		for i, c := range p.childNodes() {
			if c == w.node {
				return i
			}
		}
		return 0
	})
}

func (w *nodeWrapper) length() int {
	return w.memo.length.get(func() int {
		if w.isCharacterData() {
			if w.isText() {
				return len(w.textInfo().runes)
			}
			return len([]rune(w.node.Data()))
		}
		return len(w.childNodes())
	})
}

func (w *nodeWrapper) containsPositions() bool {
	return w.memo.containsPositions.get(func() bool {
		return w.isCharacterData() || !voidElements[strings.ToLower(w.node.Name())]
	})
}

func (w *nodeWrapper) display() string {
	w.mustBeElement("display")
	return w.memo.display.get(func() string {
		return w.session.lib.styler.Display(w.node)
	})
}

// parentWhiteSpace is the white-space mode governing a text node.
func (w *nodeWrapper) parentWhiteSpace() string {
	p := w.parent()
	if p == nil || !p.isElement() {
		return "normal"
	}
	return w.session.lib.styler.WhiteSpace(p.node)
}

func (w *nodeWrapper) textInfo() *textNodeInfo {
	if !w.isText() {
		violation(ErrNotTextNode, "text info of %s (%s)", dom.Inspect(w.node), w.node.Type())
	}
	return w.memo.textInfo.get(func() *textNodeInfo {
		info := &textNodeInfo{runes: []rune(w.node.Data())}
		switch w.parentWhiteSpace() {
		case "pre-line":
			info.preLine = true
			info.collapseSpaces = true
		case "normal", "nowrap":
			info.collapseSpaces = true
		}
		return info
	})
}

// isWhitespace reports whether the node is a text node that is empty, or
// consists only of whitespace its parent's white-space mode collapses.
func (w *nodeWrapper) isWhitespace() bool {
	return w.memo.whitespace.get(func() bool {
		if !w.isText() {
			return false
		}
		data := w.node.Data()
		if data == "" {
			return true
		}
		p := w.parent()
		if p == nil || !p.isElement() {
			return false
		}
		switch w.session.lib.styler.WhiteSpace(p.node) {
		case "normal", "nowrap":
			return strings.Trim(data, "\t\n\r ") == ""
		case "pre-line":
			return strings.Trim(data, "\t\r ") == ""
		}
		return false
	})
}

// isCollapsedWhitespace reports whether the node is whitespace that renders
// as nothing regardless of its neighbours.
func (w *nodeWrapper) isCollapsedWhitespace() bool {
	return w.memo.collapsedWhitespace.get(func() bool {
		if !w.isText() {
			return false
		}
		if w.node.Data() == "" {
			return true
		}
		if !w.isWhitespace() {
			return false
		}
		if w.node.Parent() == nil {
			return true
		}
		return w.isHidden()
	})
}

// isHidden reports whether the node or an ancestor has display: none.
func (w *nodeWrapper) isHidden() bool {
	return w.memo.hidden.get(func() bool {
		if w.isElement() && w.display() == "none" {
			return true
		}
		if p := w.parent(); p != nil {
			return p.isHidden()
		}
		return false
	})
}

func (w *nodeWrapper) isVisibilityHiddenText() bool {
	if !w.isText() {
		return false
	}
	p := w.parent()
	return p != nil && p.isElement() && w.session.lib.styler.Visibility(p.node) == "hidden"
}

// isCollapsed reports whether the node and all its descendants contribute no
// characters.
func (w *nodeWrapper) isCollapsed() bool {
	return w.memo.collapsed.get(func() bool {
		switch w.node.Type() {
		case dom.CommentNode, dom.ProcessingInstructionNode:
			return true
		}
		if w.isHidden() {
			return true
		}
		switch strings.ToLower(w.node.Name()) {
		case "script", "style":
			return true
		}
		return w.isVisibilityHiddenText() || w.isCollapsedWhitespace()
	})
}

func (w *nodeWrapper) isIgnored() bool {
	return w.memo.ignored.get(func() bool {
		switch w.node.Type() {
		case dom.CommentNode, dom.ProcessingInstructionNode:
			return true
		case dom.ElementNode:
			return w.display() == "none"
		}
		return false
	})
}

// hasInnerText reports whether some position inside the element holds a
// character that is non-empty under every policy.
func (w *nodeWrapper) hasInnerText() bool {
	w.mustBeElement("inner text")
	return w.memo.innerText.get(func() bool {
		var end *Position
		if p := w.parent(); p != nil {
			end = p.position(w.index() + 1)
		}
		for pos := w.position(0); pos != nil && pos != end; pos = pos.NextVisible() {
			pos.prepopulate()
			if pos.isDefinitelyNonEmpty() {
				return true
			}
		}
		return false
	})
}

func (w *nodeWrapper) hasUncollapsedBr() bool {
	for _, c := range w.childNodes() {
		cw := w.session.wrapper(c)
		if !cw.isElement() {
			continue
		}
		if strings.EqualFold(c.Name(), "br") && !cw.isCollapsed() {
			return true
		}
		if cw.hasUncollapsedBr() {
			return true
		}
	}
	return false
}

// isRenderedBlock reports whether the element would occupy at least one line
// if laid out as a block.
func (w *nodeWrapper) isRenderedBlock() bool {
	w.mustBeElement("rendered block")
	return w.memo.renderedBlock.get(func() bool {
		return w.hasUncollapsedBr() || w.hasInnerText()
	})
}

// trailingSpace is the character a renderer inserts after the element.
func (w *nodeWrapper) trailingSpace() string {
	w.mustBeElement("trailing space")
	return w.memo.trailingSpace.get(func() string {
		if strings.EqualFold(w.node.Name(), "br") {
			return ""
		}
		switch w.display() {
		case "inline":
			children := w.childNodes()
			for i := len(children) - 1; i >= 0; i-- {
				cw := w.session.wrapper(children[i])
				if cw.isIgnored() {
					continue
				}
				if cw.isElement() {
					return cw.trailingSpace()
				}
				return ""
			}
			return ""
		case "inline-block", "inline-table", "none", "table-column", "table-column-group":
			return ""
		case "table-cell":
			return "\t"
		}
		if w.isRenderedBlock() {
			return "\n"
		}
		return ""
	})
}

// leadingSpace is the character a renderer inserts before the element.
func (w *nodeWrapper) leadingSpace() string {
	w.mustBeElement("leading space")
	return w.memo.leadingSpace.get(func() string {
		switch w.display() {
		case "inline", "inline-block", "inline-table", "none",
			"table-column", "table-column-group", "table-cell":
			return ""
		}
		if w.isRenderedBlock() {
			return "\n"
		}
		return ""
	})
}

// Package htmldom adapts golang.org/x/net/html trees to the dom contract and
// resolves display, white-space and visibility from a user-agent default
// table, <style> sheets and inline style attributes.
package htmldom

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/notjosh/rangy/dom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Node wraps one *html.Node. A Document hands out exactly one Node per
// html.Node so that Nodes can be compared by identity.
type Node struct {
	doc  *Document
	html *html.Node
}

// HTML returns the underlying html node.
func (n *Node) HTML() *html.Node { return n.html }

// Document returns the document n belongs to.
func (n *Node) Document() *Document { return n.doc }

func (n *Node) Type() dom.NodeType {
	switch n.html.Type {
	case html.ElementNode:
		return dom.ElementNode
	case html.TextNode, html.RawNode:
		return dom.TextNode
	case html.CommentNode:
		return dom.CommentNode
	case html.DocumentNode:
		if n == n.doc.root && n.doc.fragment {
			return dom.DocumentFragmentNode
		}
		return dom.DocumentNode
	case html.DoctypeNode:
		return dom.DoctypeNode
	}
	return dom.CommentNode
}

func (n *Node) Name() string {
	switch n.html.Type {
	case html.ElementNode:
		return strings.ToLower(n.html.Data)
	case html.TextNode, html.RawNode:
		return "#text"
	case html.CommentNode:
		return "#comment"
	case html.DocumentNode:
		return "#document"
	case html.DoctypeNode:
		return n.html.Data
	}
	return "#unknown"
}

func (n *Node) Data() string {
	switch n.html.Type {
	case html.TextNode, html.RawNode, html.CommentNode:
		return n.html.Data
	}
	return ""
}

func (n *Node) Parent() dom.Node {
	if n.html.Parent == nil {
		return nil
	}
	return n.doc.wrap(n.html.Parent)
}

func (n *Node) ChildNodes() []dom.Node {
	var children []dom.Node
	for c := n.html.FirstChild; c != nil; c = c.NextSibling {
		children = append(children, n.doc.wrap(c))
	}
	return children
}

// Attr returns the value of the named attribute and whether it is present.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.html.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, name) {
			return a.Val, true
		}
	}
	return "", false
}

func (n *Node) String() string { return dom.Inspect(n) }

// Options configures parsing.
type Options struct {
	// Stylesheets are extra author style sheets applied after any <style>
	// elements found in the document.
	Stylesheets []string
	// Logger receives warnings about unparseable CSS. Nil discards them.
	Logger *slog.Logger
}

// Document is a parsed HTML tree together with its style resolution state.
// It implements dom.Styler.
type Document struct {
	root     *Node
	fragment bool
	nodes    map[*html.Node]*Node
	logger   *slog.Logger

	sheets   []string
	rules    map[*html.Node][]declarationBlock
	computed map[*html.Node]*computedStyle
}

// Parse parses a complete HTML document.
func Parse(r io.Reader, opts Options) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	return newDocument(root, false, opts), nil
}

// ParseString parses a complete HTML document held in a string.
func ParseString(s string, opts Options) (*Document, error) {
	return Parse(strings.NewReader(s), opts)
}

// ParseFragment parses s as the content of a <body> and places the result
// inside a parentless <div>, which becomes the document root.
func ParseFragment(s string, opts Options) (*Document, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(s), context)
	if err != nil {
		return nil, fmt.Errorf("parsing html fragment: %w", err)
	}
	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return newDocument(root, true, opts), nil
}

// MustParseFragment is like ParseFragment but panics on error.
func MustParseFragment(s string) *Document {
	d, err := ParseFragment(s, Options{})
	if err != nil {
		panic(err)
	}
	return d
}

func newDocument(root *html.Node, fragment bool, opts Options) *Document {
	d := &Document{
		fragment: fragment,
		nodes:    make(map[*html.Node]*Node),
		logger:   opts.Logger,
		sheets:   opts.Stylesheets,
	}
	if d.logger == nil {
		d.logger = slog.New(slog.DiscardHandler)
	}
	d.root = d.wrap(root)
	d.Restyle()
	return d
}

func (d *Document) wrap(n *html.Node) *Node {
	if w, ok := d.nodes[n]; ok {
		return w
	}
	w := &Node{doc: d, html: n}
	d.nodes[n] = w
	return w
}

// Root returns the root node: the document node for Parse and the wrapping
// <div> for ParseFragment.
func (d *Document) Root() *Node { return d.root }

// Body returns the <body> element, or the root of a fragment.
func (d *Document) Body() *Node {
	if d.fragment {
		return d.root
	}
	if n := findFirst(d.root.html, func(n *html.Node) bool { return n.DataAtom == atom.Body }); n != nil {
		return d.wrap(n)
	}
	return d.root
}

// NodeFor returns the Node for an html.Node of this document.
func (d *Document) NodeFor(n *html.Node) *Node { return d.wrap(n) }

// GetElementByID returns the first element whose id attribute equals id.
func (d *Document) GetElementByID(id string) *Node {
	n := findFirst(d.root.html, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		for _, a := range n.Attr {
			if a.Key == "id" && a.Val == id {
				return true
			}
		}
		return false
	})
	if n == nil {
		return nil
	}
	return d.wrap(n)
}

// Text returns the i-th text node (in document order) below n, or nil.
func (d *Document) Text(n *Node, i int) *Node {
	var found *html.Node
	count := 0
	findFirst(n.html, func(h *html.Node) bool {
		if h.Type != html.TextNode {
			return false
		}
		if count == i {
			found = h
			return true
		}
		count++
		return false
	})
	if found == nil {
		return nil
	}
	return d.wrap(found)
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

// Render serializes n back to HTML.
func Render(w io.Writer, n *Node) error {
	return html.Render(w, n.html)
}

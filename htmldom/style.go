package htmldom

import (
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	selcss "github.com/ericchiang/css"
	"github.com/notjosh/rangy/dom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// declarationBlock is the declarations of one matched rule or inline style
// attribute, in cascade order.
type declarationBlock []*css.Declaration

type computedStyle struct {
	display    string
	whiteSpace string
	visibility string
}

// AddStylesheet applies an extra author style sheet and recomputes styles.
func (d *Document) AddStylesheet(sheet string) {
	d.sheets = append(d.sheets, sheet)
	d.Restyle()
}

// Restyle discards all computed styles and matches every style sheet again.
// It must be called after the underlying html tree is modified.
func (d *Document) Restyle() {
	d.rules = make(map[*html.Node][]declarationBlock)
	d.computed = make(map[*html.Node]*computedStyle)

	var sheets []string
	collectStyleElements(d.root.html, &sheets)
	sheets = append(sheets, d.sheets...)
	for _, sheet := range sheets {
		d.applySheet(sheet)
	}
	d.applyInlineStyles(d.root.html)
}

func collectStyleElements(n *html.Node, sheets *[]string) {
	if n.Type == html.ElementNode && n.DataAtom == atom.Style {
		var b strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			}
		}
		*sheets = append(*sheets, b.String())
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectStyleElements(c, sheets)
	}
}

func (d *Document) applySheet(sheet string) {
	ss, err := parser.Parse(sheet)
	if err != nil {
		d.logger.Warn("ignoring unparseable style sheet", "err", err)
		return
	}
	d.applyRules(ss.Rules)
}

func (d *Document) applyRules(rules []*css.Rule) {
	for _, rule := range rules {
		if rule.Kind != css.QualifiedRule {
			// Media queries and other at-rules are not evaluated.
			continue
		}
		sel, err := selcss.Parse(strings.Join(rule.Selectors, ","))
		if err != nil {
			d.logger.Warn("ignoring unsupported selector", "selector", rule.Prelude, "err", err)
			continue
		}
		for _, n := range sel.Select(d.root.html) {
			d.rules[n] = append(d.rules[n], rule.Declarations)
		}
	}
}

func (d *Document) applyInlineStyles(n *html.Node) {
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Key != "style" {
				continue
			}
			style := a.Val
			if !strings.HasSuffix(strings.TrimSpace(style), ";") {
				style += ";"
			}
			decls, err := parser.ParseDeclarations(style)
			if err != nil {
				d.logger.Warn("ignoring unparseable style attribute", "style", a.Val, "err", err)
				continue
			}
			d.rules[n] = append(d.rules[n], decls)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.applyInlineStyles(c)
	}
}

// declared returns the cascaded value of property for n: the last important
// declaration if any, else the last normal one.
func (d *Document) declared(n *html.Node, property string) (string, bool) {
	var normal, important string
	var hasNormal, hasImportant bool
	for _, block := range d.rules[n] {
		for _, decl := range block {
			if !strings.EqualFold(decl.Property, property) {
				continue
			}
			value := strings.ToLower(strings.TrimSpace(decl.Value))
			if decl.Important {
				important, hasImportant = value, true
			} else {
				normal, hasNormal = value, true
			}
		}
	}
	if hasImportant {
		return important, true
	}
	return normal, hasNormal
}

func (d *Document) style(n *html.Node) *computedStyle {
	if cs, ok := d.computed[n]; ok {
		return cs
	}
	var parent *computedStyle
	if n.Parent != nil && n.Parent.Type == html.ElementNode {
		parent = d.style(n.Parent)
	}

	cs := &computedStyle{
		display:    defaultDisplay(n),
		whiteSpace: "normal",
		visibility: "visible",
	}
	if parent != nil {
		cs.whiteSpace = parent.whiteSpace
		cs.visibility = parent.visibility
	}
	if ws, ok := defaultWhiteSpace[n.DataAtom]; ok {
		cs.whiteSpace = ws
	}

	if v, ok := d.declared(n, "display"); ok {
		cs.display = resolveKeyword(v, defaultDisplay(n), parentValue(parent, func(p *computedStyle) string { return p.display }, "inline"))
	}
	if v, ok := d.declared(n, "white-space"); ok {
		cs.whiteSpace = resolveKeyword(v, "normal", parentValue(parent, func(p *computedStyle) string { return p.whiteSpace }, "normal"))
	}
	if v, ok := d.declared(n, "visibility"); ok {
		cs.visibility = resolveKeyword(v, "visible", parentValue(parent, func(p *computedStyle) string { return p.visibility }, "visible"))
	}

	d.computed[n] = cs
	return cs
}

func parentValue(parent *computedStyle, get func(*computedStyle) string, fallback string) string {
	if parent == nil {
		return fallback
	}
	return get(parent)
}

func resolveKeyword(value, initial, inherited string) string {
	switch value {
	case "inherit":
		return inherited
	case "initial", "unset", "":
		return initial
	}
	return value
}

func (d *Document) element(n dom.Node) *html.Node {
	w, ok := n.(*Node)
	if !ok || w.doc != d || w.html.Type != html.ElementNode {
		return nil
	}
	return w.html
}

// Display implements dom.Styler.
func (d *Document) Display(el dom.Node) string {
	n := d.element(el)
	if n == nil {
		return "inline"
	}
	return d.style(n).display
}

// WhiteSpace implements dom.Styler.
func (d *Document) WhiteSpace(el dom.Node) string {
	n := d.element(el)
	if n == nil {
		return "normal"
	}
	return d.style(n).whiteSpace
}

// Visibility implements dom.Styler.
func (d *Document) Visibility(el dom.Node) string {
	n := d.element(el)
	if n == nil {
		return "visible"
	}
	return d.style(n).visibility
}

// Select returns the nodes below the root matching a CSS selector.
func (d *Document) Select(selector string) ([]*Node, error) {
	sel, err := selcss.Parse(selector)
	if err != nil {
		return nil, err
	}
	var nodes []*Node
	for _, n := range sel.Select(d.root.html) {
		nodes = append(nodes, d.wrap(n))
	}
	return nodes, nil
}

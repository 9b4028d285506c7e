package htmldom

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// User-agent display defaults, after the HTML rendering section. Anything not
// listed is inline.
var defaultDisplays = map[atom.Atom]string{
	atom.Address:    "block",
	atom.Article:    "block",
	atom.Aside:      "block",
	atom.Blockquote: "block",
	atom.Body:       "block",
	atom.Center:     "block",
	atom.Dd:         "block",
	atom.Details:    "block",
	atom.Dialog:     "block",
	atom.Dir:        "block",
	atom.Div:        "block",
	atom.Dl:         "block",
	atom.Dt:         "block",
	atom.Fieldset:   "block",
	atom.Figcaption: "block",
	atom.Figure:     "block",
	atom.Footer:     "block",
	atom.Form:       "block",
	atom.H1:         "block",
	atom.H2:         "block",
	atom.H3:         "block",
	atom.H4:         "block",
	atom.H5:         "block",
	atom.H6:         "block",
	atom.Header:     "block",
	atom.Hgroup:     "block",
	atom.Hr:         "block",
	atom.Html:       "block",
	atom.Legend:     "block",
	atom.Listing:    "block",
	atom.Main:       "block",
	atom.Menu:       "block",
	atom.Nav:        "block",
	atom.Ol:         "block",
	atom.Optgroup:   "block",
	atom.Option:     "block",
	atom.P:          "block",
	atom.Plaintext:  "block",
	atom.Pre:        "block",
	atom.Section:    "block",
	atom.Summary:    "block",
	atom.Ul:         "block",
	atom.Xmp:        "block",

	atom.Li: "list-item",

	atom.Table:    "table",
	atom.Caption:  "table-caption",
	atom.Colgroup: "table-column-group",
	atom.Col:      "table-column",
	atom.Thead:    "table-header-group",
	atom.Tbody:    "table-row-group",
	atom.Tfoot:    "table-footer-group",
	atom.Tr:       "table-row",
	atom.Td:       "table-cell",
	atom.Th:       "table-cell",

	atom.Button:   "inline-block",
	atom.Input:    "inline-block",
	atom.Select:   "inline-block",
	atom.Textarea: "inline-block",

	atom.Area:     "none",
	atom.Base:     "none",
	atom.Basefont: "none",
	atom.Datalist: "none",
	atom.Head:     "none",
	atom.Link:     "none",
	atom.Meta:     "none",
	atom.Noembed:  "none",
	atom.Noframes: "none",
	atom.Param:    "none",
	atom.Rp:       "none",
	atom.Script:   "none",
	atom.Style:    "none",
	atom.Template: "none",
	atom.Title:    "none",
}

var defaultWhiteSpace = map[atom.Atom]string{
	atom.Pre:       "pre",
	atom.Listing:   "pre",
	atom.Plaintext: "pre",
	atom.Xmp:       "pre",
	atom.Textarea:  "pre-wrap",
	atom.Nobr:      "nowrap",
}

func defaultDisplay(n *html.Node) string {
	for _, a := range n.Attr {
		if a.Key == "hidden" {
			return "none"
		}
	}
	if d, ok := defaultDisplays[n.DataAtom]; ok {
		return d
	}
	return "inline"
}

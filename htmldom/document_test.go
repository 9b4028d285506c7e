package htmldom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notjosh/rangy/dom"
	"golang.org/x/net/html"
)

func selectOne(t *testing.T, d *Document, selector string) *Node {
	t.Helper()
	nodes, err := d.Select(selector)
	require.NoError(t, err)
	require.Len(t, nodes, 1, selector)
	return nodes[0]
}

func TestParseFragmentRoot(t *testing.T) {
	d := MustParseFragment("<b>1</b>2")
	root := d.Root()

	assert.Nil(t, root.Parent())
	assert.Equal(t, "div", root.Name())
	assert.Equal(t, dom.ElementNode, root.Type())
	assert.Same(t, root, d.Body())
	assert.Len(t, root.ChildNodes(), 2)

	one := d.Text(root, 0)
	require.NotNil(t, one)
	assert.Equal(t, "1", one.Data())
	assert.Equal(t, dom.TextNode, one.Type())
	assert.Equal(t, "2", d.Text(root, 1).Data())
	assert.Nil(t, d.Text(root, 2))

	// Wrappers are stable so they can be used as map keys.
	assert.Same(t, one, d.Text(root, 0))
	assert.Same(t, root, one.Parent().Parent())
}

func TestGetElementByID(t *testing.T) {
	d := MustParseFragment(`<p id="a">x</p><p id="b">y</p>`)

	b := d.GetElementByID("b")
	require.NotNil(t, b)
	assert.Equal(t, "y", d.Text(b, 0).Data())
	v, ok := b.Attr("id")
	assert.True(t, ok)
	assert.Equal(t, "b", v)
	assert.Nil(t, d.GetElementByID("missing"))
}

func TestDefaultDisplay(t *testing.T) {
	d := MustParseFragment(`<p>a</p><span id="s">b</span><li>c</li><span id="h" hidden>d</span><script>e</script><br>`)

	tests := []struct {
		selector string
		want     string
	}{
		{"p", "block"},
		{"#s", "inline"},
		{"li", "list-item"},
		{"#h", "none"},
		{"script", "none"},
		{"br", "inline"},
	}
	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			nodes, err := d.Select(tt.selector)
			require.NoError(t, err)
			require.NotEmpty(t, nodes)
			assert.Equal(t, tt.want, d.Display(nodes[0]))
		})
	}
	assert.Equal(t, "block", d.Display(d.Root()))
}

func TestNonElementsUseInitialValues(t *testing.T) {
	d := MustParseFragment("<pre>a</pre>")
	text := d.Text(d.Root(), 0)

	assert.Equal(t, "inline", d.Display(text))
	assert.Equal(t, "normal", d.WhiteSpace(text))
	assert.Equal(t, "visible", d.Visibility(text))

	other := MustParseFragment("<pre>a</pre>")
	assert.Equal(t, "inline", d.Display(other.Root()))
}

func TestWhiteSpaceInheritance(t *testing.T) {
	d := MustParseFragment(`<pre><span>a</span></pre><p><span class="x">b</span></p>`)

	assert.Equal(t, "pre", d.WhiteSpace(selectOne(t, d, "pre")))
	assert.Equal(t, "pre", d.WhiteSpace(selectOne(t, d, "pre span")))
	assert.Equal(t, "normal", d.WhiteSpace(selectOne(t, d, ".x")))
}

func TestStyleElementRules(t *testing.T) {
	d := MustParseFragment(`<style>.gone { display: none } .lines { white-space: pre-line }</style>` +
		`<p class="gone">a</p><div class="lines"><span>b</span></div>`)

	assert.Equal(t, "none", d.Display(selectOne(t, d, "p")))
	assert.Equal(t, "pre-line", d.WhiteSpace(selectOne(t, d, ".lines")))
	assert.Equal(t, "pre-line", d.WhiteSpace(selectOne(t, d, ".lines span")))
}

func TestInlineStyles(t *testing.T) {
	d := MustParseFragment(`<div class="v" style="visibility:hidden"><i>a</i></div><b style="display: block;">b</b>`)

	assert.Equal(t, "hidden", d.Visibility(selectOne(t, d, ".v")))
	assert.Equal(t, "hidden", d.Visibility(selectOne(t, d, "i")))
	assert.Equal(t, "block", d.Display(selectOne(t, d, "b")))
}

func TestInlineStyleOverridesSheet(t *testing.T) {
	d := MustParseFragment(`<style>b { display: none }</style><b style="display: inline">b</b>`)

	assert.Equal(t, "inline", d.Display(selectOne(t, d, "b")))
}

func TestInheritKeyword(t *testing.T) {
	d := MustParseFragment(`<div><span style="display: inherit">a</span></div>`)

	assert.Equal(t, "block", d.Display(selectOne(t, d, "span")))
}

func TestExtraStylesheets(t *testing.T) {
	d, err := ParseFragment(`<p>a</p><em>b</em>`, Options{Stylesheets: []string{"p { display: inline }"}})
	require.NoError(t, err)

	assert.Equal(t, "inline", d.Display(selectOne(t, d, "p")))
	assert.Equal(t, "inline", d.Display(selectOne(t, d, "em")))

	d.AddStylesheet("em { display: block }")
	assert.Equal(t, "block", d.Display(selectOne(t, d, "em")))
	assert.Equal(t, "inline", d.Display(selectOne(t, d, "p")))
}

func TestRestyleAfterMutation(t *testing.T) {
	d := MustParseFragment(`<p>a</p>`)
	p := selectOne(t, d, "p")
	assert.Equal(t, "block", d.Display(p))

	p.HTML().Attr = append(p.HTML().Attr, html.Attribute{Key: "style", Val: "display: none"})
	assert.Equal(t, "block", d.Display(p))
	d.Restyle()
	assert.Equal(t, "none", d.Display(p))
}

func TestSelectInvalidSelector(t *testing.T) {
	d := MustParseFragment("a")
	_, err := d.Select("[[")
	assert.Error(t, err)
}

package rangy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// Whitespace collapsing
// ============================================================================

func TestInnerTextCollapsesSpaces(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{"single space", "One Two", "One Two"},
		{"double space", "One  Two", "One Two"},
		{"triple space", "One   Two", "One Two"},
		{"tab and newline", "One\t\nTwo", "One Two"},
		{"leading space", " One", "One"},
		{"trailing space", "One ", "One"},
		{"nbsp is kept", "One \u00a0 Two", "One \u00a0 Two"},
		{"spaces around nbsp spans", "<span>1</span> <span>\u00a0</span> <span>2</span>", "1 \u00a0 2"},
		{"space between spans", "<span>X</span> <span> Y</span>", "X Y"},
		{"only spaces", "   ", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestFixture(t, tt.markup)
			assert.Equal(t, tt.want, f.innerText(DefaultCharacterOptions()))
		})
	}
}

func TestInnerTextPreservedWhitespace(t *testing.T) {
	f := newTestFixture(t, "<pre>a  b</pre>")
	assert.Equal(t, "a  b", f.innerText(DefaultCharacterOptions()))
}

// ============================================================================
// Blocks, tables and line breaks
// ============================================================================

func TestInnerTextBlocks(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{"paragraphs", "<p>1</p><p>2</p>", "1\n2"},
		{"divs", "<div>x</div><div>y</div>", "x\ny"},
		{"whitespace between paragraphs", "<p>x </p> <p> y</p>", "x \ny"},
		{"table", "<table><tr><td>1</td><td>2</td></tr><tr><td>3</td><td>4</td></tr></table>", "1\t2\n3\t4"},
		{"display none", `<p>1</p><p style="display: none">2</p><p>3</p>`, "1\n3"},
		{"hidden attribute", `<p>1</p><p hidden>2</p><p>3</p>`, "1\n3"},
		{"visibility hidden", `<p>1</p><p style="visibility: hidden">2</p><p>3</p>`, "1\n3"},
		{"script", "1<script>var x;</script>2", "12"},
		{"comment", "1<!-- x -->2", "12"},
		{"whitespace after last block", "\n  <p>a</p>\n  <p>a</p>\n", "a\na\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestFixture(t, tt.markup)
			assert.Equal(t, tt.want, f.innerText(DefaultCharacterOptions()))
		})
	}
}

func TestInnerTextLineBreaks(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{"br", "1<br>2", "1\n2"},
		{"two brs", "1<br><br>2", "1\n\n2"},
		{"br at end of paragraph", "<p>1<br></p><p>2</p>", "1\n2"},
		{"br alone in block", "<div><br></div>", "\n"},
		{"br alone in nested block", "<div><div><br></div></div>", "\n"},
		{"br in block after text", "<div>x<div><br></div></div>", "x\n"},
		{"br in block between text", "<div>x<div><br></div>y</div>z", "x\ny\nz"},
		{"br blocks after text", "x<div><br></div><div><br></div>", "x\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestFixture(t, tt.markup)
			assert.Equal(t, tt.want, f.innerText(DefaultCharacterOptions()))
		})
	}
}

// ============================================================================
// Character policies
// ============================================================================

func TestInnerTextBlockContentTrailingSpace(t *testing.T) {
	f := newTestFixture(t, "<div>x </div><div>y</div>")
	assert.Equal(t, "x \ny", f.innerText(DefaultCharacterOptions()))

	g := newTestFixture(t, "<div>x </div><div>y</div>")
	assert.Equal(t, "x\ny", g.innerText(characterOptions(func(o *CharacterOptions) {
		o.IncludeBlockContentTrailingSpace = false
	})))
}

func TestInnerTextPoliciesShareSession(t *testing.T) {
	f := newTestFixture(t, "<p>x </p> <p> y</p>")
	off := characterOptions(func(o *CharacterOptions) { o.IncludeBlockContentTrailingSpace = false })

	assert.Equal(t, "x\ny", f.innerText(off))
	assert.Equal(t, "x \ny", f.innerText(DefaultCharacterOptions()))
	assert.Equal(t, "x\ny", f.innerText(off))
}

func TestInnerTextSpaceBeforeBr(t *testing.T) {
	f := newTestFixture(t, "x <br>y")
	assert.Equal(t, "x \ny", f.innerText(DefaultCharacterOptions()))

	g := newTestFixture(t, "x <br>y")
	assert.Equal(t, "x\ny", g.innerText(characterOptions(func(o *CharacterOptions) {
		o.IncludeSpaceBeforeBr = false
	})))
}

func TestInnerTextPreLineTrailingSpace(t *testing.T) {
	tests := []struct {
		name   string
		markup string
	}{
		{"single space", "<div style=\"white-space: pre-line\">a \nb</div>"},
		{"space run", "<div style=\"white-space: pre-line\">a  \t\nb</div>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestFixture(t, tt.markup)
			assert.Equal(t, "a\nb", f.innerText(DefaultCharacterOptions()))

			g := newTestFixture(t, tt.markup)
			assert.Equal(t, "a \nb", g.innerText(characterOptions(func(o *CharacterOptions) {
				o.IncludePreLineTrailingSpace = true
			})))
		})
	}
}

func TestInnerTextIgnoreCharacters(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		ignore string
		want   string
	}{
		{"space", "One Two", " ", "OneTwo"},
		{"letters", "1a2b3", "ba", "123"},
		{"nbsp", "1\u00a02", "\u00a0", "12"},
		{"line break", "<p>1</p><p>2</p>", "\n", "12"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestFixture(t, tt.markup)
			got := f.innerText(characterOptions(func(o *CharacterOptions) {
				o.IgnoreCharacters = tt.ignore
			}))
			assert.Equal(t, tt.want, got)
		})
	}
}

// ============================================================================
// Range text
// ============================================================================

func TestRangeText(t *testing.T) {
	f := newTestFixture(t, "12345")
	tn := f.text(t, 0)

	assert.Equal(t, "234", f.s.Text(NewRange(tn, 1, tn, 4), DefaultCharacterOptions()))
	assert.Equal(t, "", f.s.Text(Collapsed(tn, 2), DefaultCharacterOptions()))
	assert.Equal(t, "12345", f.s.Text(NodeContents(tn), DefaultCharacterOptions()))
}

func TestRangeTextCollapsedSpaces(t *testing.T) {
	f := newTestFixture(t, "12  34")
	tn := f.text(t, 0)
	assert.Equal(t, "2 3", f.s.Text(NewRange(tn, 1, tn, 5), DefaultCharacterOptions()))
}

func TestRangeTextHidden(t *testing.T) {
	f := newTestFixture(t, `1<span style="display: none">hidden</span>2`)
	span := f.element(t, "span")
	assert.Equal(t, "", f.s.Text(NodeContents(span), DefaultCharacterOptions()))
}

func TestLibraryInnerText(t *testing.T) {
	f := newTestFixture(t, "<p>One  Two</p><p>Three</p>")
	assert.Equal(t, "One Two\nThree", f.lib.InnerText(f.root, DefaultCharacterOptions()))
	assert.Equal(t, 1, f.lib.ActiveSessions(), "library sessions are temporary")
}

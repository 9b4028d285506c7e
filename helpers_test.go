package rangy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notjosh/rangy/dom"
	"github.com/notjosh/rangy/htmldom"
)

// fixture is a parsed fragment with a Library and a live Session. The
// fragment's root is a parentless <div>.
type fixture struct {
	doc  *htmldom.Document
	lib  *Library
	s    *Session
	root dom.Node
}

func newTestFixture(t *testing.T, markup string) *fixture {
	t.Helper()
	doc, err := htmldom.ParseFragment(markup, htmldom.Options{})
	require.NoError(t, err)
	lib, err := Init(LibraryOptions{Styler: doc})
	require.NoError(t, err)
	s := lib.NewSession()
	t.Cleanup(s.End)
	return &fixture{doc: doc, lib: lib, s: s, root: doc.Root()}
}

// text returns the i-th text node of the fragment.
func (f *fixture) text(t *testing.T, i int) dom.Node {
	t.Helper()
	n := f.doc.Text(f.doc.Root(), i)
	require.NotNil(t, n, "text node %d", i)
	return n
}

// element returns the first element matching selector.
func (f *fixture) element(t *testing.T, selector string) dom.Node {
	t.Helper()
	nodes, err := f.doc.Select(selector)
	require.NoError(t, err)
	require.NotEmpty(t, nodes, "no element matches %q", selector)
	return nodes[0]
}

func (f *fixture) innerText(opts CharacterOptions) string {
	return f.s.InnerText(f.root, opts)
}

func assertBoundary(t *testing.T, b Boundary, node dom.Node, offset int) {
	t.Helper()
	assert.Same(t, node, b.Node, "boundary %s", b)
	assert.Equal(t, offset, b.Offset, "boundary %s", b)
}

func assertRange(t *testing.T, r Range, startNode dom.Node, startOffset int, endNode dom.Node, endOffset int) {
	t.Helper()
	assertBoundary(t, r.Start, startNode, startOffset)
	assertBoundary(t, r.End, endNode, endOffset)
}

func assertPosition(t *testing.T, p *Position, node dom.Node, offset int) {
	t.Helper()
	require.NotNil(t, p)
	assertBoundary(t, p.Boundary(), node, offset)
}

// requireViolation runs fn and requires it to panic with an error wrapping
// target.
func requireViolation(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		require.NotNil(t, r, "expected a panic wrapping %v", target)
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		assert.True(t, errors.Is(err, target), "panic %v does not wrap %v", err, target)
	}()
	fn()
}

func characterOptions(modify func(*CharacterOptions)) CharacterOptions {
	opts := DefaultCharacterOptions()
	modify(&opts)
	return opts
}

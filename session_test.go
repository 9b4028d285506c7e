package rangy

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notjosh/rangy/dom"
	"github.com/notjosh/rangy/htmldom"
)

func TestInitRequiresStyler(t *testing.T) {
	_, err := Init(LibraryOptions{})
	assert.ErrorIs(t, err, ErrNoStyler)
}

func TestSessionLifecycle(t *testing.T) {
	doc := htmldom.MustParseFragment("One")
	lib, err := Init(LibraryOptions{Styler: doc})
	require.NoError(t, err)

	s1 := lib.NewSession()
	s2 := lib.NewSession()
	assert.NotEqual(t, s1.ID(), s2.ID())
	assert.Equal(t, 2, lib.ActiveSessions())

	s1.End()
	assert.True(t, s1.Ended())
	assert.Equal(t, 1, lib.ActiveSessions())
	s1.End()
	assert.Equal(t, 1, lib.ActiveSessions())

	requireViolation(t, ErrSessionEnded, func() { s1.Position(doc.Root(), 0) })

	s2.End()
	assert.Equal(t, 0, lib.ActiveSessions())
}

func TestSessionCaches(t *testing.T) {
	f := newTestFixture(t, "One  Two")
	opts := DefaultCharacterOptions()

	assert.Equal(t, "One Two", f.innerText(opts))
	first := f.s.Stats()
	assert.Positive(t, first.WrapperMisses)
	assert.Positive(t, first.CharacterMisses)
	assert.Positive(t, first.MaxResolveDepth)

	assert.Equal(t, "One Two", f.innerText(opts))
	second := f.s.Stats()
	assert.Equal(t, first.CharacterMisses, second.CharacterMisses)
	assert.Greater(t, second.CharacterHits, first.CharacterHits)
	assert.Greater(t, second.WrapperHits, first.WrapperHits)
}

func TestResolveDepthIsBounded(t *testing.T) {
	markup := "a" + strings.Repeat("<i> </i>", 200) + "b"
	opts := DefaultCharacterOptions()

	t.Run("backward", func(t *testing.T) {
		f := newTestFixture(t, markup)
		it := f.s.CharacterIterator(f.s.Position(f.root, dom.Length(f.root)), Backward, nil, opts)
		defer it.Dispose()

		var chars []string
		for p := it.Next(); p != nil; p = it.Next() {
			chars = append(chars, p.Character(opts))
		}
		assert.Equal(t, "b a", strings.Join(chars, ""))
		assert.LessOrEqual(t, f.s.Stats().MaxResolveDepth, 2)
		assert.Equal(t, "a b", f.innerText(opts))
	})

	t.Run("forward", func(t *testing.T) {
		f := newTestFixture(t, markup)
		assert.Equal(t, "a b", f.innerText(opts))
		assert.LessOrEqual(t, f.s.Stats().MaxResolveDepth, 2)
	})
}

func TestSessionInvalidate(t *testing.T) {
	f := newTestFixture(t, "One")
	tn := f.text(t, 0)

	p := f.s.Position(tn, 1)
	f.s.Invalidate()
	assert.NotSame(t, p, f.s.Position(tn, 1))
	assert.False(t, f.s.Ended())
}

func TestLibraryDo(t *testing.T) {
	f := newTestFixture(t, "One")

	err := f.lib.Do(f.s, func(s *Session) error {
		assert.Same(t, f.s, s)
		return nil
	})
	require.NoError(t, err)
	assert.False(t, f.s.Ended())

	var temporary *Session
	err = f.lib.Do(nil, func(s *Session) error {
		temporary = s
		assert.Equal(t, 2, f.lib.ActiveSessions())
		return errors.New("boom")
	})
	assert.EqualError(t, err, "boom")
	assert.True(t, temporary.Ended())
	assert.Equal(t, 1, f.lib.ActiveSessions())
}

func TestLibraryMutate(t *testing.T) {
	f := newTestFixture(t, "One")
	tn := f.doc.Text(f.doc.Root(), 0)
	opts := DefaultCharacterOptions()

	assert.Equal(t, "One", f.innerText(opts))

	err := f.lib.Mutate(func() error {
		tn.HTML().Data = "One  more"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "One more", f.innerText(opts))

	err = f.lib.Mutate(func() error { return errors.New("boom") })
	assert.ErrorContains(t, err, "mutating tree: boom")
}

func TestIteratorRewind(t *testing.T) {
	f := newTestFixture(t, "ab")
	tn := f.text(t, 0)

	it := f.s.CharacterIterator(f.s.Position(tn, 0), Forward, nil, DefaultCharacterOptions())
	defer it.Dispose()

	requireViolation(t, ErrNothingToRewind, it.Rewind)

	first := it.Next()
	assertPosition(t, first, tn, 1)
	it.Rewind()
	requireViolation(t, ErrDoubleRewind, it.Rewind)
	assert.Same(t, first, it.Next())
	assertPosition(t, it.Next(), tn, 2)
	assert.Nil(t, it.Next())
}

func TestIteratorBackwardWithEnd(t *testing.T) {
	f := newTestFixture(t, "abc")
	tn := f.text(t, 0)

	it := f.s.CharacterIterator(f.s.Position(tn, 3), Backward, f.s.Position(tn, 1), DefaultCharacterOptions())
	defer it.Dispose()

	var got []string
	for p := it.Next(); p != nil; p = it.Next() {
		got = append(got, p.Character(DefaultCharacterOptions()))
	}
	assert.Equal(t, []string{"c", "b"}, got)
}

func TestIteratorCollapsedRange(t *testing.T) {
	f := newTestFixture(t, "abc")
	tn := f.text(t, 0)

	for _, backward := range []bool{false, true} {
		it := f.s.rangeIterator(Collapsed(tn, 1), backward, DefaultCharacterOptions())
		assert.Nil(t, it.Next(), "backward=%v", backward)
		it.Dispose()
	}
}

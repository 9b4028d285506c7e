package rangy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// MovePositionBy
// ============================================================================

func TestMovePositionByCharacters(t *testing.T) {
	f := newTestFixture(t, "One Two")
	tn := f.text(t, 0)
	opts := DefaultMoveOptions()

	res := f.s.MovePositionBy(f.s.Position(tn, 0), CharacterUnit, 2, opts)
	assert.Equal(t, 2, res.UnitsMoved)
	assertPosition(t, res.Position, tn, 2)

	res = f.s.MovePositionBy(res.Position, CharacterUnit, -1, opts)
	assert.Equal(t, -1, res.UnitsMoved)
	assertPosition(t, res.Position, tn, 1)
}

func TestMovePositionByZero(t *testing.T) {
	f := newTestFixture(t, "One")
	p := f.s.Position(f.text(t, 0), 1)

	res := f.s.MovePositionBy(p, CharacterUnit, 0, DefaultMoveOptions())
	assert.Same(t, p, res.Position)
	assert.Equal(t, 0, res.UnitsMoved)
}

func TestMovePositionByClampsAtEdges(t *testing.T) {
	f := newTestFixture(t, "One")
	tn := f.text(t, 0)
	opts := DefaultMoveOptions()

	res := f.s.MovePositionBy(f.s.Position(f.root, 0), CharacterUnit, 10, opts)
	assert.Equal(t, 3, res.UnitsMoved)
	assertPosition(t, res.Position, tn, 3)

	res = f.s.MovePositionBy(f.s.Position(tn, 3), CharacterUnit, -10, opts)
	assert.Equal(t, -3, res.UnitsMoved)
	assertPosition(t, res.Position, tn, 0)
}

// ============================================================================
// MoveRange by character
// ============================================================================

func TestMoveStartOnTextNode(t *testing.T) {
	f := newTestFixture(t, "One Two")
	tn := f.text(t, 0)
	opts := DefaultMoveOptions()
	r := NodeContents(f.root)

	r, n := f.s.MoveRange(r, MoveStart, CharacterUnit, 2, opts)
	assert.Equal(t, 2, n)
	assertBoundary(t, r.Start, tn, 2)
	assert.Equal(t, "e Two", f.s.Text(r, opts.Character))

	r, n = f.s.MoveRange(r, MoveStart, CharacterUnit, 2, opts)
	assert.Equal(t, 2, n)
	assertBoundary(t, r.Start, tn, 4)
	assert.Equal(t, "Two", f.s.Text(r, opts.Character))
}

func TestMoveStartNegative(t *testing.T) {
	f := newTestFixture(t, "One Two")
	tn := f.text(t, 0)
	opts := DefaultMoveOptions()
	r := Collapsed(tn, 7)

	r, n := f.s.MoveRange(r, MoveStart, CharacterUnit, -2, opts)
	assert.Equal(t, -2, n)
	assertRange(t, r, tn, 5, tn, 7)
	assert.Equal(t, "wo", f.s.Text(r, opts.Character))

	r, n = f.s.MoveRange(r, MoveStart, CharacterUnit, -2, opts)
	assert.Equal(t, -2, n)
	assertRange(t, r, tn, 3, tn, 7)
	assert.Equal(t, " Two", f.s.Text(r, opts.Character))
}

func TestMoveEndOnTextNode(t *testing.T) {
	f := newTestFixture(t, "One Two")
	tn := f.text(t, 0)
	opts := DefaultMoveOptions()
	r := NodeContents(tn)

	r, n := f.s.MoveRange(r, MoveEnd, CharacterUnit, -2, opts)
	assert.Equal(t, -2, n)
	assertRange(t, r, tn, 0, tn, 5)
	assert.Equal(t, "One T", f.s.Text(r, opts.Character))

	r, n = f.s.MoveRange(r, MoveEnd, CharacterUnit, -2, opts)
	assert.Equal(t, -2, n)
	assertRange(t, r, tn, 0, tn, 3)
	assert.Equal(t, "One", f.s.Text(r, opts.Character))
}

func TestMoveStartAcrossBr(t *testing.T) {
	f := newTestFixture(t, "1<br>2")
	t1, t2 := f.text(t, 0), f.text(t, 1)
	opts := DefaultMoveOptions()
	r := Collapsed(t1, 0)

	r, n := f.s.MoveRange(r, MoveStart, CharacterUnit, 1, opts)
	assert.Equal(t, 1, n)
	assertRange(t, r, t1, 1, t1, 1)

	r, n = f.s.MoveRange(r, MoveStart, CharacterUnit, 1, opts)
	assert.Equal(t, 1, n)
	assertRange(t, r, f.root, 2, f.root, 2)

	r, _ = f.s.MoveRange(r, MoveStart, CharacterUnit, 1, opts)
	assertRange(t, r, t2, 1, t2, 1)
}

func TestMoveBetweenParagraphs(t *testing.T) {
	markup := "<p>x </p> <p> y</p>"
	withoutTrailing := MoveOptions{Character: characterOptions(func(o *CharacterOptions) {
		o.IncludeBlockContentTrailingSpace = false
	})}
	withTrailing := DefaultMoveOptions()

	t.Run("trailing space excluded", func(t *testing.T) {
		f := newTestFixture(t, markup)
		first, second := f.text(t, 0), f.text(t, 2)
		r := Collapsed(first, 1)

		r, _ = f.s.MoveRange(r, MoveBoth, CharacterUnit, 1, withoutTrailing)
		assertRange(t, r, f.root, 1, f.root, 1)

		r, _ = f.s.MoveRange(r, MoveBoth, CharacterUnit, 1, withoutTrailing)
		assertRange(t, r, second, 2, second, 2)
	})

	t.Run("trailing space included", func(t *testing.T) {
		f := newTestFixture(t, markup)
		first, second := f.text(t, 0), f.text(t, 2)
		r := Collapsed(first, 1)

		r, _ = f.s.MoveRange(r, MoveBoth, CharacterUnit, 1, withTrailing)
		assertRange(t, r, first, 2, first, 2)

		r, _ = f.s.MoveRange(r, MoveBoth, CharacterUnit, 1, withTrailing)
		assertRange(t, r, f.root, 1, f.root, 1)

		r, _ = f.s.MoveRange(r, MoveBoth, CharacterUnit, 1, withoutTrailing)
		assertRange(t, r, second, 2, second, 2)
	})
}

func TestMoveBothCollapsesInDirectionOfTravel(t *testing.T) {
	f := newTestFixture(t, "One Two")
	tn := f.text(t, 0)
	opts := DefaultMoveOptions()

	r, n := f.s.MoveRange(NewRange(tn, 1, tn, 5), MoveBoth, CharacterUnit, 1, opts)
	assert.Equal(t, 1, n)
	assertRange(t, r, tn, 6, tn, 6)

	r, n = f.s.MoveRange(NewRange(tn, 1, tn, 5), MoveBoth, CharacterUnit, -1, opts)
	assert.Equal(t, -1, n)
	assertRange(t, r, tn, 0, tn, 0)
}

// ============================================================================
// MoveRange by word
// ============================================================================

func TestMoveWordsWithinRange(t *testing.T) {
	f := newTestFixture(t, "one two three")
	tn := f.text(t, 0)
	opts := DefaultMoveOptions()
	r := NewRange(tn, 5, tn, 6)

	r, n := f.s.MoveRange(r, MoveStart, WordUnit, -1, opts)
	assert.Equal(t, -1, n)
	assertRange(t, r, tn, 4, tn, 6)
	assert.Equal(t, "tw", f.s.Text(r, opts.Character))

	r, n = f.s.MoveRange(r, MoveEnd, WordUnit, 1, opts)
	assert.Equal(t, 1, n)
	assertRange(t, r, tn, 4, tn, 7)
	assert.Equal(t, "two", f.s.Text(r, opts.Character))
}

func TestMoveWordsWithApostrophe(t *testing.T) {
	f := newTestFixture(t, "one don't two")
	tn := f.text(t, 0)
	opts := DefaultMoveOptions()
	r := NewRange(tn, 5, tn, 9)

	r, n := f.s.MoveRange(r, MoveStart, WordUnit, -1, opts)
	assert.Equal(t, -1, n)
	assertRange(t, r, tn, 4, tn, 9)
	assert.Equal(t, "don't", f.s.Text(r, opts.Character))

	r, n = f.s.MoveRange(r, MoveEnd, WordUnit, 1, opts)
	assert.Equal(t, 1, n)
	assertRange(t, r, tn, 4, tn, 13)
	assert.Equal(t, "don't two", f.s.Text(r, opts.Character))
}

func TestMoveStartByWords(t *testing.T) {
	f := newTestFixture(t, "one two three")
	tn := f.text(t, 0)
	opts := DefaultMoveOptions()
	r := Collapsed(tn, 1)

	for _, want := range []int{3, 7, 13} {
		var n int
		r, n = f.s.MoveRange(r, MoveStart, WordUnit, 1, opts)
		assert.Equal(t, 1, n)
		assert.True(t, r.IsCollapsed())
		assertBoundary(t, r.Start, tn, want)
	}
}

func TestMoveEndByNegativeWords(t *testing.T) {
	f := newTestFixture(t, "one two three")
	tn := f.text(t, 0)
	opts := DefaultMoveOptions()
	r := Collapsed(tn, 9)

	for _, want := range []int{8, 4, 0} {
		var n int
		r, n = f.s.MoveRange(r, MoveEnd, WordUnit, -1, opts)
		assert.Equal(t, -1, n)
		assert.True(t, r.IsCollapsed())
		assertBoundary(t, r.Start, tn, want)
	}
}

func TestMoveStartTwoWords(t *testing.T) {
	f := newTestFixture(t, "one two three")
	tn := f.text(t, 0)
	opts := DefaultMoveOptions()

	r, n := f.s.MoveRange(Collapsed(tn, 1), MoveStart, WordUnit, 2, opts)
	assert.Equal(t, 2, n)
	assertRange(t, r, tn, 7, tn, 7)
	assert.Equal(t, "", f.s.Text(r, opts.Character))
}

func TestMoveEndIncludingTrailingSpace(t *testing.T) {
	f := newTestFixture(t, "one two. three")
	tn := f.text(t, 0)
	opts := DefaultMoveOptions()
	opts.Word.IncludeTrailingSpace = true
	r := Collapsed(tn, 0)

	steps := []struct {
		offset int
		text   string
	}{
		{4, "one "},
		{7, "one two"},
		{14, "one two. three"},
	}
	for _, step := range steps {
		var n int
		r, n = f.s.MoveRange(r, MoveEnd, WordUnit, 1, opts)
		assert.Equal(t, 1, n)
		assertBoundary(t, r.End, tn, step.offset)
		assert.Equal(t, step.text, f.s.Text(r, opts.Character))
	}
}

func TestMoveWordsStopsAtTreeEdges(t *testing.T) {
	f := newTestFixture(t, "One two")
	tn := f.text(t, 0)
	opts := DefaultMoveOptions()

	r := Collapsed(f.root, 1)
	moves := 0
	for {
		var n int
		r, n = f.s.MoveRange(r, MoveBoth, WordUnit, -1, opts)
		if n == 0 {
			break
		}
		moves++
		require.Less(t, moves, 10, "moving backward never stopped")
	}
	assert.Equal(t, 2, moves)
	assertRange(t, r, tn, 0, tn, 0)

	r = Collapsed(f.root, 0)
	moves = 0
	for {
		var n int
		r, n = f.s.MoveRange(r, MoveBoth, WordUnit, 1, opts)
		if n == 0 {
			break
		}
		moves++
		require.Less(t, moves, 10, "moving forward never stopped")
	}
	assert.Equal(t, 2, moves)
	assertRange(t, r, tn, 7, tn, 7)
}

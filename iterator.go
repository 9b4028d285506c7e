package rangy

// CharacterIterator steps through the positions whose character is
// non-empty under a policy. Moving forward it yields the positions after the
// start up to and including the end; moving backward it yields the start and
// the positions before it, stopping short of the end.
type CharacterIterator struct {
	opts     CharacterOptions
	backward bool
	pos      *Position
	end      *Position
	finished bool

	previousTextPos *Position
	returnPrevious  bool
	disposed        bool
}

// CharacterIterator returns an iterator from start in the given direction. A
// nil end runs to the edge of the tree.
func (s *Session) CharacterIterator(start *Position, dir Direction, end *Position, opts CharacterOptions) *CharacterIterator {
	return newCharacterIterator(start, dir == Backward, end, opts.resolve())
}

func newCharacterIterator(start *Position, backward bool, end *Position, opts CharacterOptions) *CharacterIterator {
	// An end inside a collapsed node would never be reached.
	if end != nil && end.wrapper.isCollapsed() {
		if backward {
			end = end.PreviousVisible()
		} else {
			end = end.NextVisible()
		}
	}
	return &CharacterIterator{
		opts:     opts,
		backward: backward,
		pos:      start,
		end:      end,
	}
}

// step returns the next candidate position regardless of its character.
func (it *CharacterIterator) step() *Position {
	var charPos *Position
	if it.backward {
		charPos = it.pos
		if !it.finished && it.pos != nil {
			it.pos = it.pos.PreviousVisible()
			it.finished = it.pos == nil || it.pos.Equal(it.end)
		}
	} else if !it.finished && it.pos != nil {
		it.pos = it.pos.NextVisible()
		charPos = it.pos
		it.finished = it.pos == nil || it.pos.Equal(it.end)
	}
	if it.finished {
		it.pos = nil
	}
	return charPos
}

// Next returns the next position with a non-empty character, or nil when the
// iterator is exhausted.
func (it *CharacterIterator) Next() *Position {
	if it.disposed {
		return nil
	}
	if it.returnPrevious {
		it.returnPrevious = false
		return it.previousTextPos
	}
	for pos := it.step(); pos != nil; pos = it.step() {
		if pos.character(it.opts) != "" {
			it.previousTextPos = pos
			return pos
		}
	}
	return nil
}

// Rewind makes the next call to Next return the position it returned last.
// It panics when nothing has been returned yet or when called twice without
// an intervening Next.
func (it *CharacterIterator) Rewind() {
	if it.previousTextPos == nil {
		violation(ErrNothingToRewind, "character iterator")
	}
	if it.returnPrevious {
		violation(ErrDoubleRewind, "character iterator")
	}
	it.returnPrevious = true
}

// Dispose releases the iterator's positions. Next returns nil afterwards.
func (it *CharacterIterator) Dispose() {
	it.pos, it.end, it.previousTextPos = nil, nil, nil
	it.disposed = true
}

// rangeIterator iterates the characters of r, forward from its start or
// backward from its end.
func (s *Session) rangeIterator(r Range, backward bool, opts CharacterOptions) *CharacterIterator {
	start, end := s.rangePositions(r)
	var it *CharacterIterator
	if backward {
		it = newCharacterIterator(end, true, start, opts)
	} else {
		it = newCharacterIterator(start, false, end, opts)
	}
	if r.IsCollapsed() {
		it.pos, it.finished = nil, true
	}
	return it
}

// rangeCharacters returns the positions of the visible characters of r.
func (s *Session) rangeCharacters(r Range, opts CharacterOptions) []*Position {
	var chars []*Position
	it := s.rangeIterator(r, false, opts)
	defer it.Dispose()
	for pos := it.Next(); pos != nil; pos = it.Next() {
		chars = append(chars, pos)
	}
	return chars
}

package rangy

// MoveResult is the outcome of MovePositionBy.
type MoveResult struct {
	Position *Position
	// UnitsMoved is negative for backward moves and may be smaller in
	// magnitude than requested when the stream ends.
	UnitsMoved int
}

// MovePositionBy moves pos by count characters or words; negative counts
// move backward.
func (s *Session) MovePositionBy(pos *Position, unit Unit, count int, opts MoveOptions) MoveResult {
	return s.movePositionBy(pos, unit, count, opts.resolve())
}

func (s *Session) movePositionBy(pos *Position, unit Unit, count int, opts MoveOptions) MoveResult {
	if count == 0 {
		return MoveResult{Position: pos}
	}
	backward := count < 0
	absCount := count
	if backward {
		absCount = -count
	}

	unitsMoved := 0
	newPos := pos
	var nextPos *Position

	switch unit {
	case WordUnit:
		tp := newTextProvider(pos, opts.Character, opts.Word)
		next := tp.nextEndToken
		if backward {
			next = tp.previousStartToken
		}
		for tok := next(); tok != nil && unitsMoved < absCount; tok = next() {
			if !tok.IsWord {
				continue
			}
			unitsMoved++
			if backward {
				newPos = tok.Chars[0]
			} else {
				newPos = tok.Chars[len(tok.Chars)-1]
			}
		}
		tp.dispose()
	default:
		it := newCharacterIterator(pos, backward, nil, opts.Character)
		var current *Position
		for current = it.Next(); current != nil && unitsMoved < absCount; current = it.Next() {
			unitsMoved++
			newPos = current
		}
		nextPos = current
		it.Dispose()
	}

	if backward {
		// Land before the last character moved over rather than after it.
		if unitsMoved > 0 {
			if prev := newPos.PreviousVisible(); prev != nil {
				newPos = prev
			}
		}
		return MoveResult{Position: newPos, UnitsMoved: -unitsMoved}
	}

	if newPos.isLeadingSpace && !newPos.isTrailingSpace {
		// A leading line break belongs to the position before the block;
		// carets belong at the start of the block's content.
		if unit == WordUnit {
			it := newCharacterIterator(newPos, false, nil, opts.Character)
			nextPos = it.Next()
			it.Dispose()
		}
		if nextPos != nil {
			if prev := nextPos.PreviousVisible(); prev != nil {
				newPos = prev
			}
		}
	}
	return MoveResult{Position: newPos, UnitsMoved: unitsMoved}
}

// Boundaries selects which boundaries of a Range MoveRange moves.
type Boundaries int

const (
	// MoveStart moves only the start.
	MoveStart Boundaries = iota
	// MoveEnd moves only the end.
	MoveEnd
	// MoveBoth collapses the range in the direction of travel and moves it.
	MoveBoth
)

// MoveRange moves one or both boundaries of r by count units and returns the
// new range and the number of units moved.
func (s *Session) MoveRange(r Range, which Boundaries, unit Unit, count int, opts MoveOptions) (Range, int) {
	opts = opts.resolve()
	isStart := which == MoveStart
	if which == MoveBoth {
		isStart = count >= 0
		if isStart {
			r = r.CollapseToEnd()
		} else {
			r = r.CollapseToStart()
		}
	}

	b := r.End
	if isStart {
		b = r.Start
	}
	res := s.movePositionBy(s.boundaryPosition(b), unit, count, opts)
	nb := res.Position.Boundary()
	if which == MoveBoth {
		return Collapsed(nb.Node, nb.Offset), res.UnitsMoved
	}
	if isStart {
		return r.WithStart(nb), res.UnitsMoved
	}
	return r.WithEnd(nb), res.UnitsMoved
}

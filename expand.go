package rangy

// ExpandToWords grows r so that both boundaries fall on word edges: the
// start moves back to the start of the word it touches and the end forward
// to the end of its word. A collapsed range expands to the word after it.
// TrimStart and TrimEnd then drop whitespace from the edges. The second
// result reports whether anything moved.
func (s *Session) ExpandToWords(r Range, opts ExpandOptions) (Range, bool) {
	opts = opts.resolve()
	r, moved := s.expandToWords(r, opts)
	if opts.TrimStart {
		var trimmed bool
		r, trimmed = s.trim(r, true, opts.Character)
		moved = moved || trimmed
	}
	if opts.TrimEnd {
		var trimmed bool
		r, trimmed = s.trim(r, false, opts.Character)
		moved = moved || trimmed
	}
	return r, moved
}

func (s *Session) expandToWords(r Range, opts ExpandOptions) (Range, bool) {
	startPos, endPos := s.rangePositions(r)

	startProvider := newTextProvider(startPos, opts.Character, opts.Word)
	defer startProvider.dispose()
	startToken := startProvider.nextEndToken()
	if startToken == nil {
		return r, false
	}
	newStart := startToken.Chars[0].PreviousVisible()

	endToken := startToken
	if !r.IsCollapsed() {
		endProvider := newTextProvider(endPos, opts.Character, opts.Word)
		defer endProvider.dispose()
		endToken = endProvider.previousStartToken()
	}

	moved := false
	if newStart != nil && !newStart.Equal(startPos) {
		r = r.WithStart(newStart.Boundary())
		moved = true
	}
	if endToken != nil {
		newEnd := endToken.Chars[len(endToken.Chars)-1]
		if !newEnd.Equal(endPos) {
			r = r.WithEnd(newEnd.Boundary())
			moved = true
		}
	}
	return r, moved
}

// ExpandByCharacter moves r's end forward by one character.
func (s *Session) ExpandByCharacter(r Range, opts ExpandOptions) (Range, bool) {
	r, n := s.MoveRange(r, MoveEnd, CharacterUnit, 1, MoveOptions{Character: opts.Character, Word: opts.Word})
	return r, n != 0
}

// TrimRange drops leading and/or trailing whitespace characters from r and
// reports whether it changed.
func (s *Session) TrimRange(r Range, start, end bool, opts CharacterOptions) (Range, bool) {
	opts = opts.resolve()
	trimmed := false
	if start {
		var t bool
		r, t = s.trim(r, true, opts)
		trimmed = t
	}
	if end {
		var t bool
		r, t = s.trim(r, false, opts)
		trimmed = trimmed || t
	}
	return r, trimmed
}

func (s *Session) trim(r Range, atStart bool, opts CharacterOptions) (Range, bool) {
	it := s.rangeIterator(r, !atStart, opts)
	count := 0
	for p := it.Next(); p != nil && isAllWhiteSpace(p.character(opts)); p = it.Next() {
		count++
	}
	it.Dispose()
	if count == 0 {
		return r, false
	}

	moveOpts := MoveOptions{Character: opts}.resolve()
	if atStart {
		r, _ = s.MoveRange(r, MoveStart, CharacterUnit, count, moveOpts)
	} else {
		r, _ = s.MoveRange(r, MoveEnd, CharacterUnit, -count, moveOpts)
	}
	return r, true
}

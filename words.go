package rangy

import "slices"

// textProvider hands out tokens on either side of a start position,
// consuming and tokenizing more characters whenever a buffer runs down to a
// single non-word token.
type textProvider struct {
	opts     WordOptions
	forward  *CharacterIterator
	backward *CharacterIterator

	forwardTokens  []Token
	backwardTokens []Token
}

func newTextProvider(pos *Position, charOpts CharacterOptions, wordOpts WordOptions) *textProvider {
	tp := &textProvider{
		opts:     wordOpts,
		forward:  newCharacterIterator(pos, false, nil, charOpts),
		backward: newCharacterIterator(pos, true, nil, charOpts),
	}

	forwardChars := tp.consumeWord(tp.forward)
	backwardChars := tp.consumeWord(tp.backward)
	slices.Reverse(backwardChars)

	chars := make([]*Position, 0, len(backwardChars)+len(forwardChars))
	chars = append(chars, backwardChars...)
	chars = append(chars, forwardChars...)
	tokens := tokenize(chars, wordOpts)

	if len(forwardChars) > 0 {
		if i := tokenAt(tokens, len(backwardChars)); i >= 0 {
			tp.forwardTokens = slices.Clone(tokens[i:])
		}
	}
	if len(backwardChars) > 0 {
		if i := tokenAt(tokens, len(backwardChars)-1); i >= 0 {
			tp.backwardTokens = slices.Clone(tokens[:i+1])
		}
	}
	return tp
}

// consumeWord reads a run of whitespace-free characters and the whitespace
// after it, leaving the iterator before the next word.
func (tp *textProvider) consumeWord(it *CharacterIterator) []*Position {
	var chars []*Position
	passedWordBoundary, insideWord := false, false
	for pos := it.Next(); pos != nil; pos = it.Next() {
		if isAllWhiteSpace(pos.char) {
			if insideWord {
				insideWord = false
				passedWordBoundary = true
			}
		} else {
			if passedWordBoundary {
				it.Rewind()
				break
			}
			insideWord = true
		}
		chars = append(chars, pos)
	}
	return chars
}

// nextEndToken returns the next token forward, or nil when exhausted.
func (tp *textProvider) nextEndToken() *Token {
	for len(tp.forwardTokens) == 1 && !tp.forwardTokens[0].IsWord {
		more := tp.consumeWord(tp.forward)
		if len(more) == 0 {
			break
		}
		last := tp.forwardTokens[0]
		tp.forwardTokens = tokenize(append(slices.Clone(last.Chars), more...), tp.opts)
	}
	if len(tp.forwardTokens) == 0 {
		return nil
	}
	tok := tp.forwardTokens[0]
	tp.forwardTokens = tp.forwardTokens[1:]
	return &tok
}

// previousStartToken returns the next token backward, or nil when
// exhausted.
func (tp *textProvider) previousStartToken() *Token {
	for len(tp.backwardTokens) == 1 && !tp.backwardTokens[0].IsWord {
		more := tp.consumeWord(tp.backward)
		if len(more) == 0 {
			break
		}
		slices.Reverse(more)
		last := tp.backwardTokens[0]
		tp.backwardTokens = tokenize(append(more, last.Chars...), tp.opts)
	}
	n := len(tp.backwardTokens)
	if n == 0 {
		return nil
	}
	tok := tp.backwardTokens[n-1]
	tp.backwardTokens = tp.backwardTokens[:n-1]
	return &tok
}

func (tp *textProvider) dispose() {
	tp.forward.Dispose()
	tp.backward.Dispose()
	tp.forwardTokens, tp.backwardTokens = nil, nil
}

// WordIterator yields tokens from a start position in one direction.
type WordIterator struct {
	provider *textProvider
	backward bool
}

// WordIterator returns an iterator over the tokens starting at pos.
func (s *Session) WordIterator(pos *Position, opts WordIteratorOptions) *WordIterator {
	opts = opts.resolve()
	return &WordIterator{
		provider: newTextProvider(pos, opts.Character, opts.Word),
		backward: opts.Direction == Backward,
	}
}

// Next returns the next token, or nil when the iterator is exhausted.
func (it *WordIterator) Next() *Token {
	if it.provider == nil {
		return nil
	}
	if it.backward {
		return it.provider.previousStartToken()
	}
	return it.provider.nextEndToken()
}

// Dispose releases the iterator. Next returns nil afterwards.
func (it *WordIterator) Dispose() {
	if it.provider != nil {
		it.provider.dispose()
		it.provider = nil
	}
}

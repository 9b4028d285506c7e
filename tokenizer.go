package rangy

import (
	"sort"
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

// Token is a run of characters forming one word or one non-word unit.
type Token struct {
	IsWord bool
	Chars  []*Position
}

func (t Token) String() string {
	var b strings.Builder
	for _, c := range t.Chars {
		b.WriteString(c.char)
	}
	return b.String()
}

// Start returns the boundary before the token's first character.
func (t Token) Start() Boundary {
	if len(t.Chars) == 0 {
		return Boundary{}
	}
	if prev := t.Chars[0].PreviousVisible(); prev != nil {
		return prev.Boundary()
	}
	return t.Chars[0].Boundary()
}

// End returns the boundary after the token's last character.
func (t Token) End() Boundary {
	if len(t.Chars) == 0 {
		return Boundary{}
	}
	return t.Chars[len(t.Chars)-1].Boundary()
}

// TokenRange is a half-open range of character indexes produced by a
// Tokenizer.
type TokenRange struct {
	Start  int
	End    int
	IsWord bool
}

// Tokenizer splits chars into consecutive word and non-word ranges that
// together cover every character.
type Tokenizer func(chars []*Position, opts WordOptions) []TokenRange

// joinChars concatenates the characters and returns the byte offset at
// which each one starts, plus a final entry for the total length.
func joinChars(chars []*Position) (string, []int) {
	texts := make([]string, len(chars))
	for i, c := range chars {
		texts[i] = c.char
	}
	return joinStrings(texts)
}

// charIndex maps a byte offset to the index of the character starting there.
func charIndex(offsets []int, byteOffset int) int {
	return sort.SearchInts(offsets, byteOffset)
}

// DefaultTokenizer marks every match of opts.Pattern as a word and every run
// between matches as a non-word.
func DefaultTokenizer(chars []*Position, opts WordOptions) []TokenRange {
	text, offsets := joinChars(chars)
	pattern := opts.Pattern
	if pattern == nil {
		pattern = DefaultWordPattern
	}

	var ranges []TokenRange
	lastWordEnd := 0
	for _, m := range pattern.FindAllStringIndex(text, -1) {
		if m[0] == m[1] {
			continue
		}
		wordStart, wordEnd := charIndex(offsets, m[0]), charIndex(offsets, m[1])
		if wordStart < lastWordEnd {
			continue
		}
		if wordStart > lastWordEnd {
			ranges = append(ranges, TokenRange{Start: lastWordEnd, End: wordStart})
		}
		if opts.IncludeTrailingSpace {
			for wordEnd < len(chars) && isNonLineBreakWhiteSpace(chars[wordEnd].char) {
				wordEnd++
			}
		}
		ranges = append(ranges, TokenRange{Start: wordStart, End: wordEnd, IsWord: true})
		lastWordEnd = wordEnd
	}
	if lastWordEnd < len(chars) {
		ranges = append(ranges, TokenRange{Start: lastWordEnd, End: len(chars)})
	}
	return ranges
}

// SegmentingTokenizer splits on Unicode word boundaries (UAX #29). Segments
// containing a letter or digit are words. opts.Pattern is not used.
func SegmentingTokenizer(chars []*Position, opts WordOptions) []TokenRange {
	text, offsets := joinChars(chars)

	var ranges []TokenRange
	state := -1
	byteStart := 0
	for rest := text; len(rest) > 0; {
		var segment string
		segment, rest, state = uniseg.FirstWordInString(rest, state)
		start := charIndex(offsets, byteStart)
		byteStart += len(segment)
		end := charIndex(offsets, byteStart)

		isWord := strings.IndexFunc(segment, func(r rune) bool {
			return unicode.IsLetter(r) || unicode.IsDigit(r)
		}) >= 0

		if n := len(ranges); n > 0 && !isWord && !ranges[n-1].IsWord {
			ranges[n-1].End = end
			continue
		}
		if n := len(ranges); n > 0 && !isWord && ranges[n-1].IsWord && opts.IncludeTrailingSpace {
			// Swallow leading non-line-break whitespace into the word.
			i := start
			for i < end && isNonLineBreakWhiteSpace(chars[i].char) {
				i++
			}
			ranges[n-1].End = i
			if i == end {
				continue
			}
			start = i
		}
		ranges = append(ranges, TokenRange{Start: start, End: end, IsWord: isWord})
	}
	return ranges
}

// tokenize converts the ranges produced by the tokenizer into Tokens.
func tokenize(chars []*Position, opts WordOptions) []Token {
	ranges := opts.Tokenizer(chars, opts)
	tokens := make([]Token, 0, len(ranges))
	for _, r := range ranges {
		tokens = append(tokens, Token{IsWord: r.IsWord, Chars: chars[r.Start:r.End:r.End]})
	}
	return tokens
}

// tokenAt returns the index of the token whose characters include index i.
func tokenAt(tokens []Token, i int) int {
	start := 0
	for t, tok := range tokens {
		if i < start+len(tok.Chars) {
			return t
		}
		start += len(tok.Chars)
	}
	return -1
}

func isAllWhiteSpace(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '\t' && r <= '\r', r == ' ', r == 0x85, r == 0xA0, r == 0x1680,
			r == 0x180E, r >= 0x2000 && r <= 0x200B, r == 0x2028, r == 0x2029,
			r == 0x202F, r == 0x205F, r == 0x3000:
		default:
			return false
		}
	}
	return true
}

func isNonLineBreakWhiteSpace(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r == '\t', r == ' ', r == 0xA0, r == 0x1680, r == 0x180E,
			r >= 0x2000 && r <= 0x200B, r == 0x202F, r == 0x205F, r == 0x3000:
		default:
			return false
		}
	}
	return true
}

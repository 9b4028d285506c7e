package rangy

import (
	"regexp"
	"slices"
	"strings"
)

// Direction is the direction of a traversal.
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Unit is the granularity of a boundary move.
type Unit int

const (
	CharacterUnit Unit = iota
	WordUnit
)

func (u Unit) String() string {
	if u == WordUnit {
		return "word"
	}
	return "character"
}

// CharacterOptions is the character-collapsing policy.
type CharacterOptions struct {
	// IncludeBlockContentTrailingSpace keeps a collapsible space at the end
	// of a block's content.
	IncludeBlockContentTrailingSpace bool
	// IncludeSpaceBeforeBr keeps a collapsible space directly before a <br>.
	IncludeSpaceBeforeBr bool
	// IncludeSpaceBeforeBlock keeps a collapsible space directly before a
	// block's leading line break.
	IncludeSpaceBeforeBlock bool
	// IncludePreLineTrailingSpace keeps a space run ending at a line break
	// in white-space: pre-line text.
	IncludePreLineTrailingSpace bool
	// IgnoreCharacters lists characters that always resolve to nothing.
	IgnoreCharacters string
}

// DefaultCharacterOptions is the policy used for text extraction, offsets
// and search.
func DefaultCharacterOptions() CharacterOptions {
	return CharacterOptions{
		IncludeBlockContentTrailingSpace: true,
		IncludeSpaceBeforeBr:             true,
		IncludeSpaceBeforeBlock:          true,
	}
}

// DefaultCaretCharacterOptions is the policy used when positioning a caret.
func DefaultCaretCharacterOptions() CharacterOptions {
	return CharacterOptions{
		IncludeSpaceBeforeBr:        true,
		IncludeSpaceBeforeBlock:     true,
		IncludePreLineTrailingSpace: true,
	}
}

func (o CharacterOptions) resolve() CharacterOptions {
	if o.IgnoreCharacters != "" {
		chars := []rune(o.IgnoreCharacters)
		slices.Sort(chars)
		o.IgnoreCharacters = string(slices.Compact(chars))
	}
	return o
}

func (o CharacterOptions) ignores(char string) bool {
	return char != "" && o.IgnoreCharacters != "" && strings.Contains(o.IgnoreCharacters, char)
}

// characterKey identifies a resolved policy in a Position's cache.
type characterKey struct {
	blockTrailing    bool
	spaceBeforeBr    bool
	spaceBeforeBlock bool
	preLineTrailing  bool
	ignore           string
}

func (o CharacterOptions) key() characterKey {
	return characterKey{
		blockTrailing:    o.IncludeBlockContentTrailingSpace,
		spaceBeforeBr:    o.IncludeSpaceBeforeBr,
		spaceBeforeBlock: o.IncludeSpaceBeforeBlock,
		preLineTrailing:  o.IncludePreLineTrailingSpace,
		ignore:           o.IgnoreCharacters,
	}
}

// DefaultWordPattern matches runs of ASCII letters and digits, allowing
// inner apostrophes.
var DefaultWordPattern = regexp.MustCompile(`(?i)[a-z0-9]+(?:'[a-z0-9]+)*`)

// WordOptions is the word policy.
type WordOptions struct {
	// Pattern matches word runs. Nil means DefaultWordPattern.
	Pattern *regexp.Regexp
	// IncludeTrailingSpace appends following non-line-break whitespace to a
	// word token.
	IncludeTrailingSpace bool
	// Tokenizer splits a character run into tokens. Nil means
	// DefaultTokenizer.
	Tokenizer Tokenizer
}

func (o WordOptions) resolve() WordOptions {
	if o.Pattern == nil {
		o.Pattern = DefaultWordPattern
	}
	if o.Tokenizer == nil {
		o.Tokenizer = DefaultTokenizer
	}
	return o
}

// FindOptions is the search policy.
type FindOptions struct {
	CaseSensitive  bool
	WholeWordsOnly bool
	Wrap           bool
	Direction      Direction
	// Within limits the search scope. Nil means the whole tree.
	Within    *Range
	Character CharacterOptions
	Word      WordOptions
}

// DefaultFindOptions returns a forward, case-insensitive search policy.
func DefaultFindOptions() FindOptions {
	return FindOptions{Character: DefaultCharacterOptions()}
}

func (o FindOptions) resolve() FindOptions {
	o.Character = o.Character.resolve()
	o.Word = o.Word.resolve()
	if o.WholeWordsOnly {
		// Whole-word checks compare against bare word tokens.
		o.Word.IncludeTrailingSpace = false
	}
	return o
}

// MoveOptions is the boundary movement policy.
type MoveOptions struct {
	Character CharacterOptions
	Word      WordOptions
}

// DefaultMoveOptions returns the default character and word policies.
func DefaultMoveOptions() MoveOptions {
	return MoveOptions{Character: DefaultCharacterOptions()}
}

func (o MoveOptions) resolve() MoveOptions {
	o.Character = o.Character.resolve()
	o.Word = o.Word.resolve()
	return o
}

// ExpandOptions is the word expansion policy.
type ExpandOptions struct {
	Character CharacterOptions
	Word      WordOptions
	TrimStart bool
	TrimEnd   bool
}

// DefaultExpandOptions returns the default policies without trimming.
func DefaultExpandOptions() ExpandOptions {
	return ExpandOptions{Character: DefaultCharacterOptions()}
}

func (o ExpandOptions) resolve() ExpandOptions {
	o.Character = o.Character.resolve()
	o.Word = o.Word.resolve()
	return o
}

// WordIteratorOptions configures a WordIterator.
type WordIteratorOptions struct {
	Direction Direction
	Character CharacterOptions
	Word      WordOptions
}

// DefaultWordIteratorOptions returns a forward iterator policy.
func DefaultWordIteratorOptions() WordIteratorOptions {
	return WordIteratorOptions{Character: DefaultCharacterOptions()}
}

func (o WordIteratorOptions) resolve() WordIteratorOptions {
	o.Character = o.Character.resolve()
	o.Word = o.Word.resolve()
	return o
}

package rangy

import (
	"fmt"
	"log/slog"
	"regexp"
	"sync"

	"github.com/notjosh/rangy/dom"
)

// LibraryOptions configures a Library.
type LibraryOptions struct {
	// Styler resolves display, white-space and visibility for elements.
	// Required.
	Styler dom.Styler

	// Logger receives debug output about sessions and searches. Nil
	// discards it.
	Logger *slog.Logger
}

// Library binds a style collaborator and keeps track of live Sessions so
// that they can all be invalidated before the tree is mutated.
type Library struct {
	styler dom.Styler
	logger *slog.Logger

	activeSessions map[uint64]*Session
	mu             sync.Mutex

	nextSessionID uint64
}

// Init creates a Library.
func Init(options LibraryOptions) (*Library, error) {
	if options.Styler == nil {
		return nil, ErrNoStyler
	}
	lib := &Library{
		styler:         options.Styler,
		logger:         options.Logger,
		activeSessions: make(map[uint64]*Session),
	}
	if lib.logger == nil {
		lib.logger = slog.New(slog.DiscardHandler)
	}
	return lib, nil
}

// NewSession creates a Session owned by the caller, who must End it.
func (l *Library) NewSession() *Session {
	l.mu.Lock()
	l.nextSessionID++
	s := newSession(l, l.nextSessionID)
	l.activeSessions[s.id] = s
	l.mu.Unlock()

	l.logger.Debug("session started", "session", s.id)
	return s
}

func (l *Library) release(s *Session) {
	l.mu.Lock()
	delete(l.activeSessions, s.id)
	l.mu.Unlock()
}

// ActiveSessions returns the number of Sessions that have not ended.
func (l *Library) ActiveSessions() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.activeSessions)
}

// Do runs fn with a Session. When s is a live Session it is borrowed and left
// running; otherwise a new Session is created and ended when fn returns or
// panics.
func (l *Library) Do(s *Session, fn func(*Session) error) error {
	if s != nil && !s.Ended() {
		return fn(s)
	}
	s = l.NewSession()
	defer s.End()
	return fn(s)
}

// Mutate discards the caches of every live Session, runs fn, which may
// modify the content tree, and returns its error. Sessions stay usable and
// rebuild their caches from the modified tree.
func (l *Library) Mutate(fn func() error) error {
	l.mu.Lock()
	sessions := make([]*Session, 0, len(l.activeSessions))
	for _, s := range l.activeSessions {
		sessions = append(sessions, s)
	}
	l.mu.Unlock()

	for _, s := range sessions {
		s.Invalidate()
	}
	if err := fn(); err != nil {
		return fmt.Errorf("mutating tree: %w", err)
	}
	return nil
}

// InnerText returns the visible text of node.
func (l *Library) InnerText(node dom.Node, opts CharacterOptions) string {
	var text string
	_ = l.Do(nil, func(s *Session) error {
		text = s.InnerText(node, opts)
		return nil
	})
	return text
}

// Text returns the visible text between the boundaries of r.
func (l *Library) Text(r Range, opts CharacterOptions) string {
	var text string
	_ = l.Do(nil, func(s *Session) error {
		text = s.Text(r, opts)
		return nil
	})
	return text
}

// FindText searches for term starting from r; see Session.FindText.
func (l *Library) FindText(r Range, term string, opts FindOptions) (Range, bool) {
	var found Range
	var ok bool
	_ = l.Do(nil, func(s *Session) error {
		found, ok = s.FindText(r, term, opts)
		return nil
	})
	return found, ok
}

// FindRegexp searches for a pattern starting from r; see Session.FindRegexp.
func (l *Library) FindRegexp(r Range, re *regexp.Regexp, opts FindOptions) (Range, bool) {
	var found Range
	var ok bool
	_ = l.Do(nil, func(s *Session) error {
		found, ok = s.FindRegexp(r, re, opts)
		return nil
	})
	return found, ok
}

// FindAll returns every non-overlapping match of term inside scope, in
// document order. Wrap and Direction in opts are ignored.
func (l *Library) FindAll(scope Range, term string, opts FindOptions) []Range {
	var matches []Range
	_ = l.Do(nil, func(s *Session) error {
		opts.Wrap = false
		opts.Direction = Forward
		opts.Within = &scope
		r := scope.CollapseToStart()
		for {
			found, ok := s.FindText(r, term, opts)
			if !ok {
				return nil
			}
			matches = append(matches, found)
			r = found.CollapseToEnd()
		}
	})
	return matches
}

// ToCharacterRange converts r to character offsets relative to container.
func (l *Library) ToCharacterRange(r Range, container dom.Node, opts CharacterOptions) (CharacterRange, error) {
	var cr CharacterRange
	err := l.Do(nil, func(s *Session) error {
		var err error
		cr, err = s.ToCharacterRange(r, container, opts)
		return err
	})
	return cr, err
}

// SelectCharacters converts character offsets relative to container to a
// Range.
func (l *Library) SelectCharacters(container dom.Node, start, end int, opts CharacterOptions) Range {
	var r Range
	_ = l.Do(nil, func(s *Session) error {
		r = s.SelectCharacters(container, start, end, opts)
		return nil
	})
	return r
}

// Words returns the tokens from the boundary b in the given direction until
// the stream is exhausted.
func (l *Library) Words(b Boundary, opts WordIteratorOptions) []Token {
	var tokens []Token
	_ = l.Do(nil, func(s *Session) error {
		it := s.WordIterator(s.Position(b.Node, b.Offset), opts)
		defer it.Dispose()
		for tok := it.Next(); tok != nil; tok = it.Next() {
			tokens = append(tokens, *tok)
		}
		return nil
	})
	return tokens
}

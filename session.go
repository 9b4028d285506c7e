package rangy

import (
	"github.com/notjosh/rangy/dom"
)

// CacheStats counts cache activity in a Session.
type CacheStats struct {
	WrapperHits     int
	WrapperMisses   int
	CharacterHits   int
	CharacterMisses int
	// MaxResolveDepth is the deepest nesting of policy-dependent character
	// resolutions seen, counting the outermost call as 1.
	MaxResolveDepth int
}

// Session owns the node and position caches for one logical operation. The
// caches assume the tree does not change; call Invalidate or End before
// mutating it. A Session is not safe for concurrent use.
type Session struct {
	lib      *Library
	id       uint64
	wrappers map[dom.Node]*nodeWrapper
	ended    bool

	depth int
	stats CacheStats
}

func newSession(lib *Library, id uint64) *Session {
	return &Session{
		lib:      lib,
		id:       id,
		wrappers: make(map[dom.Node]*nodeWrapper),
	}
}

// ID returns the Session's identifier within its Library.
func (s *Session) ID() uint64 { return s.id }

// Ended reports whether End has been called.
func (s *Session) Ended() bool { return s.ended }

// Stats returns the cache counters.
func (s *Session) Stats() CacheStats { return s.stats }

// End discards all caches. Using the Session afterwards panics.
func (s *Session) End() {
	if s.ended {
		return
	}
	s.lib.logger.Debug("session ended",
		"session", s.id,
		"wrappers", len(s.wrappers),
		"characterHits", s.stats.CharacterHits,
		"characterMisses", s.stats.CharacterMisses)
	s.wrappers = nil
	s.ended = true
	s.lib.release(s)
}

// Invalidate discards all caches but keeps the Session usable. Positions
// obtained before the call must not be used afterwards.
func (s *Session) Invalidate() {
	if s.ended {
		return
	}
	s.wrappers = make(map[dom.Node]*nodeWrapper)
}

func (s *Session) wrapper(node dom.Node) *nodeWrapper {
	if s.ended {
		violation(ErrSessionEnded, "session %d", s.id)
	}
	if w, ok := s.wrappers[node]; ok {
		s.stats.WrapperHits++
		return w
	}
	s.stats.WrapperMisses++
	w := newNodeWrapper(s, node)
	s.wrappers[node] = w
	return w
}

// Position returns the Position at (node, offset). The same pointer is
// returned for the same boundary for the lifetime of the Session's caches.
func (s *Session) Position(node dom.Node, offset int) *Position {
	return s.wrapper(node).position(offset)
}

func (s *Session) boundaryPosition(b Boundary) *Position {
	return s.Position(b.Node, b.Offset)
}

// rangePositions returns the Positions of r's start and end.
func (s *Session) rangePositions(r Range) (start, end *Position) {
	return s.boundaryPosition(r.Start), s.boundaryPosition(r.End)
}

// IsBlockNode reports whether node is a document, a fragment or an element
// whose display is block-like ("block", "table", "list-item" or anything else
// that is not inline or none).
func (s *Session) IsBlockNode(node dom.Node) bool {
	if node == nil {
		return false
	}
	switch node.Type() {
	case dom.DocumentNode, dom.DocumentFragmentNode:
		return true
	case dom.ElementNode:
	default:
		return false
	}
	switch s.wrapper(node).display() {
	case "inline", "inline-block", "inline-table", "none":
		return false
	}
	return true
}

// IsCollapsedWhitespaceNode reports whether node is a text node whose
// whitespace renders as nothing at all.
func (s *Session) IsCollapsedWhitespaceNode(node dom.Node) bool {
	return s.wrapper(node).isCollapsedWhitespace()
}

// Package rangy turns a styled content tree into an addressable character
// stream that matches what a renderer would display, with word tokenization,
// text search and boundary movement on top.
package rangy

import (
	"errors"
	"fmt"

	"github.com/notjosh/rangy/dom"
)

// Node errors
var (
	// ErrNotTextNode indicates that a text-only fact was requested for a node
	// that is not a text node.
	ErrNotTextNode = errors.New("node is not a text node")

	// ErrNotElement indicates that an element-only fact was requested for a
	// node that is not an element.
	ErrNotElement = errors.New("node is not an element")

	// ErrInvalidOffset indicates that an offset lies outside [0, len(node)].
	ErrInvalidOffset = errors.New("offset out of bounds")

	// ErrDisconnected indicates that two boundaries are in different trees.
	ErrDisconnected = dom.ErrDisconnected
)

// Iterator errors
var (
	// ErrNothingToRewind indicates that Rewind was called before any
	// position had been returned.
	ErrNothingToRewind = errors.New("no previous position to rewind to")

	// ErrDoubleRewind indicates that Rewind was called twice without an
	// intervening Next.
	ErrDoubleRewind = errors.New("iterator already rewound")
)

// Session errors
var (
	// ErrSessionEnded indicates that a Session was used after End.
	ErrSessionEnded = errors.New("session has ended")

	// ErrNoStyler indicates that a Library was initialized without a Styler.
	ErrNoStyler = errors.New("no styler configured")
)

// Search errors
var (
	// ErrInvalidPattern indicates that a search pattern could not be compiled.
	ErrInvalidPattern = errors.New("invalid search pattern")
)

// violation panics with err wrapped in context. Contract violations are
// caller bugs, not data conditions.
func violation(err error, format string, args ...any) {
	panic(fmt.Errorf("%w: %s", err, fmt.Sprintf(format, args...)))
}

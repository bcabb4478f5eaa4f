// Package nav implements path-based traversal over a canvas document: an
// ordered walk through the frames the author put on the presentation path.
package nav

import (
	"fmt"

	"github.com/ivlev/prezicast/internal/canvas"
)

// Navigator tracks the current frame of a presentation and moves along the
// document's path. Frames that are not on the path are reachable only
// through GoTo; Next and Previous are no-ops there.
type Navigator struct {
	doc     *canvas.Document
	current string
}

// New creates a navigator with no current frame.
func New(doc *canvas.Document) *Navigator {
	return &Navigator{doc: doc}
}

// Current returns the current frame id, or "" when unset.
func (n *Navigator) Current() string {
	return n.current
}

// HasCurrent reports whether a current frame is set.
func (n *Navigator) HasCurrent() bool {
	return n.current != ""
}

// GoTo jumps directly to a frame regardless of path membership.
func (n *Navigator) GoTo(frameID string) error {
	if _, err := n.doc.Frame(frameID); err != nil {
		return fmt.Errorf("go to frame: %w", err)
	}
	n.current = frameID
	return nil
}

// Reset clears the current frame, used when a presentation closes or a
// deleted frame was current.
func (n *Navigator) Reset() {
	n.current = ""
}

// GoToStart moves to the first path entry. With an empty path the current
// frame stays unset and moved is false.
func (n *Navigator) GoToStart() (moved bool) {
	path := n.doc.Path()
	if len(path) == 0 {
		return false
	}
	n.current = path[0]
	return true
}

// Next advances one path entry. It reports whether the current frame
// changed: at the last entry, with an unset current frame, or with a
// current frame off the path, it is a no-op. The ends never wrap.
func (n *Navigator) Next() (moved bool) {
	path := n.doc.Path()
	i := n.doc.PathIndex(n.current)
	if i < 0 || i+1 >= len(path) {
		return false
	}
	n.current = path[i+1]
	return true
}

// Previous retreats one path entry, symmetric to Next.
func (n *Navigator) Previous() (moved bool) {
	i := n.doc.PathIndex(n.current)
	if i <= 0 {
		return false
	}
	n.current = n.doc.Path()[i-1]
	return true
}

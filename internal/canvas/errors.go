package canvas

import "errors"

var (
	// ErrFrameNotFound is returned when a frame id does not resolve.
	ErrFrameNotFound = errors.New("frame not found")

	// ErrElementNotFound is returned when an element id does not resolve
	// within its frame.
	ErrElementNotFound = errors.New("element not found")

	// ErrFrameLocked is returned when a geometry mutation targets a locked
	// frame. Content mutations (title, notes, colors, elements) still pass.
	ErrFrameLocked = errors.New("frame is locked")

	// ErrInvalidFrame is returned when a frame spec violates a model
	// invariant (non-positive size, duplicate id).
	ErrInvalidFrame = errors.New("invalid frame")

	// ErrNotInPath is returned when a path operation references a frame id
	// that is not part of the document.
	ErrNotInPath = errors.New("frame not referenced by path")
)

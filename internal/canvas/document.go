package canvas

import (
	"fmt"

	"github.com/ivlev/prezicast/internal/geom"
)

// EventKind classifies a document mutation for subscribers.
type EventKind string

const (
	EventFrameAdded     EventKind = "frame_added"
	EventFrameUpdated   EventKind = "frame_updated"
	EventFrameDeleted   EventKind = "frame_deleted"
	EventElementAdded   EventKind = "element_added"
	EventElementUpdated EventKind = "element_updated"
	EventElementDeleted EventKind = "element_deleted"
	EventPathChanged    EventKind = "path_changed"
)

// Event describes a single document mutation. ElementID is empty for
// frame-level and path-level events.
type Event struct {
	Kind      EventKind
	FrameID   string
	ElementID string
}

// Subscriber receives document mutation events. Subscribers run
// synchronously on the mutating goroutine; the document is single-writer by
// construction, so no locking is needed.
type Subscriber func(Event)

// Document is the in-memory canvas model: frames indexed by id, a stable
// insertion order for listing, and the presentation path. It is the single
// source of truth for the editor.
type Document struct {
	Title string

	frames     map[string]*Frame
	frameOrder []string
	path       []string

	subscribers []Subscriber
	nextFrameID int
	nextElemID  int
}

// NewDocument creates an empty document.
func NewDocument(title string) *Document {
	return &Document{
		Title:  title,
		frames: make(map[string]*Frame),
	}
}

// Subscribe registers a subscriber for all future mutations.
func (d *Document) Subscribe(s Subscriber) {
	d.subscribers = append(d.subscribers, s)
}

func (d *Document) notify(ev Event) {
	for _, s := range d.subscribers {
		s(ev)
	}
}

// FrameCount returns the number of frames in the document.
func (d *Document) FrameCount() int {
	return len(d.frames)
}

// Frame returns a copy of the frame with the given id.
func (d *Document) Frame(id string) (*Frame, error) {
	f, ok := d.frames[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFrameNotFound, id)
	}
	return f.clone(), nil
}

// Frames returns copies of all frames in insertion order.
func (d *Document) Frames() []*Frame {
	out := make([]*Frame, 0, len(d.frameOrder))
	for _, id := range d.frameOrder {
		out = append(out, d.frames[id].clone())
	}
	return out
}

// FrameBounds returns the canvas-space bounds of the frame with the given
// id, the rectangle the camera fits when navigating to it.
func (d *Document) FrameBounds(id string) (geom.Rect, error) {
	f, ok := d.frames[id]
	if !ok {
		return geom.Rect{}, fmt.Errorf("%w: %s", ErrFrameNotFound, id)
	}
	return f.Bounds(), nil
}

// AddFrame creates a frame from spec and returns its fresh id.
func (d *Document) AddFrame(spec FrameSpec) (string, error) {
	if spec.Width <= 0 || spec.Height <= 0 {
		return "", fmt.Errorf("%w: size must be positive, got %gx%g",
			ErrInvalidFrame, spec.Width, spec.Height)
	}

	scale := spec.Scale
	if scale == 0 {
		scale = 1
	}

	id := d.newFrameID()
	f := &Frame{
		ID:              id,
		Title:           spec.Title,
		Position:        spec.Position,
		Width:           spec.Width,
		Height:          spec.Height,
		Rotation:        spec.Rotation,
		Scale:           scale,
		BackgroundColor: spec.BackgroundColor,
		BorderColor:     spec.BorderColor,
		Notes:           spec.Notes,
	}

	d.frames[id] = f
	d.frameOrder = append(d.frameOrder, id)
	d.notify(Event{Kind: EventFrameAdded, FrameID: id})
	return id, nil
}

// UpdateFrame applies a partial update to a frame. Geometry fields are
// rejected with ErrFrameLocked while the frame is locked; content fields
// (title, notes, colors, the locked flag itself) always pass.
func (d *Document) UpdateFrame(id string, patch FramePatch) error {
	f, ok := d.frames[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrFrameNotFound, id)
	}

	if f.Locked && patch.touchesGeometry() {
		return fmt.Errorf("%w: %s", ErrFrameLocked, id)
	}
	if (patch.Width != nil && *patch.Width <= 0) ||
		(patch.Height != nil && *patch.Height <= 0) {
		return fmt.Errorf("%w: size must be positive", ErrInvalidFrame)
	}

	if patch.Title != nil {
		f.Title = *patch.Title
	}
	if patch.Position != nil {
		f.Position = *patch.Position
	}
	if patch.Width != nil {
		f.Width = *patch.Width
	}
	if patch.Height != nil {
		f.Height = *patch.Height
	}
	if patch.Rotation != nil {
		f.Rotation = *patch.Rotation
	}
	if patch.Scale != nil {
		f.Scale = *patch.Scale
	}
	if patch.BackgroundColor != nil {
		f.BackgroundColor = *patch.BackgroundColor
	}
	if patch.BorderColor != nil {
		f.BorderColor = *patch.BorderColor
	}
	if patch.Locked != nil {
		f.Locked = *patch.Locked
	}
	if patch.Notes != nil {
		f.Notes = *patch.Notes
	}

	d.notify(Event{Kind: EventFrameUpdated, FrameID: id})
	return nil
}

// DeleteFrame removes the frame, all its elements, and every occurrence of
// its id in the path.
func (d *Document) DeleteFrame(id string) error {
	if _, ok := d.frames[id]; !ok {
		return fmt.Errorf("%w: %s", ErrFrameNotFound, id)
	}

	delete(d.frames, id)
	d.frameOrder = removeID(d.frameOrder, id)

	pathChanged := containsID(d.path, id)
	d.path = removeID(d.path, id)

	d.notify(Event{Kind: EventFrameDeleted, FrameID: id})
	if pathChanged {
		d.notify(Event{Kind: EventPathChanged})
	}
	return nil
}

// Element returns a copy of an element scoped to its frame.
func (d *Document) Element(frameID, elementID string) (*Element, error) {
	f, ok := d.frames[frameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFrameNotFound, frameID)
	}
	e := f.element(elementID)
	if e == nil {
		return nil, fmt.Errorf("%w: %s/%s", ErrElementNotFound, frameID, elementID)
	}
	return e.clone(), nil
}

// AddElement appends an element to a frame's paint order and returns its
// fresh id. Element edits are content edits: they are allowed on locked
// frames.
func (d *Document) AddElement(frameID string, e Element) (string, error) {
	f, ok := d.frames[frameID]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrFrameNotFound, frameID)
	}

	e.ID = d.newElementID(f)
	f.Elements = append(f.Elements, e.clone())
	d.notify(Event{Kind: EventElementAdded, FrameID: frameID, ElementID: e.ID})
	return e.ID, nil
}

// UpdateElement applies a partial update to an element.
func (d *Document) UpdateElement(frameID, elementID string, patch ElementPatch) error {
	f, ok := d.frames[frameID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrFrameNotFound, frameID)
	}
	e := f.element(elementID)
	if e == nil {
		return fmt.Errorf("%w: %s/%s", ErrElementNotFound, frameID, elementID)
	}

	if patch.Position != nil {
		e.Position = *patch.Position
	}
	if patch.Size != nil {
		e.Size = *patch.Size
	}
	if patch.Rotation != nil {
		e.Rotation = *patch.Rotation
	}
	if patch.Content != nil {
		e.Content = *patch.Content
	}
	if patch.Text != nil {
		ts := *patch.Text
		e.Text = &ts
	}
	if patch.Shape != nil {
		ss := *patch.Shape
		e.Shape = &ss
	}

	d.notify(Event{Kind: EventElementUpdated, FrameID: frameID, ElementID: elementID})
	return nil
}

// DeleteElement removes an element from its frame.
func (d *Document) DeleteElement(frameID, elementID string) error {
	f, ok := d.frames[frameID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrFrameNotFound, frameID)
	}
	if f.element(elementID) == nil {
		return fmt.Errorf("%w: %s/%s", ErrElementNotFound, frameID, elementID)
	}

	kept := f.Elements[:0]
	for _, e := range f.Elements {
		if e.ID != elementID {
			kept = append(kept, e)
		}
	}
	f.Elements = kept

	d.notify(Event{Kind: EventElementDeleted, FrameID: frameID, ElementID: elementID})
	return nil
}

// Path returns a copy of the presentation path.
func (d *Document) Path() []string {
	return append([]string(nil), d.path...)
}

// SetPath replaces the presentation path. Every id must reference an
// existing frame; duplicates are rejected.
func (d *Document) SetPath(ids []string) error {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := d.frames[id]; !ok {
			return fmt.Errorf("%w: %s", ErrFrameNotFound, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: duplicate path entry %s", ErrInvalidFrame, id)
		}
		seen[id] = true
	}

	d.path = append([]string(nil), ids...)
	d.notify(Event{Kind: EventPathChanged})
	return nil
}

// AppendToPath adds a frame to the end of the path. Appending a frame
// already in the path is a no-op: a frame appears at most once.
func (d *Document) AppendToPath(id string) error {
	if _, ok := d.frames[id]; !ok {
		return fmt.Errorf("%w: %s", ErrFrameNotFound, id)
	}
	if containsID(d.path, id) {
		return nil
	}
	d.path = append(d.path, id)
	d.notify(Event{Kind: EventPathChanged})
	return nil
}

// RemoveFromPath removes a frame from the path without deleting the frame.
func (d *Document) RemoveFromPath(id string) error {
	if !containsID(d.path, id) {
		return fmt.Errorf("%w: %s", ErrNotInPath, id)
	}
	d.path = removeID(d.path, id)
	d.notify(Event{Kind: EventPathChanged})
	return nil
}

// PathIndex returns the index of a frame in the path, or -1.
func (d *Document) PathIndex(id string) int {
	for i, p := range d.path {
		if p == id {
			return i
		}
	}
	return -1
}

func (d *Document) newFrameID() string {
	for {
		d.nextFrameID++
		id := fmt.Sprintf("f%d", d.nextFrameID)
		if _, taken := d.frames[id]; !taken {
			return id
		}
	}
}

func (d *Document) newElementID(f *Frame) string {
	for {
		d.nextElemID++
		id := fmt.Sprintf("e%d", d.nextElemID)
		if f.element(id) == nil {
			return id
		}
	}
}

// RestoreFrame inserts a frame that already carries an id, used when loading
// a document from a deck file or the store. The frame's invariants are
// checked; its elements come along as-is.
func (d *Document) RestoreFrame(f *Frame) error {
	if f.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidFrame)
	}
	if _, taken := d.frames[f.ID]; taken {
		return fmt.Errorf("%w: duplicate id %s", ErrInvalidFrame, f.ID)
	}
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("%w: %s size must be positive", ErrInvalidFrame, f.ID)
	}
	seen := make(map[string]bool, len(f.Elements))
	for _, e := range f.Elements {
		if e.ID == "" || seen[e.ID] {
			return fmt.Errorf("%w: %s/%s", ErrInvalidFrame, f.ID, e.ID)
		}
		seen[e.ID] = true
	}
	if f.Scale == 0 {
		f.Scale = 1
	}

	d.frames[f.ID] = f.clone()
	d.frameOrder = append(d.frameOrder, f.ID)
	d.notify(Event{Kind: EventFrameAdded, FrameID: f.ID})
	return nil
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

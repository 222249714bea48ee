// Package reorder implements drag-and-drop moves between ordered containers,
// such as the plays of call-sheet sections or the entries of a practice script.
package reorder

import (
	"errors"
	"fmt"
)

var (
	ErrBadTransition = errors.New("invalid drag transition")
	ErrBadPosition   = errors.New("invalid position")
)

// Position addresses one slot of a named container.
type Position struct {
	Container string `json:"container"`
	Index     int    `json:"index"`
}

// Move splices the item at from out of its container and inserts it into the
// target container at to.Index. When both containers are the same, to.Index
// addresses the list after removal. Target indexes past the end append.
func Move[T any](containers map[string][]T, from, to Position) error {
	src, ok := containers[from.Container]
	if !ok {
		return fmt.Errorf("source container %q: %w", from.Container, ErrBadPosition)
	}
	if from.Index < 0 || from.Index >= len(src) {
		return fmt.Errorf("source index %d out of range [0,%d): %w", from.Index, len(src), ErrBadPosition)
	}
	if _, ok := containers[to.Container]; !ok {
		return fmt.Errorf("target container %q: %w", to.Container, ErrBadPosition)
	}
	if to.Index < 0 {
		return fmt.Errorf("target index %d: %w", to.Index, ErrBadPosition)
	}

	item := src[from.Index]
	rest := make([]T, 0, len(src)-1)
	rest = append(rest, src[:from.Index]...)
	rest = append(rest, src[from.Index+1:]...)
	containers[from.Container] = rest

	dst := containers[to.Container]
	idx := to.Index
	if idx > len(dst) {
		idx = len(dst)
	}
	out := make([]T, 0, len(dst)+1)
	out = append(out, dst[:idx]...)
	out = append(out, item)
	out = append(out, dst[idx:]...)
	containers[to.Container] = out
	return nil
}

// State is the phase of a drag gesture.
type State int

const (
	Idle State = iota
	Dragging
	Hovering
	Dropped
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Hovering:
		return "hovering"
	case Dropped:
		return "dropped"
	case Cancelled:
		return "cancelled"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Gesture models the pointer drag a client performs: idle -> dragging ->
// hovering -> dropped or cancelled. Only Drop mutates containers. A finished
// gesture can be reused by calling Start again. Servers that receive a
// finished drag as a from/to pair replay it with DragAndDrop.
type Gesture struct {
	state  State
	source Position
	target Position
}

func (g *Gesture) State() State { return g.state }
func (g *Gesture) Source() Position { return g.source }
func (g *Gesture) Target() Position { return g.target }

// Start picks up the item at source.
func (g *Gesture) Start(source Position) error {
	if g.state == Dragging || g.state == Hovering {
		return fmt.Errorf("start while %s: %w", g.state, ErrBadTransition)
	}
	g.state = Dragging
	g.source = source
	g.target = Position{}
	return nil
}

// Hover records the slot currently under the pointer.
func (g *Gesture) Hover(target Position) error {
	if g.state != Dragging && g.state != Hovering {
		return fmt.Errorf("hover while %s: %w", g.state, ErrBadTransition)
	}
	g.state = Hovering
	g.target = target
	return nil
}

// Drop applies the move to containers. Dropping without a hovered target is
// treated as a cancel.
func Drop[T any](g *Gesture, containers map[string][]T) error {
	switch g.state {
	case Dragging:
		g.state = Cancelled
		return nil
	case Hovering:
	default:
		return fmt.Errorf("drop while %s: %w", g.state, ErrBadTransition)
	}
	if err := Move(containers, g.source, g.target); err != nil {
		g.state = Cancelled
		return err
	}
	g.state = Dropped
	return nil
}

// Cancel ends the gesture without touching any container.
func (g *Gesture) Cancel() {
	if g.state == Dragging || g.state == Hovering {
		g.state = Cancelled
	}
}

// DragAndDrop replays a completed drag from one position to another through a
// Gesture and applies it to containers.
func DragAndDrop[T any](containers map[string][]T, from, to Position) error {
	var g Gesture
	if err := g.Start(from); err != nil {
		return err
	}
	if err := g.Hover(to); err != nil {
		return err
	}
	return Drop(&g, containers)
}

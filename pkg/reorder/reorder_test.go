package reorder

import (
	"errors"
	"reflect"
	"testing"
)

func containers() map[string][]string {
	return map[string][]string{
		"a": {"1", "2", "3"},
		"b": {"x"},
		"c": {},
	}
}

func TestMove(t *testing.T) {
	tests := []struct {
		name     string
		from, to Position
		want     map[string][]string
	}{
		{
			name: "same container forward",
			from: Position{"a", 0}, to: Position{"a", 2},
			want: map[string][]string{"a": {"2", "3", "1"}, "b": {"x"}, "c": {}},
		},
		{
			name: "same container backward",
			from: Position{"a", 2}, to: Position{"a", 0},
			want: map[string][]string{"a": {"3", "1", "2"}, "b": {"x"}, "c": {}},
		},
		{
			name: "into other container",
			from: Position{"a", 1}, to: Position{"b", 0},
			want: map[string][]string{"a": {"1", "3"}, "b": {"2", "x"}, "c": {}},
		},
		{
			name: "into empty container",
			from: Position{"b", 0}, to: Position{"c", 0},
			want: map[string][]string{"a": {"1", "2", "3"}, "b": {}, "c": {"x"}},
		},
		{
			name: "index past end appends",
			from: Position{"a", 0}, to: Position{"b", 99},
			want: map[string][]string{"a": {"2", "3"}, "b": {"x", "1"}, "c": {}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := containers()
			if err := Move(got, tt.from, tt.to); err != nil {
				t.Fatalf("Move: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("unexpected containers.\nwant: %v\ngot:  %v", tt.want, got)
			}
		})
	}
}

func TestMoveRejectsBadPositions(t *testing.T) {
	tests := []struct {
		name     string
		from, to Position
	}{
		{"unknown source", Position{"z", 0}, Position{"a", 0}},
		{"source index too big", Position{"a", 3}, Position{"a", 0}},
		{"negative source", Position{"a", -1}, Position{"a", 0}},
		{"unknown target", Position{"a", 0}, Position{"z", 0}},
		{"negative target", Position{"a", 0}, Position{"b", -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := containers()
			if err := Move(got, tt.from, tt.to); !errors.Is(err, ErrBadPosition) {
				t.Fatalf("expected ErrBadPosition, got %v", err)
			}
			if !reflect.DeepEqual(got, containers()) {
				t.Fatalf("containers changed on error: %v", got)
			}
		})
	}
}

func TestGestureDrop(t *testing.T) {
	var g Gesture
	c := containers()

	if err := g.Start(Position{"a", 0}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := g.Hover(Position{"b", 1}); err != nil {
		t.Fatalf("Hover: %v", err)
	}
	if err := g.Hover(Position{"c", 0}); err != nil {
		t.Fatalf("Hover again: %v", err)
	}
	if err := Drop(&g, c); err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if g.State() != Dropped {
		t.Fatalf("expected dropped, got %s", g.State())
	}
	if !reflect.DeepEqual(c["c"], []string{"1"}) || !reflect.DeepEqual(c["a"], []string{"2", "3"}) {
		t.Fatalf("unexpected containers after drop: %v", c)
	}
}

func TestGestureCancelLeavesContainersUnchanged(t *testing.T) {
	var g Gesture
	c := containers()

	if err := g.Start(Position{"a", 1}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := g.Hover(Position{"b", 0}); err != nil {
		t.Fatalf("Hover: %v", err)
	}
	g.Cancel()
	if g.State() != Cancelled {
		t.Fatalf("expected cancelled, got %s", g.State())
	}
	if err := Drop(&g, c); !errors.Is(err, ErrBadTransition) {
		t.Fatalf("expected ErrBadTransition dropping a cancelled gesture, got %v", err)
	}
	if !reflect.DeepEqual(c, containers()) {
		t.Fatalf("containers changed: %v", c)
	}
}

func TestGestureDropWithoutHoverCancels(t *testing.T) {
	var g Gesture
	c := containers()
	if err := g.Start(Position{"a", 0}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := Drop(&g, c); err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if g.State() != Cancelled {
		t.Fatalf("expected cancelled, got %s", g.State())
	}
	if !reflect.DeepEqual(c, containers()) {
		t.Fatalf("containers changed: %v", c)
	}
}

func TestGestureTransitions(t *testing.T) {
	var g Gesture
	if err := g.Hover(Position{"a", 0}); !errors.Is(err, ErrBadTransition) {
		t.Fatalf("hover while idle: expected ErrBadTransition, got %v", err)
	}
	if err := g.Start(Position{"a", 0}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := g.Start(Position{"a", 1}); !errors.Is(err, ErrBadTransition) {
		t.Fatalf("start while dragging: expected ErrBadTransition, got %v", err)
	}
	g.Cancel()
	if err := g.Start(Position{"a", 1}); err != nil {
		t.Fatalf("restart after cancel: %v", err)
	}
	if g.Source() != (Position{"a", 1}) {
		t.Fatalf("unexpected source %+v", g.Source())
	}
}

func TestGestureFailedMoveCancels(t *testing.T) {
	var g Gesture
	c := containers()
	_ = g.Start(Position{"a", 0})
	_ = g.Hover(Position{"missing", 0})
	if err := Drop(&g, c); !errors.Is(err, ErrBadPosition) {
		t.Fatalf("expected ErrBadPosition, got %v", err)
	}
	if g.State() != Cancelled {
		t.Fatalf("expected cancelled, got %s", g.State())
	}
}

func TestDragAndDropMatchesMove(t *testing.T) {
	from, to := Position{Container: "a", Index: 2}, Position{Container: "b", Index: 0}

	viaGesture, viaMove := containers(), containers()
	if err := DragAndDrop(viaGesture, from, to); err != nil {
		t.Fatalf("DragAndDrop: %v", err)
	}
	if err := Move(viaMove, from, to); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if !reflect.DeepEqual(viaGesture, viaMove) {
		t.Fatalf("DragAndDrop = %v, Move = %v", viaGesture, viaMove)
	}

	before := containers()
	err := DragAndDrop(before, Position{Container: "c", Index: 0}, to)
	if !errors.Is(err, ErrBadPosition) {
		t.Fatalf("expected ErrBadPosition, got %v", err)
	}
	if !reflect.DeepEqual(before, containers()) {
		t.Fatalf("failed drop changed containers: %v", before)
	}
}

// Package history keeps bounded linear undo/redo stacks of adjustment
// snapshots.
package history

import "github.com/cristianoliveira/pixtweak/internal/adjust"

// DefaultCap is the number of snapshots retained on each stack.
const DefaultCap = 40

// Snapshot is an immutable point-in-time copy of an adjustment state.
type Snapshot struct {
	state adjust.State
}

// Take captures s.
func Take(s adjust.State) Snapshot {
	return Snapshot{state: s}
}

// State returns a copy of the captured state.
func (s Snapshot) State() adjust.State {
	return s.state
}

// Stack holds the undo and redo sequences, most recent last.
type Stack struct {
	undo []Snapshot
	redo []Snapshot
	cap  int
}

// New creates a Stack retaining at most capacity snapshots per side.
// Non-positive capacities fall back to DefaultCap.
func New(capacity int) *Stack {
	if capacity <= 0 {
		capacity = DefaultCap
	}
	return &Stack{
		undo: make([]Snapshot, 0, capacity),
		redo: make([]Snapshot, 0, capacity),
		cap:  capacity,
	}
}

// Cap returns the per-side capacity.
func (h *Stack) Cap() int {
	return h.cap
}

// Push records s on the undo stack and clears the redo stack.
func (h *Stack) Push(s adjust.State) {
	h.undo = pushBounded(h.undo, Take(s), h.cap)
	h.redo = h.redo[:0]
}

// Undo records current on the redo stack and returns the most recent undo
// entry. It returns false and leaves both stacks untouched when there is
// nothing to undo.
func (h *Stack) Undo(current adjust.State) (adjust.State, bool) {
	if len(h.undo) == 0 {
		return current, false
	}
	prev := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = pushBounded(h.redo, Take(current), h.cap)
	return prev.State(), true
}

// Redo records current on the undo stack and returns the most recent redo
// entry. It returns false and leaves both stacks untouched when there is
// nothing to redo.
func (h *Stack) Redo(current adjust.State) (adjust.State, bool) {
	if len(h.redo) == 0 {
		return current, false
	}
	next := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = pushBounded(h.undo, Take(current), h.cap)
	return next.State(), true
}

// CanUndo reports whether Undo would restore a snapshot.
func (h *Stack) CanUndo() bool {
	return len(h.undo) > 0
}

// CanRedo reports whether Redo would restore a snapshot.
func (h *Stack) CanRedo() bool {
	return len(h.redo) > 0
}

// Len returns the undo stack length.
func (h *Stack) Len() int {
	return len(h.undo)
}

// RedoLen returns the redo stack length.
func (h *Stack) RedoLen() int {
	return len(h.redo)
}

// Clear empties both stacks.
func (h *Stack) Clear() {
	h.undo = h.undo[:0]
	h.redo = h.redo[:0]
}

// Undos returns the undo entries, oldest first.
func (h *Stack) Undos() []adjust.State {
	return states(h.undo)
}

// Redos returns the redo entries, oldest first.
func (h *Stack) Redos() []adjust.State {
	return states(h.redo)
}

func states(snaps []Snapshot) []adjust.State {
	out := make([]adjust.State, len(snaps))
	for i, s := range snaps {
		out[i] = s.State()
	}
	return out
}

// pushBounded appends s and drops the oldest entries past capacity.
func pushBounded(stack []Snapshot, s Snapshot, capacity int) []Snapshot {
	stack = append(stack, s)
	if excess := len(stack) - capacity; excess > 0 {
		copy(stack, stack[excess:])
		stack = stack[:capacity]
	}
	return stack
}

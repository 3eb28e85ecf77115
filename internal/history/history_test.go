package history

import (
	"testing"

	"github.com/cristianoliveira/pixtweak/internal/adjust"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stateWithBrightness(v float64) adjust.State {
	return adjust.Set(adjust.Default(), adjust.Brightness, v)
}

func TestNewFallsBackToDefaultCap(t *testing.T) {
	assert.Equal(t, DefaultCap, New(0).Cap())
	assert.Equal(t, DefaultCap, New(-5).Cap())
	assert.Equal(t, 30, New(30).Cap())
}

func TestPushRespectsCap(t *testing.T) {
	tests := []struct {
		name   string
		cap    int
		pushes int
	}{
		{name: "under cap", cap: 40, pushes: 10},
		{name: "exactly cap", cap: 30, pushes: 30},
		{name: "over cap", cap: 40, pushes: 100},
		{name: "cap of one", cap: 1, pushes: 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(tt.cap)
			for i := 0; i < tt.pushes; i++ {
				h.Push(stateWithBrightness(float64(i)))
				assert.LessOrEqual(t, h.Len(), tt.cap)
			}

			undos := h.Undos()
			want := tt.pushes
			if want > tt.cap {
				want = tt.cap
			}
			require.Len(t, undos, want)
			first := tt.pushes - want
			for i, s := range undos {
				assert.Equal(t, float64(first+i), s.Brightness, "entry %d", i)
			}
		})
	}
}

func TestPushClearsRedo(t *testing.T) {
	h := New(10)
	h.Push(stateWithBrightness(1))
	h.Push(stateWithBrightness(2))
	_, ok := h.Undo(stateWithBrightness(3))
	require.True(t, ok)
	_, ok = h.Undo(stateWithBrightness(2))
	require.True(t, ok)
	require.Equal(t, 2, h.RedoLen())

	h.Push(stateWithBrightness(9))

	assert.Equal(t, 0, h.RedoLen())
	assert.False(t, h.CanRedo())
}

func TestUndoRedoInverse(t *testing.T) {
	h := New(DefaultCap)
	s := adjust.Default()
	next := adjust.Set(s, adjust.Sepia, 40).RotateRight()

	h.Push(s)
	restored, ok := h.Undo(next)
	require.True(t, ok)
	assert.Equal(t, s, restored)
	assert.Equal(t, []adjust.State{next}, h.Redos())
	assert.Empty(t, h.Undos())

	again, ok := h.Redo(restored)
	require.True(t, ok)
	assert.Equal(t, next, again)
	assert.Equal(t, 1, h.Len())
	assert.Equal(t, 0, h.RedoLen())
}

func TestEmptyStacksAreNoOps(t *testing.T) {
	h := New(5)
	current := stateWithBrightness(150)

	got, ok := h.Undo(current)
	assert.False(t, ok)
	assert.Equal(t, current, got)
	assert.Equal(t, 0, h.Len())
	assert.Equal(t, 0, h.RedoLen())

	got, ok = h.Redo(current)
	assert.False(t, ok)
	assert.Equal(t, current, got)
	assert.Equal(t, 0, h.Len())
	assert.Equal(t, 0, h.RedoLen())
}

func TestRedoStackIsBounded(t *testing.T) {
	h := New(3)
	for i := 0; i < 3; i++ {
		h.Push(stateWithBrightness(float64(i)))
	}
	cur := stateWithBrightness(99)
	for h.CanUndo() {
		cur, _ = h.Undo(cur)
	}
	assert.Equal(t, 3, h.RedoLen())
	assert.Equal(t, 0.0, cur.Brightness)
}

func TestSnapshotsDoNotAliasLiveState(t *testing.T) {
	h := New(5)
	live := stateWithBrightness(10)
	h.Push(live)

	live.Brightness = 999

	undos := h.Undos()
	require.Len(t, undos, 1)
	assert.Equal(t, 10.0, undos[0].Brightness)

	undos[0].Brightness = 5
	assert.Equal(t, 10.0, h.Undos()[0].Brightness)
}

func TestClear(t *testing.T) {
	h := New(5)
	h.Push(adjust.Default())
	h.Push(adjust.Default())
	h.Undo(adjust.Default())

	h.Clear()

	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())
}

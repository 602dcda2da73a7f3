package design

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cloneInts(s []int) []int {
	return append([]int(nil), s...)
}

func TestHistory_UndoRedo(t *testing.T) {
	h := NewHistory([]int{}, cloneInts, 0)
	h.Push([]int{1})
	h.Push([]int{1, 2})
	h.Push([]int{1, 2, 3})

	assert.Equal(t, 4, h.Len())
	assert.Equal(t, []int{1, 2}, h.Undo())
	assert.Equal(t, []int{1}, h.Undo())
	assert.Equal(t, []int{1, 2}, h.Redo())
	assert.True(t, h.CanUndo())
	assert.True(t, h.CanRedo())
}

func TestHistory_Clamps(t *testing.T) {
	h := NewHistory([]int{0}, cloneInts, 0)
	h.Push([]int{1})

	assert.Equal(t, []int{0}, h.Undo())
	assert.Equal(t, []int{0}, h.Undo())
	assert.Equal(t, 0, h.Cursor())
	assert.False(t, h.CanUndo())

	assert.Equal(t, []int{1}, h.Redo())
	assert.Equal(t, []int{1}, h.Redo())
	assert.Equal(t, 1, h.Cursor())
	assert.False(t, h.CanRedo())
}

func TestHistory_PushTruncatesFuture(t *testing.T) {
	h := NewHistory([]int{0}, cloneInts, 0)
	h.Push([]int{1})
	h.Push([]int{2})
	h.Undo()
	h.Undo()

	h.Push([]int{9})

	assert.Equal(t, 2, h.Len())
	assert.False(t, h.CanRedo())
	assert.Equal(t, []int{9}, h.Redo())
	assert.Equal(t, []int{0}, h.Undo())
}

func TestHistory_Limit(t *testing.T) {
	h := NewHistory([]int{0}, cloneInts, 3)
	for i := 1; i <= 5; i++ {
		h.Push([]int{i})
	}

	assert.Equal(t, 3, h.Len())
	assert.Equal(t, 2, h.Cursor())
	assert.Equal(t, []int{5}, h.Current())
	h.Undo()
	assert.Equal(t, []int{3}, h.Undo())
	assert.Equal(t, []int{3}, h.Undo())
}

func TestDocumentHistory_SnapshotsAreIndependent(t *testing.T) {
	d := newTestDocument()
	h := NewDocumentHistory(d, 50)

	require.NoError(t, d.AddElement("front", NewTextElement("a")))
	h.Push(d)

	// later edits to the live document do not leak into history
	require.NoError(t, d.RemoveElement("front", "a"))
	assert.Equal(t, 1, h.Current().ElementCount())

	// mutating a returned snapshot does not change the log
	snap := h.Undo()
	require.NoError(t, snap.AddElement("back", NewTextElement("b")))
	assert.Equal(t, 0, h.Current().ElementCount())

	redo := h.Redo()
	assert.Equal(t, 1, redo.ElementCount())
	assert.ErrorIs(t, redo.AddElement("back", NewTextElement("a")), ErrDuplicateElement)
}

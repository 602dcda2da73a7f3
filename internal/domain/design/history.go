package design

// History is a linear undo/redo log of full snapshots.
// Every entry is an independent copy; values handed out are copies too, so
// callers may mutate them freely without corrupting the log.
type History[T any] struct {
	entries []T
	cursor  int
	clone   func(T) T
	limit   int
}

// NewHistory starts a log at initial. clone must return a deep copy.
// A positive limit caps the number of retained entries, dropping the oldest.
func NewHistory[T any](initial T, clone func(T) T, limit int) *History[T] {
	return &History[T]{
		entries: []T{clone(initial)},
		clone:   clone,
		limit:   limit,
	}
}

// NewDocumentHistory is a History over design documents
func NewDocumentHistory(initial *Document, limit int) *History[*Document] {
	return NewHistory(initial, (*Document).Clone, limit)
}

// Push records state, discarding any redo entries past the cursor
func (h *History[T]) Push(state T) {
	h.entries = append(h.entries[:h.cursor+1:h.cursor+1], h.clone(state))
	h.cursor++
	if h.limit > 0 && len(h.entries) > h.limit {
		drop := len(h.entries) - h.limit
		h.entries = append([]T(nil), h.entries[drop:]...)
		h.cursor -= drop
	}
}

// Undo steps back one entry. At the oldest entry it is a no-op.
func (h *History[T]) Undo() T {
	if h.cursor > 0 {
		h.cursor--
	}
	return h.Current()
}

// Redo steps forward one entry. At the newest entry it is a no-op.
func (h *History[T]) Redo() T {
	if h.cursor < len(h.entries)-1 {
		h.cursor++
	}
	return h.Current()
}

// Current returns a copy of the entry under the cursor
func (h *History[T]) Current() T {
	return h.clone(h.entries[h.cursor])
}

// CanUndo reports whether Undo would move the cursor
func (h *History[T]) CanUndo() bool {
	return h.cursor > 0
}

// CanRedo reports whether Redo would move the cursor
func (h *History[T]) CanRedo() bool {
	return h.cursor < len(h.entries)-1
}

// Len returns the number of retained entries
func (h *History[T]) Len() int {
	return len(h.entries)
}

// Cursor returns the index of the current entry
func (h *History[T]) Cursor() int {
	return h.cursor
}

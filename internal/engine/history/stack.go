package history

import (
	"errors"
	"fmt"
	"sync"
)

// DefaultMaxEntries is used when a non-positive limit is requested.
const DefaultMaxEntries = 50

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// History manages undo/redo state.
//
// The undo stack holds operations as recorded. The redo stack holds the
// reversed form produced by Undo.
type History[S any] struct {
	mu sync.Mutex

	undoStack []Operation[S]
	redoStack []Operation[S]

	// Grouping state
	grouping  bool
	groupName string
	groupOps  []Operation[S]

	exec Executor[S]

	// Configuration
	maxEntries int
}

// NewHistory creates a new history manager.
// A nil executor records and moves operations without executing payloads.
func NewHistory[S any](maxEntries int, exec Executor[S]) *History[S] {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if exec == nil {
		exec = ExecutorFunc[S](func(S) error { return nil })
	}
	return &History[S]{
		maxEntries: maxEntries,
		exec:       exec,
	}
}

// RecordOperation builds an operation from its parts and records it.
func (h *History[S]) RecordOperation(name string, undo, redo S) Operation[S] {
	op := NewOperation(name, undo, redo)
	h.Record(op)
	return op
}

// Record adds an already applied operation to the undo stack.
// Clears the redo stack.
func (h *History[S]) Record(op Operation[S]) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.grouping {
		h.groupOps = append(h.groupOps, op)
		return
	}

	h.pushLocked(op)
}

// pushLocked adds an operation without acquiring the lock.
func (h *History[S]) pushLocked(op Operation[S]) {
	h.undoStack = append(h.undoStack, op)

	// Any alternate future is gone once a new operation is recorded
	h.redoStack = nil

	h.trimLocked()
}

// trimLocked evicts the oldest undo entries beyond maxEntries.
func (h *History[S]) trimLocked() {
	if excess := len(h.undoStack) - h.maxEntries; excess > 0 {
		clear(h.undoStack[:excess])
		h.undoStack = h.undoStack[excess:]
	}
}

// Undo reverses the last operation.
// The lock is released while the executor runs.
func (h *History[S]) Undo() error {
	h.mu.Lock()
	if len(h.undoStack) == 0 {
		h.mu.Unlock()
		return ErrNothingToUndo
	}

	op := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.mu.Unlock()

	if err := h.exec.Execute(op.Undo); err != nil {
		// Restore entry on failure
		h.mu.Lock()
		h.undoStack = append(h.undoStack, op)
		h.mu.Unlock()
		return fmt.Errorf("undo %q: %w", op.Name, err)
	}

	h.mu.Lock()
	h.redoStack = append(h.redoStack, op.Reversed())
	h.mu.Unlock()
	return nil
}

// Redo re-applies the last undone operation.
// The lock is released while the executor runs.
func (h *History[S]) Redo() error {
	h.mu.Lock()
	if len(h.redoStack) == 0 {
		h.mu.Unlock()
		return ErrNothingToRedo
	}

	rev := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.mu.Unlock()

	op := rev.Reversed()
	if err := h.exec.Execute(op.Redo); err != nil {
		// Restore entry on failure
		h.mu.Lock()
		h.redoStack = append(h.redoStack, rev)
		h.mu.Unlock()
		return fmt.Errorf("redo %q: %w", op.Name, err)
	}

	h.mu.Lock()
	h.undoStack = append(h.undoStack, op)
	h.trimLocked()
	h.mu.Unlock()
	return nil
}

// CanUndo returns true if undo is available.
func (h *History[S]) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History[S]) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo operations available.
func (h *History[S]) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redo operations available.
func (h *History[S]) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// Sizes returns the undo and redo stack depths.
func (h *History[S]) Sizes() (undo, redo int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack), len(h.redoStack)
}

// UndoDescription describes what Undo would do, e.g. "Undo Insert 42".
func (h *History[S]) UndoDescription() string {
	if info, ok := h.PeekUndo(); ok {
		return "Undo " + info.Description
	}
	return "Nothing to undo"
}

// RedoDescription describes what Redo would do, e.g. "Redo Insert 42".
func (h *History[S]) RedoDescription() string {
	if info, ok := h.PeekRedo(); ok {
		return "Redo " + info.Description
	}
	return "Nothing to redo"
}

// Clear removes all undo/redo history. An open group is kept so it can
// still be ended or rolled back.
func (h *History[S]) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.undoStack = nil
	h.redoStack = nil
}

// UndoInfo returns info about available undo operations, oldest first.
func (h *History[S]) UndoInfo() []OperationInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return infos(h.undoStack)
}

// RedoInfo returns info about available redo operations, oldest first.
func (h *History[S]) RedoInfo() []OperationInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return infos(h.redoStack)
}

func infos[S any](ops []Operation[S]) []OperationInfo {
	result := make([]OperationInfo, len(ops))
	for i, op := range ops {
		result[i] = op.Info()
	}
	return result
}

// PeekUndo returns info about the next undo operation without removing it.
func (h *History[S]) PeekUndo() (OperationInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return OperationInfo{}, false
	}
	return h.undoStack[len(h.undoStack)-1].Info(), true
}

// PeekRedo returns info about the next redo operation without removing it.
func (h *History[S]) PeekRedo() (OperationInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redoStack) == 0 {
		return OperationInfo{}, false
	}
	return h.redoStack[len(h.redoStack)-1].Info(), true
}

// SetMaxEntries changes the maximum number of undo entries.
// If the current stack is larger, oldest entries are removed.
func (h *History[S]) SetMaxEntries(max int) {
	if max <= 0 {
		max = DefaultMaxEntries
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.maxEntries = max
	h.trimLocked()
}

// MaxEntries returns the maximum number of undo entries.
func (h *History[S]) MaxEntries() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.maxEntries
}

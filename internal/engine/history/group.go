package history

import "fmt"

// BeginGroup starts an operation group.
// Operations recorded while grouping are combined into a single undo unit.
func (h *History[S]) BeginGroup(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.grouping {
		// Already grouping, ignore nested calls
		return
	}

	h.grouping = true
	h.groupName = name
	h.groupOps = nil
}

// EndGroup finishes an operation group.
// The group undoes to its first member's Undo payload and redoes to its
// last member's Redo payload. An empty group records nothing.
func (h *History[S]) EndGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.grouping {
		return
	}

	h.grouping = false
	ops := h.groupOps
	h.groupOps = nil

	if len(ops) == 0 {
		return
	}

	name := h.groupName
	if name == "" {
		if len(ops) == 1 {
			name = ops[0].Name
		} else {
			name = fmt.Sprintf("%d operations", len(ops))
		}
	}

	h.pushLocked(NewOperation(name, ops[0].Undo, ops[len(ops)-1].Redo))
}

// RollbackGroup abandons a group and executes its first member's Undo
// payload, returning the caller to the state before the group began.
// Nothing is recorded.
func (h *History[S]) RollbackGroup() error {
	h.mu.Lock()
	ops := h.groupOps
	h.grouping = false
	h.groupOps = nil
	h.mu.Unlock()

	if len(ops) == 0 {
		return nil
	}
	if err := h.exec.Execute(ops[0].Undo); err != nil {
		return fmt.Errorf("rollback group: %w", err)
	}
	return nil
}

// IsGrouping returns true if currently in an operation group.
func (h *History[S]) IsGrouping() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.grouping
}

// SetGroupName renames the open group. It has no effect outside a group.
func (h *History[S]) SetGroupName(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.grouping {
		h.groupName = name
	}
}

package history

import (
	"time"

	"github.com/google/uuid"
)

// Operation is a single undoable step.
// It holds the payload that reverses the step and the payload that
// re-applies it. Operations are values and are never mutated after
// construction.
type Operation[S any] struct {
	ID        uuid.UUID // Stable across Reversed
	Name      string    // Human-readable name, e.g. "Insert 42"
	Undo      S         // Payload executed on undo
	Redo      S         // Payload executed on redo
	Timestamp time.Time // When the operation was recorded
}

// NewOperation creates a new operation.
func NewOperation[S any](name string, undo, redo S) Operation[S] {
	return Operation[S]{
		ID:        uuid.New(),
		Name:      name,
		Undo:      undo,
		Redo:      redo,
		Timestamp: time.Now(),
	}
}

// Reversed returns the operation with its payloads swapped.
func (op Operation[S]) Reversed() Operation[S] {
	op.Undo, op.Redo = op.Redo, op.Undo
	return op
}

// Info returns a read-only description of the operation.
func (op Operation[S]) Info() OperationInfo {
	return OperationInfo{
		ID:          op.ID,
		Description: op.Name,
		Timestamp:   op.Timestamp,
	}
}

// OperationInfo provides read-only info about an operation.
// Used for displaying undo/redo history to users.
type OperationInfo struct {
	ID          uuid.UUID // Operation identifier
	Description string    // Human-readable description
	Timestamp   time.Time // When the operation occurred
}

// Executor applies an operation payload.
type Executor[S any] interface {
	Execute(action S) error
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc[S any] func(action S) error

// Execute calls f(action).
func (f ExecutorFunc[S]) Execute(action S) error {
	return f(action)
}

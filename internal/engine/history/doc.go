// Package history provides undo/redo for the tree engine.
//
// The history uses the Command pattern, but commands are data rather than
// closures: an Operation carries an Undo payload and a Redo payload, and
// the History hands whichever one applies to its Executor. For the tree
// engine both payloads are snapshots, so undo and redo are full restores
// of a previous shape rather than incremental replays.
//
// # Operations
//
// An Operation pairs a human-readable name with its two payloads:
//
//	op := history.NewOperation("Insert 42", before, after)
//
// Reversed returns the same operation with the payloads swapped. That is
// the form kept on the redo stack.
//
// # History Stack
//
// The History type manages the undo and redo stacks:
//
//	h := history.NewHistory(50, history.ExecutorFunc[tree.Snapshot](restore))
//
//	h.RecordOperation("Insert 42", before, after)
//
//	h.Undo() // executes before
//	h.Redo() // executes after
//
// Recording a new operation discards the redo stack. Once more than
// MaxEntries operations are recorded the oldest are dropped.
//
// # Grouping
//
// Several recorded operations can be collapsed into one undo unit:
//
//	h.BeginGroup("Insert 5 values")
//	// ... several RecordOperation calls ...
//	h.EndGroup()
//
// The group undoes to the state before its first member and redoes to the
// state after its last member.
package history

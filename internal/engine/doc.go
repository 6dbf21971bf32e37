// Package engine provides the binary search tree engine for bstviz.
//
// The engine package serves as the main facade, combining the tree and its
// undo/redo history into a unified, thread-safe API.
//
// # Architecture
//
// The engine is built on two sub-packages:
//
//   - tree: parent-linked binary search tree with traversals and metrics
//   - history: snapshot-based undo/redo with grouping and checkpoints
//
// Every mutation captures a preorder snapshot before and after the change
// and records the pair as one history operation. Undo and redo restore the
// stored snapshot, which rebuilds the exact same shape.
//
// # Thread Safety
//
// All Engine operations are thread-safe. A read-write mutex allows
// concurrent queries while serializing mutations together with their
// history records. Events go to the Publisher after the lock is released,
// so handlers may call back into the engine.
//
// # Basic Usage
//
//	e := engine.New(engine.WithMaxHistory(50))
//
//	e.Insert(50)
//	e.Insert(30)
//	e.Insert(70)
//	e.InOrder()    // [30 50 70]
//
//	e.Delete(50)
//	e.Undo()       // 50 is back at the root
//	e.Redo()
//
// # Limits
//
// Values outside the configured range fail with ErrValueOutOfRange and
// inserts into a full tree fail with ErrTreeFull. Duplicates and absent
// values are not errors: Insert and Delete report them by returning false.
package engine

// Package tree implements the binary search tree behind the visualizer.
//
// A Tree stores unique integer values. Every Node keeps a non-owning link
// to its parent so presentation code can walk upward from any node; the
// tree guarantees that parent and child links agree after every mutation.
//
// # Mutations
//
//	t := tree.New()
//	t.Insert(50)   // true
//	t.Insert(50)   // false, duplicates are rejected
//	t.Delete(30)   // false, value not present
//
// Deleting a node with two children copies the in-order successor's value
// into the node and removes the successor instead, so at most one child is
// ever re-linked.
//
// # Traversals
//
// InOrder, PreOrder, PostOrder and LevelOrder return value slices. Walk
// returns the same orders as an iter.Seq that can be ranged over repeatedly.
//
// # Snapshots
//
// A Snapshot is the preorder value sequence of a tree. Inserting a
// snapshot's values into an empty tree in order rebuilds the exact same
// shape, which is what the undo/redo history relies on:
//
//	snap := t.Snapshot()
//	t.Delete(50)
//	t.Restore(snap) // same shape as before the delete
package tree

package tree

import "slices"

// Snapshot is a preorder value sequence. Re-inserting it in order into an
// empty tree reproduces the tree it was taken from.
type Snapshot []int

// Snapshot captures the current shape of the tree.
func (t *Tree) Snapshot() Snapshot {
	return Snapshot(t.PreOrder())
}

// Restore replaces the tree's contents with the snapshot's shape.
func (t *Tree) Restore(s Snapshot) {
	t.Clear()
	for _, v := range s {
		t.Insert(v)
	}
}

// Len returns the number of values in the snapshot.
func (s Snapshot) Len() int {
	return len(s)
}

// Clone returns an independent copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	return slices.Clone(s)
}

// Equal reports whether both snapshots hold the same sequence.
func (s Snapshot) Equal(other Snapshot) bool {
	return slices.Equal(s, other)
}

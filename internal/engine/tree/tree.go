package tree

// Tree is a binary search tree of unique integers.
//
// Tree is not safe for concurrent use. The engine package serializes
// access for callers that need it.
type Tree struct {
	root *Node
	size int
}

// New creates an empty tree.
func New() *Tree {
	return &Tree{}
}

// FromValues creates a tree by inserting values in order.
// Duplicates are skipped.
func FromValues(values ...int) *Tree {
	t := New()
	for _, v := range values {
		t.Insert(v)
	}
	return t
}

// Root returns the root node, or nil for an empty tree.
func (t *Tree) Root() *Node {
	return t.root
}

// Size returns the number of nodes in the tree.
func (t *Tree) Size() int {
	return t.size
}

// IsEmpty returns true if the tree has no nodes.
func (t *Tree) IsEmpty() bool {
	return t.root == nil
}

// Insert adds value to the tree.
// Returns false without modifying the tree if the value is already present.
func (t *Tree) Insert(value int) bool {
	if t.root == nil {
		t.root = newNode(value, nil)
		t.size = 1
		return true
	}

	cur := t.root
	for {
		switch {
		case value < cur.value:
			if cur.left == nil {
				cur.left = newNode(value, cur)
				t.size++
				return true
			}
			cur = cur.left
		case value > cur.value:
			if cur.right == nil {
				cur.right = newNode(value, cur)
				t.size++
				return true
			}
			cur = cur.right
		default:
			return false
		}
	}
}

// Search returns the node holding value, or nil if it is absent.
func (t *Tree) Search(value int) *Node {
	cur := t.root
	for cur != nil {
		switch {
		case value < cur.value:
			cur = cur.left
		case value > cur.value:
			cur = cur.right
		default:
			return cur
		}
	}
	return nil
}

// Contains returns true if value is in the tree.
func (t *Tree) Contains(value int) bool {
	return t.Search(value) != nil
}

// Delete removes value from the tree.
// Returns false if the value is not present.
func (t *Tree) Delete(value int) bool {
	n := t.Search(value)
	if n == nil {
		return false
	}

	// Two children: take the in-order successor's value and remove the
	// successor, which has no left child.
	if n.left != nil && n.right != nil {
		succ := minNode(n.right)
		n.value = succ.value
		n = succ
	}

	t.unlink(n)
	t.size--
	return true
}

// unlink removes n, which must have at most one child, and promotes that
// child into n's position.
func (t *Tree) unlink(n *Node) {
	child := n.left
	if child == nil {
		child = n.right
	}

	if n.parent == nil {
		t.root = child
		if child != nil {
			child.parent = nil
		}
	} else {
		n.parent.replaceChild(n, child)
	}

	n.parent = nil
	n.left = nil
	n.right = nil
}

// Clear removes every node.
func (t *Tree) Clear() {
	t.root = nil
	t.size = 0
}

// Min returns the smallest value. The bool is false for an empty tree.
func (t *Tree) Min() (int, bool) {
	if t.root == nil {
		return 0, false
	}
	return minNode(t.root).value, true
}

// Max returns the largest value. The bool is false for an empty tree.
func (t *Tree) Max() (int, bool) {
	if t.root == nil {
		return 0, false
	}
	return maxNode(t.root).value, true
}

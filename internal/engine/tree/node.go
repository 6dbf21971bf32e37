package tree

import "fmt"

// Node is a vertex of a Tree.
//
// Nodes are owned by their tree. Callers may read them freely but only the
// tree mutates links and values.
type Node struct {
	value  int
	left   *Node
	right  *Node
	parent *Node
}

func newNode(value int, parent *Node) *Node {
	return &Node{value: value, parent: parent}
}

// Value returns the value stored in the node.
func (n *Node) Value() int {
	return n.value
}

// Left returns the left child, or nil.
func (n *Node) Left() *Node {
	return n.left
}

// Right returns the right child, or nil.
func (n *Node) Right() *Node {
	return n.right
}

// Parent returns the parent node, or nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// IsRoot returns true if the node has no parent.
func (n *Node) IsRoot() bool {
	return n.parent == nil
}

// IsLeaf returns true if the node has no children.
func (n *Node) IsLeaf() bool {
	return n.left == nil && n.right == nil
}

// HasOneChild returns true if the node has exactly one child.
func (n *Node) HasOneChild() bool {
	return (n.left == nil) != (n.right == nil)
}

// ChildCount returns the number of children (0, 1 or 2).
func (n *Node) ChildCount() int {
	count := 0
	if n.left != nil {
		count++
	}
	if n.right != nil {
		count++
	}
	return count
}

// Depth returns the number of edges between the node and the root.
func (n *Node) Depth() int {
	depth := 0
	for p := n.parent; p != nil; p = p.parent {
		depth++
	}
	return depth
}

// Equal reports whether both nodes hold the same value.
// Two nil nodes are equal; a nil and a non-nil node are not.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	return n.value == other.value
}

// String returns a short representation such as "Node(42)".
func (n *Node) String() string {
	if n == nil {
		return "Node(nil)"
	}
	return fmt.Sprintf("Node(%d)", n.value)
}

// replaceChild swaps old for repl in n's child slots and fixes repl's parent.
func (n *Node) replaceChild(old, repl *Node) {
	if n.left == old {
		n.left = repl
	} else {
		n.right = repl
	}
	if repl != nil {
		repl.parent = n
	}
}

// minNode returns the leftmost node of the subtree rooted at n.
func minNode(n *Node) *Node {
	for n != nil && n.left != nil {
		n = n.left
	}
	return n
}

// maxNode returns the rightmost node of the subtree rooted at n.
func maxNode(n *Node) *Node {
	for n != nil && n.right != nil {
		n = n.right
	}
	return n
}

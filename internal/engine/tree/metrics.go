package tree

// Height returns the number of edges on the longest root-to-leaf path.
// An empty tree has height -1 and a single node has height 0.
//
// Height is computed level by level so degenerate trees (sorted inserts)
// do not recurse once per node.
func (t *Tree) Height() int {
	height := -1
	level := make([]*Node, 0, 1)
	if t.root != nil {
		level = append(level, t.root)
	}
	for len(level) > 0 {
		height++
		next := make([]*Node, 0, 2*len(level))
		for _, n := range level {
			if n.left != nil {
				next = append(next, n.left)
			}
			if n.right != nil {
				next = append(next, n.right)
			}
		}
		level = next
	}
	return height
}

// IsBalanced returns true if, for every node, the heights of its left and
// right subtrees differ by at most one.
func (t *Tree) IsBalanced() bool {
	_, ok := balancedHeight(t.root)
	return ok
}

// balancedHeight returns the subtree height and whether it is balanced.
// Once a subtree fails the check the height is no longer meaningful and
// the failure propagates without visiting the remaining siblings.
func balancedHeight(n *Node) (int, bool) {
	if n == nil {
		return -1, true
	}
	lh, ok := balancedHeight(n.left)
	if !ok {
		return 0, false
	}
	rh, ok := balancedHeight(n.right)
	if !ok {
		return 0, false
	}
	diff := lh - rh
	if diff < -1 || diff > 1 {
		return 0, false
	}
	return 1 + max(lh, rh), true
}

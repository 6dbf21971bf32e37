package tree

import (
	"fmt"
	"iter"
	"strings"
)

// Order selects a traversal order.
type Order int

const (
	// OrderIn visits left, node, right. Values come out sorted.
	OrderIn Order = iota
	// OrderPre visits node, left, right.
	OrderPre
	// OrderPost visits left, right, node.
	OrderPost
	// OrderLevel visits nodes breadth first, left before right.
	OrderLevel
)

// Orders lists every traversal order.
var Orders = []Order{OrderIn, OrderPre, OrderPost, OrderLevel}

// String returns the order name.
func (o Order) String() string {
	switch o {
	case OrderIn:
		return "inorder"
	case OrderPre:
		return "preorder"
	case OrderPost:
		return "postorder"
	case OrderLevel:
		return "levelorder"
	default:
		return "unknown"
	}
}

// ParseOrder parses an order name such as "inorder" or "level".
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "inorder", "in":
		return OrderIn, nil
	case "preorder", "pre":
		return OrderPre, nil
	case "postorder", "post":
		return OrderPost, nil
	case "levelorder", "level", "bfs":
		return OrderLevel, nil
	default:
		return 0, fmt.Errorf("unknown traversal order %q", s)
	}
}

// InOrder returns the values in ascending order.
func (t *Tree) InOrder() []int {
	return t.collect(OrderIn)
}

// PreOrder returns the values in preorder. This is the snapshot order.
func (t *Tree) PreOrder() []int {
	return t.collect(OrderPre)
}

// PostOrder returns the values in postorder.
func (t *Tree) PostOrder() []int {
	return t.collect(OrderPost)
}

// LevelOrder returns the values breadth first.
func (t *Tree) LevelOrder() []int {
	return t.collect(OrderLevel)
}

// Traverse returns the values in the given order.
func (t *Tree) Traverse(order Order) []int {
	return t.collect(order)
}

func (t *Tree) collect(order Order) []int {
	result := make([]int, 0, t.size)
	for v := range t.Walk(order) {
		result = append(result, v)
	}
	return result
}

// Walk returns the values in the given order as a sequence.
// The sequence reads the tree lazily and may be ranged over many times;
// the tree must not be modified while a range over it is in progress.
func (t *Tree) Walk(order Order) iter.Seq[int] {
	return func(yield func(int) bool) {
		switch order {
		case OrderIn:
			inorder(t.root, yield)
		case OrderPre:
			preorder(t.root, yield)
		case OrderPost:
			postorder(t.root, yield)
		case OrderLevel:
			for n := range t.levelNodes() {
				if !yield(n.value) {
					return
				}
			}
		}
	}
}

// Nodes returns every node in level order.
func (t *Tree) Nodes() []*Node {
	nodes := make([]*Node, 0, t.size)
	for n := range t.levelNodes() {
		nodes = append(nodes, n)
	}
	return nodes
}

// The recursive visitors return false once yield asks to stop.

func inorder(n *Node, yield func(int) bool) bool {
	if n == nil {
		return true
	}
	return inorder(n.left, yield) && yield(n.value) && inorder(n.right, yield)
}

func preorder(n *Node, yield func(int) bool) bool {
	if n == nil {
		return true
	}
	return yield(n.value) && preorder(n.left, yield) && preorder(n.right, yield)
}

func postorder(n *Node, yield func(int) bool) bool {
	if n == nil {
		return true
	}
	return postorder(n.left, yield) && postorder(n.right, yield) && yield(n.value)
}

// levelNodes yields nodes breadth first using a FIFO queue seeded with
// the root.
func (t *Tree) levelNodes() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		if t.root == nil {
			return
		}
		queue := []*Node{t.root}
		for len(queue) > 0 {
			n := queue[0]
			queue = queue[1:]
			if !yield(n) {
				return
			}
			if n.left != nil {
				queue = append(queue, n.left)
			}
			if n.right != nil {
				queue = append(queue, n.right)
			}
		}
	}
}

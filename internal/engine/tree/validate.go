package tree

import (
	"errors"
	"fmt"
)

// ErrInvariant is matched by every InvariantError.
var ErrInvariant = errors.New("tree invariant violated")

// InvariantError describes a structural problem found by Validate.
type InvariantError struct {
	Value  int    // Value of the offending node
	Reason string // What is wrong
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("node %d: %s", e.Value, e.Reason)
}

// Is reports whether target is ErrInvariant.
func (e *InvariantError) Is(target error) bool {
	return target == ErrInvariant
}

// Validate checks the ordering invariant, parent/child link agreement and
// the cached size. It returns nil for a well-formed tree.
func (t *Tree) Validate() error {
	if t.root == nil {
		if t.size != 0 {
			return fmt.Errorf("%w: empty tree reports size %d", ErrInvariant, t.size)
		}
		return nil
	}
	if t.root.parent != nil {
		return &InvariantError{Value: t.root.value, Reason: "root has a parent"}
	}

	type frame struct {
		n      *Node
		lo, hi *int // exclusive bounds, nil when unbounded
	}

	count := 0
	stack := []frame{{n: t.root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := f.n
		count++

		if f.lo != nil && n.value <= *f.lo {
			return &InvariantError{Value: n.value, Reason: fmt.Sprintf("not greater than ancestor %d", *f.lo)}
		}
		if f.hi != nil && n.value >= *f.hi {
			return &InvariantError{Value: n.value, Reason: fmt.Sprintf("not less than ancestor %d", *f.hi)}
		}

		v := n.value
		if n.left != nil {
			if n.left.parent != n {
				return &InvariantError{Value: n.left.value, Reason: "left child parent link does not point at its parent"}
			}
			stack = append(stack, frame{n: n.left, lo: f.lo, hi: &v})
		}
		if n.right != nil {
			if n.right.parent != n {
				return &InvariantError{Value: n.right.value, Reason: "right child parent link does not point at its parent"}
			}
			stack = append(stack, frame{n: n.right, lo: &v, hi: f.hi})
		}
	}

	if count != t.size {
		return fmt.Errorf("%w: size is %d but %d nodes are reachable", ErrInvariant, t.size, count)
	}
	return nil
}

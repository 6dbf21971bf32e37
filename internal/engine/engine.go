package engine

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/dshills/bstviz/internal/engine/history"
	"github.com/dshills/bstviz/internal/engine/tree"
	"github.com/dshills/bstviz/internal/event"
	"github.com/dshills/bstviz/internal/event/events"
	"github.com/dshills/bstviz/internal/event/topic"
)

// Re-export commonly used types for convenience.
type (
	// Node is a tree node.
	Node = tree.Node

	// Snapshot is a serialized tree state.
	Snapshot = tree.Snapshot

	// Order selects a traversal order.
	Order = tree.Order

	// OperationInfo describes a recorded operation.
	OperationInfo = history.OperationInfo
)

// Re-export constants.
const (
	OrderIn    = tree.OrderIn
	OrderPre   = tree.OrderPre
	OrderPost  = tree.OrderPost
	OrderLevel = tree.OrderLevel
)

// ParseOrder parses a traversal order name such as "inorder" or "level".
func ParseOrder(s string) (Order, error) {
	return tree.ParseOrder(s)
}

// Stats summarizes the current tree.
type Stats struct {
	Size     int
	Height   int
	Balanced bool
	Min      int
	Max      int
	// HasRange is false for an empty tree, in which case Min and Max are zero.
	HasRange bool
}

// Engine is the main facade for the tree engine.
// It combines the tree and its undo/redo history into a unified,
// thread-safe API. Every mutation and its history record happen under one
// write lock; events are published after the lock is released.
type Engine struct {
	mu sync.RWMutex

	// Core components
	tree    *tree.Tree
	history *history.History[tree.Snapshot]

	// Configuration
	maxHistory int
	minValue   int
	maxValue   int
	maxSize    int
	validate   bool

	publisher Publisher
	source    string
}

// New creates a new Engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{
		tree:       tree.New(),
		maxHistory: DefaultMaxHistory,
		minValue:   DefaultMinValue,
		maxValue:   DefaultMaxValue,
		maxSize:    DefaultMaxSize,
		source:     DefaultSource,
	}

	// Apply options to get configuration
	for _, opt := range opts {
		opt(e)
	}

	// Undo and redo run while the caller holds e.mu.
	e.history = history.NewHistory[tree.Snapshot](e.maxHistory, history.ExecutorFunc[tree.Snapshot](e.restore))

	return e
}

// restore replaces the tree contents. Caller must hold the write lock.
func (e *Engine) restore(s tree.Snapshot) error {
	e.tree.Restore(s)
	e.check()
	return nil
}

// check validates the tree when validation is enabled.
func (e *Engine) check() {
	if !e.validate {
		return
	}
	if err := e.tree.Validate(); err != nil {
		panic(fmt.Sprintf("engine: %v", err))
	}
}

// publish sends events to the publisher, if any. Must not hold the lock.
func (e *Engine) publish(evts ...any) {
	if e.publisher == nil {
		return
	}
	for _, ev := range evts {
		_ = e.publisher.Publish(context.Background(), ev)
	}
}

// ============================================================================
// Mutations
// ============================================================================

// withLock runs fn under the write lock. The lock is released even if fn
// panics, e.g. on a failed validation check.
func (e *Engine) withLock(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn()
}

// Insert adds a value and records it for undo.
// A duplicate returns false with a nil error. Values outside the configured
// range return ErrValueOutOfRange; a full tree returns ErrTreeFull.
func (e *Engine) Insert(value int) (bool, error) {
	var (
		ok   bool
		err  error
		size int
	)
	e.withLock(func() {
		ok, err = e.insertLocked(value)
		size = e.tree.Size()
	})

	if !ok {
		return false, err
	}

	name := fmt.Sprintf("Insert %d", value)
	e.publish(event.NewEvent(events.TopicTreeNodeInserted,
		events.NodeInserted{Value: value, Operation: name, Size: size}, e.source))
	return true, nil
}

// insertLocked inserts and records one value. Caller must hold the write lock.
func (e *Engine) insertLocked(value int) (bool, error) {
	if value < e.minValue || value > e.maxValue {
		return false, fmt.Errorf("%w: %d not in [%d, %d]", ErrValueOutOfRange, value, e.minValue, e.maxValue)
	}
	if e.tree.Contains(value) {
		return false, nil
	}
	if e.tree.Size() >= e.maxSize {
		return false, fmt.Errorf("%w: %d nodes", ErrTreeFull, e.maxSize)
	}

	before := e.tree.Snapshot()
	e.tree.Insert(value)
	e.check()
	e.history.RecordOperation(fmt.Sprintf("Insert %d", value), before, e.tree.Snapshot())
	return true, nil
}

// Delete removes a value and records it for undo.
// An absent value returns false with a nil error.
func (e *Engine) Delete(value int) (bool, error) {
	name := fmt.Sprintf("Delete %d", value)
	var (
		ok   bool
		size int
	)
	e.withLock(func() {
		if !e.tree.Contains(value) {
			return
		}
		before := e.tree.Snapshot()
		e.tree.Delete(value)
		e.check()
		e.history.RecordOperation(name, before, e.tree.Snapshot())
		ok, size = true, e.tree.Size()
	})

	if !ok {
		return false, nil
	}
	e.publish(event.NewEvent(events.TopicTreeNodeDeleted,
		events.NodeDeleted{Value: value, Operation: name, Size: size}, e.source))
	return true, nil
}

// InsertAll inserts values in order as a single undo unit named
// "Insert N values", where N counts the values actually added. Duplicates
// are skipped. If any value fails, the whole batch is rolled back and the
// error returned. Inside Group, values join the caller's group instead.
func (e *Engine) InsertAll(values []int) (int, error) {
	var (
		added []int
		err   error
		size  int
	)
	insertEach := func() error {
		for _, v := range values {
			ok, err := e.insertLocked(v)
			if err != nil {
				return err
			}
			if ok {
				added = append(added, v)
			}
		}
		return nil
	}

	e.withLock(func() {
		defer func() { size = e.tree.Size() }()
		if e.history.IsGrouping() {
			err = insertEach()
			return
		}

		e.history.BeginGroup("")
		defer func() {
			if r := recover(); r != nil {
				_ = e.history.RollbackGroup()
				panic(r)
			}
		}()
		if err = insertEach(); err != nil {
			if rbErr := e.history.RollbackGroup(); rbErr != nil {
				err = fmt.Errorf("%w (%v)", err, rbErr)
			}
			added = nil
			return
		}
		// Named last since it counts what was actually added
		e.history.SetGroupName(fmt.Sprintf("Insert %d values", len(added)))
		e.history.EndGroup()
	})

	if err != nil {
		return 0, err
	}
	if len(added) > 0 {
		e.publish(event.NewEvent(events.TopicTreeBatchInserted,
			events.BatchInserted{Values: added, Operation: fmt.Sprintf("Insert %d values", len(added)), Size: size}, e.source))
	}
	return len(added), nil
}

// Clear empties the tree and the history, then records the clear itself
// so it can be undone. Returns false if the tree was already empty.
// Inside Group the history is kept and the clear joins the group, so a
// failed group still restores the tree it started from.
func (e *Engine) Clear() bool {
	const name = "Clear tree"
	var prev int
	e.withLock(func() {
		if e.tree.IsEmpty() {
			return
		}
		prev = e.tree.Size()
		before := e.tree.Snapshot()
		e.tree.Clear()
		if !e.history.IsGrouping() {
			e.history.Clear()
		}
		e.history.RecordOperation(name, before, e.tree.Snapshot())
	})

	if prev == 0 {
		return false
	}
	e.publish(event.NewEvent(events.TopicTreeCleared,
		events.TreeCleared{PreviousSize: prev, Operation: name}, e.source))
	return true
}

// GenerateRandom replaces the tree with count unique random values drawn
// from the configured range and records it as one operation. A nil rng
// uses the global source.
func (e *Engine) GenerateRandom(count int, rng *rand.Rand) error {
	name := fmt.Sprintf("Generate random tree (%d nodes)", count)
	var (
		values []int
		err    error
	)
	e.withLock(func() {
		values, err = e.generateLocked(count, rng)
		if err != nil {
			return
		}
		before := e.tree.Snapshot()
		e.tree = tree.FromValues(values...)
		e.check()
		e.history.RecordOperation(name, before, e.tree.Snapshot())
	})
	if err != nil {
		return err
	}

	e.publish(event.NewEvent(events.TopicTreeGenerated,
		events.TreeGenerated{Values: values, Operation: name, Size: count}, e.source))
	return nil
}

// generateLocked draws count unique values from the configured range.
// Caller must hold the lock.
func (e *Engine) generateLocked(count int, rng *rand.Rand) ([]int, error) {
	if count < 0 || count > e.maxSize {
		return nil, fmt.Errorf("%w: %d (capacity %d)", ErrInvalidCount, count, e.maxSize)
	}
	if span := e.maxValue - e.minValue + 1; count > span {
		return nil, fmt.Errorf("%w: %d exceeds %d available values", ErrInvalidCount, count, span)
	}

	intN := rand.IntN
	if rng != nil {
		intN = rng.IntN
	}

	values := make([]int, 0, count)
	seen := make(map[int]struct{}, count)
	for len(values) < count {
		v := e.minValue + intN(e.maxValue-e.minValue+1)
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	return values, nil
}

// Group runs fn and records every mutation it makes as one undo unit.
// If fn returns an error or panics, the tree is rolled back to its state
// before fn and nothing is recorded; a panic is then re-raised. Groups do
// not nest: inside another group, fn runs directly and its mutations join
// the outer group.
//
// The open group belongs to the engine, not to the calling goroutine:
// mutations made from other goroutines while fn runs join it too. Callers
// that share an engine should not overlap a Group with other writes.
func (e *Engine) Group(name string, fn func() error) error {
	var nested bool
	e.withLock(func() {
		nested = e.history.IsGrouping()
		if !nested {
			e.history.BeginGroup(name)
		}
	})
	if nested {
		return fn()
	}

	settled := false
	defer func() {
		if settled {
			return
		}
		if r := recover(); r != nil {
			_ = e.rollbackGroup()
			panic(r)
		}
	}()

	if err := fn(); err != nil {
		settled = true
		if rbErr := e.rollbackGroup(); rbErr != nil {
			return fmt.Errorf("%w (%v)", err, rbErr)
		}
		return err
	}

	settled = true
	e.withLock(e.history.EndGroup)
	return nil
}

// rollbackGroup abandons the open group and restores the tree it began with.
func (e *Engine) rollbackGroup() (err error) {
	e.withLock(func() {
		err = e.history.RollbackGroup()
	})
	return err
}

// ============================================================================
// Undo/Redo Operations
// ============================================================================

// Undo undoes the last operation. Returns false if there was nothing to undo.
func (e *Engine) Undo() bool {
	return e.move(e.history.Undo, e.history.PeekUndo, events.TopicHistoryUndone)
}

// Redo redoes the last undone operation. Returns false if there was
// nothing to redo.
func (e *Engine) Redo() bool {
	return e.move(e.history.Redo, e.history.PeekRedo, events.TopicHistoryRedone)
}

func (e *Engine) move(step func() error, peek func() (history.OperationInfo, bool), tp topic.Topic) bool {
	var (
		payload events.HistoryMoved
		moved   bool
	)
	e.withLock(func() {
		info, ok := peek()
		if !ok || step() != nil {
			return
		}
		undo, redo := e.history.Sizes()
		payload = events.HistoryMoved{
			Operation: info.Description,
			Size:      e.tree.Size(),
			UndoDepth: undo,
			RedoDepth: redo,
		}
		moved = true
	})
	if !moved {
		return false
	}

	e.publish(event.NewEvent(tp, payload, e.source))
	return true
}

// CanUndo returns true if undo is available.
func (e *Engine) CanUndo() bool {
	return e.history.CanUndo()
}

// CanRedo returns true if redo is available.
func (e *Engine) CanRedo() bool {
	return e.history.CanRedo()
}

// UndoDescription describes the next undo, e.g. "Undo Insert 42".
func (e *Engine) UndoDescription() string {
	return e.history.UndoDescription()
}

// RedoDescription describes the next redo, e.g. "Redo Insert 42".
func (e *Engine) RedoDescription() string {
	return e.history.RedoDescription()
}

// HistorySizes returns the undo and redo stack depths.
func (e *Engine) HistorySizes() (undo, redo int) {
	return e.history.Sizes()
}

// UndoHistory returns info about available undo operations, oldest first.
func (e *Engine) UndoHistory() []OperationInfo {
	return e.history.UndoInfo()
}

// RedoHistory returns info about available redo operations; the last
// entry is the next redo.
func (e *Engine) RedoHistory() []OperationInfo {
	return e.history.RedoInfo()
}

// ClearHistory discards all undo/redo history without touching the tree.
// An open Group is unaffected.
func (e *Engine) ClearHistory() {
	e.withLock(e.history.Clear)
}

// ============================================================================
// Queries
// ============================================================================

// Search returns the node holding value, or nil.
// The node must not be used after the next mutation.
func (e *Engine) Search(value int) *Node {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tree.Search(value)
}

// Contains reports whether value is in the tree.
func (e *Engine) Contains(value int) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tree.Contains(value)
}

// Traverse returns the values in the given order.
func (e *Engine) Traverse(order Order) []int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tree.Traverse(order)
}

// InOrder returns the values in ascending order.
func (e *Engine) InOrder() []int { return e.Traverse(OrderIn) }

// PreOrder returns the values in preorder.
func (e *Engine) PreOrder() []int { return e.Traverse(OrderPre) }

// PostOrder returns the values in postorder.
func (e *Engine) PostOrder() []int { return e.Traverse(OrderPost) }

// LevelOrder returns the values breadth first.
func (e *Engine) LevelOrder() []int { return e.Traverse(OrderLevel) }

// Height returns the tree height; -1 when empty.
func (e *Engine) Height() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tree.Height()
}

// Size returns the number of nodes.
func (e *Engine) Size() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tree.Size()
}

// IsEmpty returns true if the tree has no nodes.
func (e *Engine) IsEmpty() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tree.IsEmpty()
}

// IsBalanced reports whether every node's subtree heights differ by at most one.
func (e *Engine) IsBalanced() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tree.IsBalanced()
}

// Nodes returns every node in level order.
func (e *Engine) Nodes() []*Node {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tree.Nodes()
}

// Snapshot returns the current tree state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tree.Snapshot()
}

// Validate checks every tree invariant.
func (e *Engine) Validate() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tree.Validate()
}

// Stats returns a summary of the current tree.
func (e *Engine) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()

	s := Stats{
		Size:     e.tree.Size(),
		Height:   e.tree.Height(),
		Balanced: e.tree.IsBalanced(),
	}
	if lo, ok := e.tree.Min(); ok {
		hi, _ := e.tree.Max()
		s.Min, s.Max, s.HasRange = lo, hi, true
	}
	return s
}

// ============================================================================
// Configuration
// ============================================================================

// SetMaxHistory changes the undo limit, evicting the oldest entries if needed.
func (e *Engine) SetMaxHistory(max int) {
	e.history.SetMaxEntries(max)
}

// MaxHistory returns the undo limit.
func (e *Engine) MaxHistory() int {
	return e.history.MaxEntries()
}

// SetValueRange changes the accepted value range. Existing nodes are kept.
func (e *Engine) SetValueRange(min, max int) error {
	if min > max {
		return fmt.Errorf("%w: [%d, %d]", ErrInvalidRange, min, max)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.minValue, e.maxValue = min, max
	return nil
}

// ValueRange returns the accepted value range.
func (e *Engine) ValueRange() (min, max int) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.minValue, e.maxValue
}

// SetMaxSize changes the node capacity. Existing nodes are kept even if
// they exceed it; further inserts fail until the tree shrinks.
func (e *Engine) SetMaxSize(max int) {
	if max <= 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.maxSize = max
}

// MaxSize returns the node capacity.
func (e *Engine) MaxSize() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.maxSize
}

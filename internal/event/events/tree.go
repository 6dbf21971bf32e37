package events

import "github.com/dshills/bstviz/internal/event/topic"

// Tree event topics.
const (
	// TopicTreeNodeInserted is published when a value is inserted.
	TopicTreeNodeInserted topic.Topic = "tree.node.inserted"

	// TopicTreeNodeDeleted is published when a value is deleted.
	TopicTreeNodeDeleted topic.Topic = "tree.node.deleted"

	// TopicTreeCleared is published when the tree is reset.
	TopicTreeCleared topic.Topic = "tree.cleared"

	// TopicTreeGenerated is published when a random tree replaces the current one.
	TopicTreeGenerated topic.Topic = "tree.generated"

	// TopicTreeBatchInserted is published after a multi-value insert.
	TopicTreeBatchInserted topic.Topic = "tree.batch.inserted"
)

// History event topics.
const (
	// TopicHistoryUndone is published after a successful undo.
	TopicHistoryUndone topic.Topic = "history.undone"

	// TopicHistoryRedone is published after a successful redo.
	TopicHistoryRedone topic.Topic = "history.redone"
)

// NodeInserted is published when a value is inserted.
type NodeInserted struct {
	Value     int
	Operation string
	Size      int
}

// NodeDeleted is published when a value is deleted.
type NodeDeleted struct {
	Value     int
	Operation string
	Size      int
}

// TreeCleared is published when the tree is reset.
type TreeCleared struct {
	// PreviousSize is the node count before the reset.
	PreviousSize int
	Operation    string
}

// TreeGenerated is published when a random tree is generated.
type TreeGenerated struct {
	Values    []int
	Operation string
	Size      int
}

// BatchInserted is published after a multi-value insert.
type BatchInserted struct {
	// Values holds only the values that were actually added.
	Values    []int
	Operation string
	Size      int
}

// HistoryMoved is the payload of undo and redo events.
type HistoryMoved struct {
	// Operation is the name of the operation that was undone or redone.
	Operation string
	Size      int
	UndoDepth int
	RedoDepth int
}

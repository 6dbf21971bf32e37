// Package events defines strongly-typed event payloads for the bstviz
// event bus.
//
// Each event type has a corresponding topic constant and payload struct.
// Tree events describe structural changes; history events describe undo
// and redo steps.
//
//	evt := event.NewEvent(events.TopicTreeNodeInserted,
//	    events.NodeInserted{Value: 42, Operation: "Insert 42", Size: 7},
//	    "engine",
//	)
//	bus.Publish(ctx, evt)
//
// Topics follow <module>.<entity>.<action>; subscribe to "tree.**" for
// every tree change or "**" for everything.
package events

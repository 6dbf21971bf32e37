package topic

import "testing"

func TestTopicMatches(t *testing.T) {
	tests := []struct {
		topic   Topic
		pattern Topic
		want    bool
	}{
		{"tree.node.inserted", "tree.node.inserted", true},
		{"tree.node.inserted", "tree.node.deleted", false},
		{"tree.node.inserted", "tree.*.inserted", true},
		{"tree.node.inserted", "tree.*", false},
		{"tree.node.inserted", "tree.**", true},
		{"tree.cleared", "tree.**", true},
		{"history.undone", "tree.**", false},
		{"history.undone", "**", true},
		{"tree", "tree.**", true},
		{"tree.node.inserted", "**.inserted", true},
		{"tree.node.inserted", "*.inserted", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.topic)+"~"+string(tt.pattern), func(t *testing.T) {
			if got := tt.topic.Matches(tt.pattern); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTopicParts(t *testing.T) {
	tp := Topic("tree.node.inserted")

	if tp.Parent() != "tree.node" {
		t.Errorf("Parent() = %q", tp.Parent())
	}
	if tp.Base() != "inserted" {
		t.Errorf("Base() = %q", tp.Base())
	}
	if Topic("tree").Parent() != "" {
		t.Error("single segment should have no parent")
	}
	if Topic("tree").Base() != "tree" {
		t.Error("single segment base should be itself")
	}
	if Join("tree", "cleared") != "tree.cleared" {
		t.Error("Join mismatch")
	}
	if len(tp.Segments()) != 3 {
		t.Errorf("Segments() = %v", tp.Segments())
	}
}

func TestTopicIsValid(t *testing.T) {
	tests := []struct {
		topic Topic
		want  bool
	}{
		{"tree", true},
		{"tree.node", true},
		{"tree.**", true},
		{"", false},
		{".tree", false},
		{"tree.", false},
		{"tree..node", false},
	}
	for _, tt := range tests {
		if got := tt.topic.IsValid(); got != tt.want {
			t.Errorf("IsValid(%q) = %v, want %v", tt.topic, got, tt.want)
		}
	}
	if !Topic("tree.*").IsWildcard() || Topic("tree.node").IsWildcard() {
		t.Error("IsWildcard mismatch")
	}
}

package script

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/bstviz/internal/engine"
)

func newBoundState(t *testing.T, opts ...StateOption) (*State, *engine.Engine, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	s := NewState(append([]StateOption{WithOutput(&out)}, opts...)...)
	t.Cleanup(func() { _ = s.Close() })

	e := engine.New(engine.WithValidation())
	Bind(s, e)
	return s, e, &out
}

func TestNewState(t *testing.T) {
	s := NewState()
	defer s.Close()

	if s.L == nil {
		t.Fatal("L is nil")
	}
	if s.IsClosed() {
		t.Error("new state should not be closed")
	}
}

func TestSandboxRemovesUnsafeGlobals(t *testing.T) {
	s := NewState()
	defer s.Close()

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "os", "io", "debug"} {
		if v := s.GetGlobal(name); v != lua.LNil {
			t.Errorf("%s should be nil, got %s", name, v.Type())
		}
	}
	for _, name := range []string{"print", "pairs", "string", "table", "math"} {
		if v := s.GetGlobal(name); v == lua.LNil {
			t.Errorf("%s should be available", name)
		}
	}
}

func TestPrintRedirect(t *testing.T) {
	var out bytes.Buffer
	s := NewState(WithOutput(&out))
	defer s.Close()

	if err := s.DoString(context.Background(), `print("a", 1, true)`); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "a\t1\ttrue\n" {
		t.Errorf("output = %q", got)
	}
}

func TestTimeout(t *testing.T) {
	s := NewState(WithTimeout(50 * time.Millisecond))
	defer s.Close()

	err := s.DoString(context.Background(), `while true do end`)
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Fatalf("DoString() = %v, want ErrExecutionTimeout", err)
	}
}

func TestCancelledContext(t *testing.T) {
	s := NewState(WithTimeout(0))
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.DoString(ctx, `while true do end`)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("DoString() = %v, want context.Canceled", err)
	}
}

func TestClosedState(t *testing.T) {
	s := NewState()
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.DoString(context.Background(), `x = 1`); !errors.Is(err, ErrStateClosed) {
		t.Errorf("DoString() = %v, want ErrStateClosed", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
}

func TestSyntaxError(t *testing.T) {
	s := NewState()
	defer s.Close()

	var apiErr *lua.ApiError
	err := s.DoString(context.Background(), `this is not lua`)
	if !errors.As(err, &apiErr) {
		t.Errorf("DoString() = %v (%T), want *lua.ApiError", err, err)
	}
}

func TestBindInsertAndTraverse(t *testing.T) {
	s, e, out := newBoundState(t)

	script := `
for _, v in ipairs({50, 30, 70, 20, 40, 60, 80}) do
    assert(tree.insert(v))
end
assert(tree.insert(50) == false)
print(table.concat(tree.inorder(), " "))
print(table.concat(tree.preorder(), " "))
print(table.concat(tree.postorder(), " "))
print(table.concat(tree.levelorder(), " "))
print(tree.size(), tree.height(), tree.balanced(), tree.empty())
`
	if err := s.DoString(context.Background(), script); err != nil {
		t.Fatal(err)
	}

	want := strings.Join([]string{
		"20 30 40 50 60 70 80",
		"50 30 20 40 70 60 80",
		"20 40 30 60 80 70 50",
		"50 30 70 20 40 60 80",
		"7\t2\ttrue\tfalse",
	}, "\n") + "\n"
	if out.String() != want {
		t.Errorf("output =\n%s\nwant\n%s", out.String(), want)
	}
	if e.Size() != 7 {
		t.Errorf("engine size = %d", e.Size())
	}
}

func TestBindSearch(t *testing.T) {
	s, _, out := newBoundState(t)

	script := `
tree.insert_all({50, 30, 70, 40})
local n = tree.search(30)
print(n.value, n.parent, n.left, n.right, n.depth)
print(tree.search(99))
print(tree.contains(70), tree.contains(71))
`
	if err := s.DoString(context.Background(), script); err != nil {
		t.Fatal(err)
	}
	want := "30\t50\tnil\t40\t1\nnil\ntrue\tfalse\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestBindUndoRedo(t *testing.T) {
	s, e, _ := newBoundState(t)

	script := `
tree.insert(1)
tree.insert(2)
tree.delete(1)
assert(tree.undo_description() == "Undo Delete 1")
assert(tree.undo())
assert(tree.can_redo())
assert(tree.redo_description() == "Redo Delete 1")
assert(tree.undo())
`
	if err := s.DoString(context.Background(), script); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(e.InOrder(), []int{1}) {
		t.Errorf("InOrder = %v, want [1]", e.InOrder())
	}
}

func TestBindErrorsAreCatchable(t *testing.T) {
	s, _, out := newBoundState(t)

	script := `
local ok, err = pcall(tree.insert, 100000)
print(ok, string.find(err, "value out of range") ~= nil)
`
	if err := s.DoString(context.Background(), script); err != nil {
		t.Fatal(err)
	}
	if out.String() != "false\ttrue\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestBindGroup(t *testing.T) {
	s, e, _ := newBoundState(t)

	script := `
tree.insert(10)
tree.group("rebuild", function()
    tree.delete(10)
    tree.insert(20)
    tree.insert(5)
end)
assert(tree.undo_description() == "Undo rebuild")
`
	if err := s.DoString(context.Background(), script); err != nil {
		t.Fatal(err)
	}

	e.Undo()
	if !slices.Equal(e.InOrder(), []int{10}) {
		t.Errorf("InOrder after undo = %v, want [10]", e.InOrder())
	}
}

func TestBindGroupRollback(t *testing.T) {
	s, e, _ := newBoundState(t)

	script := `
tree.insert(10)
local ok = pcall(tree.group, "broken", function()
    tree.insert(20)
    error("stop")
end)
assert(not ok)
`
	if err := s.DoString(context.Background(), script); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(e.InOrder(), []int{10}) {
		t.Errorf("InOrder = %v, want [10]", e.InOrder())
	}
	if undo, _ := e.HistorySizes(); undo != 1 {
		t.Errorf("undo depth = %d, want 1", undo)
	}
}

func TestBindGroupClearRollback(t *testing.T) {
	s, e, _ := newBoundState(t)

	script := `
for _, v in ipairs({50, 30, 70}) do tree.insert(v) end
local ok = pcall(tree.group, "lesson", function()
    tree.insert(10)
    tree.clear()
    tree.insert(99)
    error("boom")
end)
assert(not ok)
`
	if err := s.DoString(context.Background(), script); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(e.InOrder(), []int{30, 50, 70}) {
		t.Errorf("InOrder = %v, want [30 50 70]", e.InOrder())
	}
	if undo, _ := e.HistorySizes(); undo != 3 {
		t.Errorf("undo depth = %d, want 3", undo)
	}
}

func TestBindRejectsFractions(t *testing.T) {
	s, e, out := newBoundState(t)

	script := `
print(pcall(tree.insert, 2.5))
print(pcall(tree.insert_all, {1, 1.5}))
print(pcall(tree.delete, 0.1))
print(tree.insert(3.0))
`
	if err := s.DoString(context.Background(), script); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("output = %q", out.String())
	}
	for _, line := range lines[:3] {
		if !strings.HasPrefix(line, "false") || !strings.Contains(line, "integer expected") {
			t.Errorf("line = %q, want an integer argument error", line)
		}
	}
	if lines[3] != "true" {
		t.Errorf("insert(3.0) = %q, want true", lines[3])
	}
	if !slices.Equal(e.InOrder(), []int{3}) {
		t.Errorf("InOrder = %v, want [3]", e.InOrder())
	}
}

func TestBindRandomAndStats(t *testing.T) {
	s, e, out := newBoundState(t)

	script := `
tree.random(10, 42)
local st = tree.stats()
print(st.size, st.min <= st.max)
tree.clear()
print(tree.stats().min)
`
	if err := s.DoString(context.Background(), script); err != nil {
		t.Fatal(err)
	}
	if out.String() != "10\ttrue\nnil\n" {
		t.Errorf("output = %q", out.String())
	}
	if !e.IsEmpty() {
		t.Error("tree should be empty after clear")
	}
}

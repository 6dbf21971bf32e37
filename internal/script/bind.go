package script

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/bstviz/internal/engine"
)

// ModuleName is the global table scripts use to reach the engine.
const ModuleName = "tree"

// Bind exposes e to scripts run in s as the global "tree" module.
func Bind(s *State, e *engine.Engine) {
	s.RegisterModule(ModuleName, treeFuncs(e))
}

func treeFuncs(e *engine.Engine) map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		"insert": func(L *lua.LState) int {
			ok, err := e.Insert(checkInt(L, 1))
			raiseIf(L, err)
			L.Push(lua.LBool(ok))
			return 1
		},
		"insert_all": func(L *lua.LState) int {
			values := intSlice(L, L.CheckTable(1))
			n, err := e.InsertAll(values)
			raiseIf(L, err)
			L.Push(lua.LNumber(n))
			return 1
		},
		"delete": func(L *lua.LState) int {
			ok, err := e.Delete(checkInt(L, 1))
			raiseIf(L, err)
			L.Push(lua.LBool(ok))
			return 1
		},
		"search": func(L *lua.LState) int {
			n := e.Search(checkInt(L, 1))
			if n == nil {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(nodeTable(L, n))
			return 1
		},
		"clear": func(L *lua.LState) int {
			L.Push(lua.LBool(e.Clear()))
			return 1
		},
		"random": func(L *lua.LState) int {
			count := checkInt(L, 1)
			var rng *rand.Rand
			if L.GetTop() >= 2 {
				seed := uint64(checkInt(L, 2))
				rng = rand.New(rand.NewPCG(seed, 0))
			}
			raiseIf(L, e.GenerateRandom(count, rng))
			return 0
		},
		"size":     pushInt(e.Size),
		"height":   pushInt(e.Height),
		"balanced": pushBool(e.IsBalanced),
		"empty":    pushBool(e.IsEmpty),
		"contains": func(L *lua.LState) int {
			L.Push(lua.LBool(e.Contains(checkInt(L, 1))))
			return 1
		},

		"inorder":    pushInts(e.InOrder),
		"preorder":   pushInts(e.PreOrder),
		"postorder":  pushInts(e.PostOrder),
		"levelorder": pushInts(e.LevelOrder),

		"undo":     pushBool(e.Undo),
		"redo":     pushBool(e.Redo),
		"can_undo": pushBool(e.CanUndo),
		"can_redo": pushBool(e.CanRedo),
		"undo_description": func(L *lua.LState) int {
			L.Push(lua.LString(e.UndoDescription()))
			return 1
		},
		"redo_description": func(L *lua.LState) int {
			L.Push(lua.LString(e.RedoDescription()))
			return 1
		},

		"group": func(L *lua.LState) int {
			name := L.CheckString(1)
			fn := L.CheckFunction(2)
			err := e.Group(name, func() error {
				return L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true})
			})
			raiseIf(L, err)
			return 0
		},

		"stats": func(L *lua.LState) int {
			st := e.Stats()
			t := L.NewTable()
			t.RawSetString("size", lua.LNumber(st.Size))
			t.RawSetString("height", lua.LNumber(st.Height))
			t.RawSetString("balanced", lua.LBool(st.Balanced))
			if st.HasRange {
				t.RawSetString("min", lua.LNumber(st.Min))
				t.RawSetString("max", lua.LNumber(st.Max))
			}
			L.Push(t)
			return 1
		},
	}
}

// raiseIf converts a Go error into a Lua error.
func raiseIf(L *lua.LState, err error) {
	if err == nil {
		return
	}
	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) {
		// Re-raise the script's own error unchanged
		L.Error(apiErr.Object, 1)
		return
	}
	L.RaiseError("%s", err.Error())
}

func pushInt(fn func() int) lua.LGFunction {
	return func(L *lua.LState) int {
		L.Push(lua.LNumber(fn()))
		return 1
	}
}

func pushBool(fn func() bool) lua.LGFunction {
	return func(L *lua.LState) int {
		L.Push(lua.LBool(fn()))
		return 1
	}
}

func pushInts(fn func() []int) lua.LGFunction {
	return func(L *lua.LState) int {
		L.Push(intTable(L, fn()))
		return 1
	}
}

// intTable converts values to a Lua array.
func intTable(L *lua.LState, values []int) *lua.LTable {
	t := L.CreateTable(len(values), 0)
	for _, v := range values {
		t.Append(lua.LNumber(v))
	}
	return t
}

// intSlice reads a Lua array of integers.
func intSlice(L *lua.LState, t *lua.LTable) []int {
	n := t.Len()
	values := make([]int, 0, n)
	for i := 1; i <= n; i++ {
		lv, ok := t.RawGetInt(i).(lua.LNumber)
		if !ok {
			L.ArgError(1, "array of integers expected")
		}
		v, ok := toInt(lv)
		if !ok {
			L.ArgError(1, fmt.Sprintf("integer expected at index %d, got %s", i, lv))
		}
		values = append(values, v)
	}
	return values
}

// checkInt reads argument n as an integer. Unlike L.CheckInt it rejects
// numbers with a fractional part instead of truncating them.
func checkInt(L *lua.LState, n int) int {
	lv := L.CheckNumber(n)
	v, ok := toInt(lv)
	if !ok {
		L.ArgError(n, fmt.Sprintf("integer expected, got %s", lv))
	}
	return v
}

func toInt(lv lua.LNumber) (int, bool) {
	f := float64(lv)
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int(f), true
}

// nodeTable describes a node and its neighbours' values.
func nodeTable(L *lua.LState, n *engine.Node) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("value", lua.LNumber(n.Value()))
	t.RawSetString("depth", lua.LNumber(n.Depth()))
	if p := n.Parent(); p != nil {
		t.RawSetString("parent", lua.LNumber(p.Value()))
	}
	if l := n.Left(); l != nil {
		t.RawSetString("left", lua.LNumber(l.Value()))
	}
	if r := n.Right(); r != nil {
		t.RawSetString("right", lua.LNumber(r.Value()))
	}
	return t
}

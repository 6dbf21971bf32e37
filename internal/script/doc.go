// Package script runs Lua lesson scripts against a tree engine.
//
// Scripts execute in a sandboxed gopher-lua state: only the base, table,
// string and math libraries are opened, file loading is removed, and
// print writes to a configurable writer. Each run is bounded by a timeout.
//
// Bind exposes the engine as a global "tree" module:
//
//	for _, v in ipairs({50, 30, 70}) do
//	    tree.insert(v)
//	end
//	print(table.concat(tree.inorder(), " "))
//	tree.group("rebuild", function()
//	    tree.delete(50)
//	    tree.insert(55)
//	end)
//	tree.undo()
//
// Engine errors such as out-of-range values are raised as Lua errors and
// can be caught with pcall.
package script

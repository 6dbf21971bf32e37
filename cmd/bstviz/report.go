package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/dshills/bstviz/internal/engine"
)

// report renders the engine state as tables.
type report struct {
	engine      *engine.Engine
	orders      []engine.Order
	showNodes   bool
	showHistory bool
}

func (r report) write(w io.Writer) {
	r.writeStats(w)
	if len(r.orders) > 0 {
		fmt.Fprintln(w)
		r.writeTraversals(w)
	}
	if r.showNodes {
		fmt.Fprintln(w)
		r.writeNodes(w)
	}
	if r.showHistory {
		fmt.Fprintln(w)
		r.writeHistory(w)
	}
}

// newTable returns a table that prints header and footer text as given.
func newTable(w io.Writer, header ...string) *tablewriter.Table {
	tbl := tablewriter.NewWriter(w)
	tbl.SetAutoFormatHeaders(false)
	tbl.SetHeader(header)
	return tbl
}

func (r report) writeStats(w io.Writer) {
	st := r.engine.Stats()

	tbl := newTable(w, "Size", "Height", "Balanced", "Min", "Max")
	minS, maxS := "-", "-"
	if st.HasRange {
		minS, maxS = strconv.Itoa(st.Min), strconv.Itoa(st.Max)
	}
	tbl.Append([]string{
		strconv.Itoa(st.Size),
		strconv.Itoa(st.Height),
		strconv.FormatBool(st.Balanced),
		minS,
		maxS,
	})
	tbl.Render()
}

func (r report) writeTraversals(w io.Writer) {
	tbl := newTable(w, "Order", "Values")
	tbl.SetAutoWrapText(false)
	for _, o := range r.orders {
		tbl.Append([]string{o.String(), joinInts(r.engine.Traverse(o))})
	}
	tbl.Render()
}

func (r report) writeNodes(w io.Writer) {
	tbl := newTable(w, "Value", "Depth", "Parent", "Left", "Right")
	for _, n := range r.engine.Nodes() {
		tbl.Append([]string{
			strconv.Itoa(n.Value()),
			strconv.Itoa(n.Depth()),
			nodeValue(n.Parent()),
			nodeValue(n.Left()),
			nodeValue(n.Right()),
		})
	}
	tbl.Render()
}

// writeHistory lists undo entries oldest first, then redo entries in the
// order Redo would replay them.
func (r report) writeHistory(w io.Writer) {
	undo, redo := r.engine.HistorySizes()

	tbl := newTable(w, "#", "Stack", "Operation", "ID", "Time")
	row := func(n int, stack string, info engine.OperationInfo) {
		tbl.Append([]string{
			strconv.Itoa(n),
			stack,
			info.Description,
			info.ID.String()[:8],
			info.Timestamp.Format("15:04:05.000"),
		})
	}

	n := 0
	for _, info := range r.engine.UndoHistory() {
		n++
		row(n, "undo", info)
	}
	redoInfo := r.engine.RedoHistory()
	for i := len(redoInfo) - 1; i >= 0; i-- {
		n++
		row(n, "redo", redoInfo[i])
	}
	tbl.SetFooter([]string{"", "", fmt.Sprintf("undo %d / redo %d", undo, redo), "", ""})
	tbl.Render()
}

func nodeValue(n *engine.Node) string {
	if n == nil {
		return "-"
	}
	return strconv.Itoa(n.Value())
}

func joinInts(values []int) string {
	if len(values) == 0 {
		return "(empty)"
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}

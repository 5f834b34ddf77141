package viewmodel

import (
	"fmt"

	"github.com/vanderheijden86/treegrid/pkg/model"
)

const none int32 = -1

// node is one record in the forest. Nodes live in Model.nodes at the index
// of their recno; parent and children are indexes into the same slice.
type node struct {
	key      string
	parent   int32
	children []int32
	level    int
	expanded bool
	last     bool
	state    model.CheckState
	bold     bool
}

func (n *node) hasChildren() bool { return len(n.children) > 0 }

// Row describes one visible entry for renderers.
type Row struct {
	Rowno       int
	Recno       int
	Key         string
	Level       int
	HasChildren bool
	Expanded    bool
	State       model.CheckState
	// Bold marks a node with at least one checked or bold child.
	Bold bool
	// Last marks the last child of its parent, or the last root.
	Last bool
	// Fixed marks a frozen row (negative rowno).
	Fixed bool
	// Guides[i] reports whether the ancestor at level i has siblings below
	// it, i.e. whether a connector line continues through that column.
	Guides []bool
}

// RowAt describes the visible entry at rowno.
func (m *Model) RowAt(rowno int) (Row, bool) {
	recno := m.RownoToRecno(rowno)
	if recno < 0 {
		return Row{}, false
	}
	r := Row{Rowno: rowno, Recno: recno, Fixed: rowno < 0}
	if !m.tree {
		prev := m.ds.RecnoSilence(recno)
		r.Key = model.KeyString(m.ds.KeyValue())
		r.State = m.ds.Selected()
		m.ds.RecnoSilence(prev)
		return r, true
	}
	n := &m.nodes[recno]
	r.Key = n.key
	r.Level = n.level
	r.HasChildren = n.hasChildren()
	r.Expanded = n.expanded
	r.State = n.state
	r.Bold = n.bold
	r.Last = n.last
	if n.level > 0 {
		r.Guides = make([]bool, n.level)
		for a, lvl := n.parent, n.level-1; a != none; a, lvl = m.nodes[a].parent, lvl-1 {
			r.Guides[lvl] = !m.nodes[a].last
		}
	}
	return r, true
}

// VisibleRows returns the frozen rows followed by the rows inside the window.
func (m *Model) VisibleRows() []Row {
	frozen := min(m.fixedRows, m.total)
	end := m.VisibleEndRow()
	rows := make([]Row, 0, frozen+max(0, end-m.visibleStart+1))
	for idx := 0; idx < frozen; idx++ {
		if row, ok := m.RowAt(idx - m.fixedRows); ok {
			rows = append(rows, row)
		}
	}
	for r := m.visibleStart; r <= end; r++ {
		if row, ok := m.RowAt(r); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// Rows returns every row of the visible sequence, frozen rows first,
// regardless of the window.
func (m *Model) Rows() []Row {
	frozen := min(m.fixedRows, m.total)
	rows := make([]Row, 0, m.total)
	for idx := 0; idx < frozen; idx++ {
		if row, ok := m.RowAt(idx - m.fixedRows); ok {
			rows = append(rows, row)
		}
	}
	for r := 0; r < m.needShow; r++ {
		if row, ok := m.RowAt(r); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// NodeInfo is a read-only snapshot of one node, visible or not.
type NodeInfo struct {
	Recno    int
	Key      string
	Parent   int
	Children []int
	Level    int
	Expanded bool
	Last     bool
	State    model.CheckState
	Bold     bool
	Visible  bool
}

// Node describes the node of recno. It reports false in flat mode and for
// unknown recnos.
func (m *Model) Node(recno int) (NodeInfo, bool) {
	if !m.tree || recno < 0 || recno >= len(m.nodes) {
		return NodeInfo{}, false
	}
	n := &m.nodes[recno]
	return NodeInfo{
		Recno:    recno,
		Key:      n.key,
		Parent:   int(n.parent),
		Children: m.Children(recno),
		Level:    n.level,
		Expanded: n.expanded,
		Last:     n.last,
		State:    n.state,
		Bold:     n.bold,
		Visible:  m.IsVisible(recno),
	}, true
}

// HasChildren reports whether the record has child records. Always false in
// flat mode.
func (m *Model) HasChildren(recno int) bool {
	if !m.tree || recno < 0 || recno >= len(m.nodes) {
		return false
	}
	return m.nodes[recno].hasChildren()
}

// Level returns the depth of the record, 0 for roots and in flat mode, -1
// for an unknown recno.
func (m *Model) Level(recno int) int {
	if recno < 0 || recno >= m.recordCount() {
		return -1
	}
	if !m.tree {
		return 0
	}
	return m.nodes[recno].level
}

// IsExpanded reports the expanded flag of a node.
func (m *Model) IsExpanded(recno int) bool {
	if !m.tree || recno < 0 || recno >= len(m.nodes) {
		return false
	}
	return m.nodes[recno].expanded
}

// IsVisible reports whether the record is in the visible sequence.
func (m *Model) IsVisible(recno int) bool {
	return m.indexOf(recno) >= 0
}

// CheckState returns the tri-state of a node as cached by the model.
func (m *Model) CheckState(recno int) model.CheckState {
	if m.tree {
		if recno < 0 || recno >= len(m.nodes) {
			return model.Unchecked
		}
		return m.nodes[recno].state
	}
	if recno < 0 || recno >= m.recordCount() {
		return model.Unchecked
	}
	prev := m.ds.RecnoSilence(recno)
	defer m.ds.RecnoSilence(prev)
	return m.ds.Selected()
}

// IsBold reports whether any child of the node is checked or bold.
func (m *Model) IsBold(recno int) bool {
	if !m.tree || recno < 0 || recno >= len(m.nodes) {
		return false
	}
	return m.nodes[recno].bold
}

// Parent returns the recno of the parent node, -1 for roots and in flat mode.
func (m *Model) Parent(recno int) int {
	if !m.tree || recno < 0 || recno >= len(m.nodes) {
		return -1
	}
	return int(m.nodes[recno].parent)
}

// Children returns the recnos of the node's children in store order.
func (m *Model) Children(recno int) []int {
	if !m.tree || recno < 0 || recno >= len(m.nodes) {
		return nil
	}
	kids := m.nodes[recno].children
	out := make([]int, len(kids))
	for i, c := range kids {
		out[i] = int(c)
	}
	return out
}

// Roots returns the recnos of top-level nodes.
func (m *Model) Roots() []int {
	out := make([]int, len(m.roots))
	for i, r := range m.roots {
		out[i] = int(r)
	}
	return out
}

// Validate checks the forest: parents precede children, levels and child
// links agree, and no ancestor chain loops. A failing chain is reported as
// ErrCyclicHierarchy.
func (m *Model) Validate() error {
	if !m.tree {
		return nil
	}
	for i := range m.nodes {
		n := &m.nodes[i]
		if n.parent == none {
			if n.level != 0 {
				return fmt.Errorf("root %d at level %d", i, n.level)
			}
			continue
		}
		if int(n.parent) >= i {
			return fmt.Errorf("node %d: parent %d does not precede it: %w", i, n.parent, ErrCyclicHierarchy)
		}
		p := &m.nodes[n.parent]
		if n.level != p.level+1 {
			return fmt.Errorf("node %d at level %d under level %d", i, n.level, p.level)
		}
		found := false
		for _, c := range p.children {
			if int(c) == i {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("node %d missing from children of %d", i, n.parent)
		}
	}
	return nil
}

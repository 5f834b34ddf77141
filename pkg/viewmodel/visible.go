package viewmodel

import (
	"github.com/vanderheijden86/treegrid/pkg/metrics"
)

// refreshVisibleSequence recomputes the pre-order list of nodes whose
// ancestors are all expanded, the recno-to-index side table, the scrollable
// row count and the window clamp.
func (m *Model) refreshVisibleSequence() {
	defer metrics.Timer(metrics.VisibleRefresh)()

	if m.tree {
		if cap(m.rowOf) < len(m.nodes) {
			m.rowOf = make([]int32, len(m.nodes))
		}
		m.rowOf = m.rowOf[:len(m.nodes)]
		for i := range m.rowOf {
			m.rowOf[i] = none
		}
		m.seq = m.seq[:0]

		stack := make([]int32, 0, 32)
		for i := len(m.roots) - 1; i >= 0; i-- {
			stack = append(stack, m.roots[i])
		}
		for len(stack) > 0 {
			idx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			m.rowOf[idx] = int32(len(m.seq))
			m.seq = append(m.seq, idx)
			n := &m.nodes[idx]
			if n.expanded {
				for i := len(n.children) - 1; i >= 0; i-- {
					stack = append(stack, n.children[i])
				}
			}
		}
		m.total = len(m.seq)
	} else {
		m.seq, m.rowOf = nil, nil
		m.total = m.ds.RecordCount()
	}

	need := max(0, m.total-m.fixedRows)
	if need != m.needShow {
		m.needShow = need
		m.emit(Event{Kind: NeedShowRowsCountChanged, Count: need})
	}
	m.setVisibleStart(m.visibleStart)
}

// VisibleSequence returns the recnos of the visible sequence in display
// order, frozen entries first.
func (m *Model) VisibleSequence() []int {
	out := make([]int, m.total)
	for i := range out {
		out[i] = m.recnoAt(i)
	}
	return out
}

func (m *Model) recordCount() int {
	if m.tree {
		return len(m.nodes)
	}
	return m.total
}

// recnoAt maps a visible-sequence index to a recno.
func (m *Model) recnoAt(idx int) int {
	if idx < 0 || idx >= m.total {
		return -1
	}
	if m.tree {
		return int(m.seq[idx])
	}
	return idx
}

// indexOf maps a recno to its visible-sequence index, -1 when hidden.
func (m *Model) indexOf(recno int) int {
	if m.tree {
		if recno < 0 || recno >= len(m.rowOf) {
			return -1
		}
		return int(m.rowOf[recno])
	}
	if recno < 0 || recno >= m.total {
		return -1
	}
	return recno
}

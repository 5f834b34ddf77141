package viewmodel

import (
	"fmt"

	"github.com/vanderheijden86/treegrid/pkg/metrics"
	"github.com/vanderheijden86/treegrid/pkg/model"
)

// CheckNode sets the check state of the current record. With correlate the
// state cascades to every descendant and, unless onlyChildren is set, the
// ancestors are re-derived from their children. Bold flags of ancestors are
// kept current in every case.
func (m *Model) CheckNode(state model.CheckState, correlate, onlyChildren bool) error {
	if m.destroyed {
		return ErrDestroyed
	}
	if state != model.Unchecked && state != model.Checked {
		return fmt.Errorf("check node: %w (got %s)", ErrInvalidState, state)
	}
	recno := m.ds.Recno()
	if recno < 0 {
		return nil
	}
	defer metrics.Timer(metrics.CheckPropagation)()

	if !m.tree {
		if err := m.withStore(func() error { return m.ds.SetSelected(state) }); err != nil {
			return fmt.Errorf("check record %d: %w", recno, err)
		}
		m.emit(Event{Kind: CheckStateChanged})
		return nil
	}

	idx := int32(recno)
	err := m.withStore(func() error {
		if err := m.setState(idx, state); err != nil {
			return err
		}
		if correlate && m.nodes[idx].hasChildren() {
			if err := m.cascade(idx, state); err != nil {
				return err
			}
			m.nodes[idx].bold = state == model.Checked
		}
		return m.propagateUp(idx, correlate && !onlyChildren)
	})
	if err != nil {
		return fmt.Errorf("check record %d: %w", recno, err)
	}
	m.log.Debug().Int("recno", recno).Stringer("state", state).Bool("correlate", correlate).Msg("node checked")
	m.emit(Event{Kind: CheckStateChanged})
	return nil
}

// CheckChildNodes sets the state of the current node and all of its
// descendants. It does nothing on a leaf. Ancestors are re-derived only with
// correlate.
func (m *Model) CheckChildNodes(state model.CheckState, correlate bool) error {
	if m.destroyed {
		return ErrDestroyed
	}
	if state != model.Unchecked && state != model.Checked {
		return fmt.Errorf("check child nodes: %w (got %s)", ErrInvalidState, state)
	}
	recno := m.ds.Recno()
	if !m.tree || !m.HasChildren(recno) {
		return nil
	}
	defer metrics.Timer(metrics.CheckPropagation)()

	idx := int32(recno)
	err := m.withStore(func() error {
		if err := m.setState(idx, state); err != nil {
			return err
		}
		if err := m.cascade(idx, state); err != nil {
			return err
		}
		m.nodes[idx].bold = state == model.Checked
		return m.propagateUp(idx, correlate)
	})
	if err != nil {
		return fmt.Errorf("check children of record %d: %w", recno, err)
	}
	m.emit(Event{Kind: CheckStateChanged})
	return nil
}

// ToggleCheck checks the current record unless it is already checked, in
// which case it is unchecked. Mixed toggles to checked.
func (m *Model) ToggleCheck(correlate bool) error {
	if m.destroyed {
		return ErrDestroyed
	}
	next := model.Checked
	if m.CheckState(m.ds.Recno()) == model.Checked {
		next = model.Unchecked
	}
	return m.CheckNode(next, correlate, false)
}

// AllChecked reports whether every record is checked.
func (m *Model) AllChecked() bool {
	n := m.recordCount()
	if n == 0 {
		return false
	}
	for i := 0; i < n; i++ {
		if m.CheckState(i) != model.Checked {
			return false
		}
	}
	return true
}

// CheckAll sets every record to state in one pass and re-derives bold flags.
func (m *Model) CheckAll(state model.CheckState) error {
	if m.destroyed {
		return ErrDestroyed
	}
	if state != model.Unchecked && state != model.Checked {
		return fmt.Errorf("check all: %w (got %s)", ErrInvalidState, state)
	}
	defer metrics.Timer(metrics.CheckPropagation)()

	count := m.recordCount()
	err := m.withStore(func() error {
		for i := 0; i < count; i++ {
			if m.tree {
				if err := m.setState(int32(i), state); err != nil {
					return err
				}
				continue
			}
			m.ds.RecnoSilence(i)
			if err := m.ds.SetSelected(state); err != nil {
				return fmt.Errorf("record %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("check all: %w", err)
	}
	for i := range m.nodes {
		m.nodes[i].bold = state == model.Checked && m.nodes[i].hasChildren()
	}
	m.emit(Event{Kind: CheckStateChanged})
	return nil
}

// setState writes a node's state to the cache and the dataset. Callers hold
// the store guard.
func (m *Model) setState(idx int32, state model.CheckState) error {
	n := &m.nodes[idx]
	if n.state == state {
		return nil
	}
	m.ds.RecnoSilence(int(idx))
	if err := m.ds.SetSelected(state); err != nil {
		return fmt.Errorf("record %d: %w", idx, err)
	}
	n.state = state
	return nil
}

// cascade gives every descendant of idx the given state.
func (m *Model) cascade(idx int32, state model.CheckState) error {
	stack := append([]int32(nil), m.nodes[idx].children...)
	for len(stack) > 0 {
		d := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if err := m.setState(d, state); err != nil {
			return err
		}
		n := &m.nodes[d]
		n.bold = state == model.Checked && n.hasChildren()
		stack = append(stack, n.children...)
	}
	return nil
}

// propagateUp walks the ancestors of idx. With reduce each ancestor's state
// is re-derived from its children until one comes out unchanged; bold flags
// are refreshed on the way. The walk stops at the first ancestor where
// neither changed.
func (m *Model) propagateUp(idx int32, reduce bool) error {
	settled := !reduce
	for a := m.nodes[idx].parent; a != none; a = m.nodes[a].parent {
		changed := false
		if !settled {
			s := m.reduceChildren(a)
			if s == m.nodes[a].state {
				settled = true
			} else {
				if err := m.setState(a, s); err != nil {
					return err
				}
				changed = true
			}
		}
		if b := m.boldFromChildren(a); b != m.nodes[a].bold {
			m.nodes[a].bold = b
			changed = true
		}
		if settled && !changed {
			break
		}
	}
	return nil
}

func (m *Model) reduceChildren(idx int32) model.CheckState {
	kids := m.nodes[idx].children
	if len(kids) == 0 {
		return m.nodes[idx].state
	}
	states := make([]model.CheckState, len(kids))
	for i, c := range kids {
		states[i] = m.nodes[c].state
	}
	return model.Reduce(states...)
}

func (m *Model) boldFromChildren(idx int32) bool {
	for _, c := range m.nodes[idx].children {
		if n := &m.nodes[c]; n.state == model.Checked || n.bold {
			return true
		}
	}
	return false
}

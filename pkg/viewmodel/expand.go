package viewmodel

import "fmt"

// Expand expands the node and every collapsed ancestor, persists the flags
// and refreshes the visible sequence. Flat mode and unknown recnos are
// ignored.
func (m *Model) Expand(recno int) error {
	return m.setExpanded(recno, true)
}

// Collapse collapses the node. When the cursor was inside the collapsed
// subtree it moves to the node itself.
func (m *Model) Collapse(recno int) error {
	return m.setExpanded(recno, false)
}

// Toggle flips the expanded flag of a node with children.
func (m *Model) Toggle(recno int) error {
	if !m.HasChildren(recno) {
		return nil
	}
	return m.setExpanded(recno, !m.nodes[recno].expanded)
}

// ExpandCurrent expands the node under the cursor.
func (m *Model) ExpandCurrent() error { return m.Expand(m.curRecno) }

// CollapseCurrent collapses the node under the cursor. On a leaf or an
// already collapsed node the cursor moves to the parent instead.
func (m *Model) CollapseCurrent() error {
	recno := m.curRecno
	if !m.tree || recno < 0 || recno >= len(m.nodes) {
		return nil
	}
	n := &m.nodes[recno]
	if n.hasChildren() && n.expanded {
		return m.Collapse(recno)
	}
	if n.parent == none {
		return nil
	}
	row, ok := m.RecnoToRowno(int(n.parent))
	if !ok {
		return nil
	}
	return m.SetCurrentRowno(row, EnsureInWindow())
}

func (m *Model) setExpanded(recno int, expanded bool) error {
	if m.destroyed {
		return ErrDestroyed
	}
	changed, err := m.applyExpanded(recno, expanded)
	if err != nil || !changed {
		return err
	}
	m.refreshVisibleSequence()
	return m.restoreCurrent()
}

// applyExpanded writes the flag of one node, and of all its ancestors when
// expanding, without touching the visible sequence.
func (m *Model) applyExpanded(recno int, expanded bool) (bool, error) {
	if !m.tree || recno < 0 || recno >= len(m.nodes) {
		return false, nil
	}
	changed := false
	err := m.withStore(func() error {
		var err error
		changed, err = m.writeExpanded(int32(recno), expanded)
		if err != nil || !expanded {
			return err
		}
		for a := m.nodes[recno].parent; a != none; a = m.nodes[a].parent {
			c, err := m.writeExpanded(a, true)
			if err != nil {
				return err
			}
			changed = changed || c
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("set expanded on record %d: %w", recno, err)
	}
	return changed, nil
}

// ExpandAll expands every node with children.
func (m *Model) ExpandAll() error { return m.setAllExpanded(true) }

// CollapseAll collapses every node with children.
func (m *Model) CollapseAll() error { return m.setAllExpanded(false) }

func (m *Model) setAllExpanded(expanded bool) error {
	if m.destroyed {
		return ErrDestroyed
	}
	if !m.tree {
		return nil
	}
	changed := false
	err := m.withStore(func() error {
		for i := range m.nodes {
			if !m.nodes[i].hasChildren() {
				continue
			}
			c, err := m.writeExpanded(int32(i), expanded)
			if err != nil {
				return err
			}
			changed = changed || c
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("set expanded on all records: %w", err)
	}
	if !changed {
		return nil
	}
	m.refreshVisibleSequence()
	return m.restoreCurrent()
}

// writeExpanded updates the cache and persists the flag. Callers hold the
// store guard.
func (m *Model) writeExpanded(idx int32, expanded bool) (bool, error) {
	n := &m.nodes[idx]
	if n.expanded == expanded {
		return false, nil
	}
	m.ds.RecnoSilence(int(idx))
	if err := m.ds.SetExpanded(expanded); err != nil {
		return false, fmt.Errorf("record %d: %w", idx, err)
	}
	n.expanded = expanded
	return true, nil
}

// SyncDataset follows the dataset's current record: collapsed ancestors are
// expanded and the cursor moves onto the record, scrolling it into view.
func (m *Model) SyncDataset() error {
	if m.destroyed {
		return ErrDestroyed
	}
	recno := m.ds.Recno()
	if recno < 0 {
		return m.SetCurrentRowno(0)
	}
	if m.tree && recno < len(m.nodes) && m.rowOf[recno] == none {
		if p := m.nodes[recno].parent; p != none {
			changed, err := m.applyExpanded(int(p), true)
			if err != nil {
				return err
			}
			if changed {
				m.refreshVisibleSequence()
			}
		}
	}
	row, ok := m.RecnoToRowno(recno)
	if !ok {
		return nil
	}
	return m.SetCurrentRowno(row, EnsureInWindow())
}

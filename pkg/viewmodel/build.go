package viewmodel

import (
	"fmt"
	"time"

	"github.com/vanderheijden86/treegrid/pkg/debug"
	"github.com/vanderheijden86/treegrid/pkg/metrics"
	"github.com/vanderheijden86/treegrid/pkg/model"
)

// RefreshModel rebuilds the forest from the dataset and recomputes the
// visible sequence. Nodes at a level <= expandLevel start expanded, deeper
// ones take the persisted flag; NoExpandLevel expands everything. The
// resulting flags are written back to the dataset. The cursor follows the
// dataset's current record.
func (m *Model) RefreshModel(expandLevel int) error {
	if m.destroyed {
		return ErrDestroyed
	}
	start := time.Now()
	done := metrics.Timer(metrics.TreeBuild)

	if m.tree {
		if err := m.withStore(func() error { return m.buildForest(expandLevel) }); err != nil {
			done()
			return err
		}
		if debug.Enabled() {
			if err := m.Validate(); err != nil {
				done()
				return err
			}
		}
	} else {
		m.nodes, m.roots = nil, nil
	}
	m.refreshVisibleSequence()
	done()

	m.log.Debug().
		Bool("tree", m.tree).
		Int("records", m.recordCount()).
		Int("visible", m.total).
		Int("level", expandLevel).
		Dur("took", time.Since(start)).
		Msg("model refreshed")

	m.curRecno = m.ds.Recno()
	if err := m.restoreCurrent(); err != nil {
		return err
	}
	m.emit(Event{Kind: ModelRefreshed})
	return nil
}

// buildForest walks the dataset once. A record's parent is the most recent
// earlier record whose key equals its parent key, so parents must precede
// their children in store order but siblings' subtrees may interleave. A
// record whose parent key is absent or not seen yet becomes a root.
func (m *Model) buildForest(expandLevel int) error {
	count := m.ds.RecordCount()
	nodes := make([]node, count)
	roots := make([]int32, 0, 8)
	seen := make(map[string]int32, count)

	for i := 0; i < count; i++ {
		m.ds.RecnoSilence(i)
		n := &nodes[i]
		n.key = model.KeyString(m.ds.KeyValue())
		n.parent = none
		n.state = m.ds.Selected()

		p := none
		if pv := m.ds.ParentValue(); pv != nil {
			if idx, ok := seen[model.KeyString(pv)]; ok {
				p = idx
			}
		}
		if p != none {
			n.parent = p
			n.level = nodes[p].level + 1
			nodes[p].children = append(nodes[p].children, int32(i))
		} else {
			roots = append(roots, int32(i))
		}
		seen[n.key] = int32(i)

		persisted := m.ds.Expanded()
		n.expanded = persisted
		if expandLevel < 0 || n.level <= expandLevel {
			n.expanded = true
		}
		if n.expanded != persisted {
			if err := m.ds.SetExpanded(n.expanded); err != nil {
				return fmt.Errorf("persist expanded flag of record %d: %w", i, err)
			}
		}
	}

	if len(roots) > 0 {
		nodes[roots[len(roots)-1]].last = true
	}
	// children always follow their parent, so one backward pass settles
	// every bold flag bottom-up
	for i := count - 1; i >= 0; i-- {
		n := &nodes[i]
		if n.hasChildren() {
			nodes[n.children[len(n.children)-1]].last = true
		}
		if n.parent != none && (n.state == model.Checked || n.bold) {
			nodes[n.parent].bold = true
		}
	}

	m.nodes = nodes
	m.roots = roots
	return nil
}

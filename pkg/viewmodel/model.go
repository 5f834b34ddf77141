// Package viewmodel presents a flat, ordered record store as a virtualized
// list that is either flat or a collapsible hierarchy.
//
// The Model owns the presentation state only: a forest built from each
// record's key and parent key, the flattened sequence of currently visible
// nodes, the viewport window over that sequence, and the cursor. Records,
// the current record pointer and the persisted expanded/selected flags live
// in the dataset.
//
// Three coordinate spaces are involved:
//
//	recno   index of a record in the store
//	index   position in the visible sequence (identity in flat mode)
//	rowno   index - FixedRows; negative rownos are the frozen rows
//
// All methods run on the caller's goroutine and notify synchronously. A Model
// is not safe for concurrent use.
package viewmodel

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/vanderheijden86/treegrid/pkg/dataset"
	"github.com/vanderheijden86/treegrid/pkg/debug"
)

// NoExpandLevel passed to RefreshModel expands every node.
const NoExpandLevel = -1

// Model is the view model over a dataset.
type Model struct {
	ds        dataset.Dataset
	tree      bool
	fixedRows int
	autoLevel int
	log       zerolog.Logger

	// forest, indexed by recno
	nodes []node
	roots []int32

	// visible sequence (tree mode) and its inverse
	seq   []int32
	rowOf []int32
	total int

	needShow     int
	visibleStart int
	visibleCount int

	curRowno int
	curRecno int

	listeners  listeners
	topGuard   reentryGuard
	storeGuard reentryGuard

	unsubscribeStore func()
	destroyed        bool
}

// Option configures a Model.
type Option func(*Model)

// WithTree selects hierarchical (true) or flat (false) mode. Default is tree.
func WithTree(tree bool) Option {
	return func(m *Model) { m.tree = tree }
}

// WithFixedRows sets the number of leading visible entries that stay frozen
// above the scrollable window.
func WithFixedRows(n int) Option {
	return func(m *Model) {
		if n < 0 {
			n = 0
		}
		m.fixedRows = n
	}
}

// WithVisibleCount sets the initial window size.
func WithVisibleCount(n int) Option {
	return func(m *Model) {
		if n < 0 {
			n = 0
		}
		m.visibleCount = n
	}
}

// WithExpandLevel sets the level used when the model rebuilds itself after a
// structural change in the dataset. Default is NoExpandLevel.
func WithExpandLevel(level int) Option {
	return func(m *Model) { m.autoLevel = level }
}

// WithLogger replaces the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Model) { m.log = l }
}

// New binds a model to ds, builds it with the configured expand level and
// subscribes to the dataset so that external navigation and structural
// changes are followed.
func New(ds dataset.Dataset, opts ...Option) (*Model, error) {
	if ds == nil {
		return nil, ErrNoDataset
	}
	m := &Model{
		ds:        ds,
		tree:      true,
		autoLevel: NoExpandLevel,
		curRecno:  -1,
		log:       debug.Component("viewmodel"),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.unsubscribeStore = ds.Subscribe(m.handleStoreEvent)
	if err := m.RefreshModel(m.autoLevel); err != nil {
		m.unsubscribeStore()
		return nil, fmt.Errorf("build view model: %w", err)
	}
	return m, nil
}

// Destroy unsubscribes from the dataset and releases the forest. Later
// mutating calls return ErrDestroyed or do nothing.
func (m *Model) Destroy() {
	if m.destroyed {
		return
	}
	if m.unsubscribeStore != nil {
		m.unsubscribeStore()
		m.unsubscribeStore = nil
	}
	m.listeners.reset()
	m.nodes, m.roots, m.seq, m.rowOf = nil, nil, nil, nil
	m.total, m.needShow = 0, 0
	m.destroyed = true
}

// Dataset returns the bound dataset.
func (m *Model) Dataset() dataset.Dataset { return m.ds }

// IsTree reports whether the model is in hierarchical mode.
func (m *Model) IsTree() bool { return m.tree }

// FixedRows returns the number of frozen leading entries.
func (m *Model) FixedRows() int { return m.fixedRows }

// CurrentRowno returns the cursor row.
func (m *Model) CurrentRowno() int { return m.curRowno }

// CurrentRecno returns the record under the cursor, -1 when empty.
func (m *Model) CurrentRecno() int { return m.curRecno }

// Len returns the length of the visible sequence, frozen rows included.
func (m *Model) Len() int { return m.total }

// SetTree switches between flat and hierarchical mode and rebuilds.
func (m *Model) SetTree(tree bool) error {
	if m.destroyed {
		return ErrDestroyed
	}
	if m.tree == tree {
		return nil
	}
	m.tree = tree
	return m.RefreshModel(m.autoLevel)
}

func (m *Model) handleStoreEvent(ev dataset.Event) {
	if m.destroyed || m.storeGuard.held() {
		return
	}
	switch ev.Kind {
	case dataset.EventStructureChanged:
		if err := m.RefreshModel(m.autoLevel); err != nil {
			m.log.Error().Err(err).Msg("rebuild after structure change")
		}
	case dataset.EventRecordChanged:
		if err := m.SyncDataset(); err != nil {
			m.log.Error().Err(err).Int("recno", ev.Recno).Msg("sync after record change")
		}
	}
}

// withStore runs fn with store events ignored and restores the store's
// current record silently afterwards.
func (m *Model) withStore(fn func() error) error {
	release := m.storeGuard.hold()
	defer release()
	prev := m.ds.Recno()
	defer m.ds.RecnoSilence(prev)
	return fn()
}

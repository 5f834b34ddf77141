package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/vanderheijden86/treegrid/internal/datasource"
	"github.com/vanderheijden86/treegrid/pkg/config"
	"github.com/vanderheijden86/treegrid/pkg/dataset"
	"github.com/vanderheijden86/treegrid/pkg/debug"
	"github.com/vanderheijden86/treegrid/pkg/model"
	"github.com/vanderheijden86/treegrid/pkg/ui"
	"github.com/vanderheijden86/treegrid/pkg/viewmodel"
)

// session is a loaded record store bound to a view model.
type session struct {
	cfg       config.Config
	view      config.ViewConfig
	paths     []string
	statePath string

	mu sync.Mutex
	// base holds the records as last read from the sources, before any
	// persisted flags were applied.
	base  []model.Record
	state *datasource.State

	ds *dataset.MemoryDataset
	vm *viewmodel.Model

	log zerolog.Logger
}

func (s *session) parseOptions() datasource.ParseOptions {
	return datasource.ParseOptions{
		Fields: datasource.Fields{
			Key:    s.cfg.Source.KeyField,
			Parent: s.cfg.Source.ParentField,
			Title:  s.cfg.Source.TitleField,
			Table:  s.cfg.Source.Table,
		},
		WarningHandler: func(msg string) {
			s.log.Warn().Msg(msg)
		},
	}
}

// openSession resolves args, loads every record file, applies the
// persisted flag state when restore is set and builds the view model.
func openSession(ctx context.Context, cfg config.Config, view config.ViewConfig, args []string, restore bool) (*session, error) {
	s := &session{
		cfg:  cfg,
		view: view,
		log:  debug.Component("session"),
	}

	paths, err := cfg.ResolvePaths(args)
	if err != nil {
		return nil, err
	}
	s.paths = paths

	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.base = records

	working := cloneRecords(records)
	if restore {
		s.statePath = s.stateFile()
		st, err := datasource.LoadState(s.statePath)
		if err != nil {
			s.log.Warn().Err(err).Str("path", s.statePath).Msg("ignoring flag state")
		} else {
			s.state = st
			if n := st.Apply(working); n > 0 {
				s.log.Debug().Int("records", n).Str("path", s.statePath).Msg("restored flag state")
			}
		}
	}

	s.ds = dataset.NewMemoryDataset(working)
	opts := []viewmodel.Option{
		viewmodel.WithTree(view.Tree),
		viewmodel.WithFixedRows(view.FixedRows),
		viewmodel.WithExpandLevel(view.ExpandLevel),
		viewmodel.WithLogger(debug.Component("viewmodel")),
	}
	if view.VisibleCount > 0 {
		opts = append(opts, viewmodel.WithVisibleCount(view.VisibleCount))
	}
	vm, err := viewmodel.New(s.ds, opts...)
	if err != nil {
		return nil, err
	}
	s.vm = vm

	if err := ui.RestoreCollapsed(vm, s.ds, s.state); err != nil {
		vm.Destroy()
		return nil, err
	}
	return s, nil
}

func (s *session) load(ctx context.Context) ([]model.Record, error) {
	records, err := datasource.LoadAll(ctx, s.paths, s.parseOptions())
	if err != nil {
		return nil, err
	}
	for _, issue := range datasource.CheckOrder(records) {
		s.log.Warn().Str("key", issue.Key).Msg(issue.String())
	}
	return records, nil
}

// Reload reads the sources again. It is used as the grid's reload hook.
func (s *session) Reload(ctx context.Context) ([]model.Record, error) {
	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.base = records
	s.mu.Unlock()
	return cloneRecords(records), nil
}

// stateFile returns the configured state file, or one derived from the
// first record file under the state directory.
func (s *session) stateFile() string {
	if s.cfg.Source.StateFile != "" {
		return s.cfg.Source.StateFile
	}
	dir := config.StateDir()
	if dir == "" {
		dir = filepath.Dir(s.paths[0])
	}
	return datasource.StatePath(filepath.Join(dir, "state"), s.paths[0])
}

// saveState persists the flags that differ from the sources.
func (s *session) saveState() error {
	if s.statePath == "" {
		return nil
	}
	s.mu.Lock()
	base := s.base
	s.mu.Unlock()
	st := ui.CaptureFlags(s.vm, s.ds, base)
	if err := datasource.SaveState(s.statePath, st); err != nil {
		return err
	}
	s.log.Debug().
		Int("expanded", len(st.Expanded)).
		Int("selected", len(st.Selected)).
		Str("path", s.statePath).
		Msg("saved flag state")
	return nil
}

func (s *session) close() {
	if s.vm != nil {
		s.vm.Destroy()
	}
}

// title names the session after its sources.
func (s *session) title() string {
	if len(s.paths) == 1 {
		return filepath.Base(s.paths[0])
	}
	return fmt.Sprintf("%s +%d", filepath.Base(s.paths[0]), len(s.paths)-1)
}

// recnoOfKey finds a record by its key string.
func (s *session) recnoOfKey(key string) (int, bool) {
	for i, rec := range s.ds.Records() {
		if model.KeyString(rec.Key) == key {
			return i, true
		}
	}
	return -1, false
}

func cloneRecords(in []model.Record) []model.Record {
	out := make([]model.Record, len(in))
	copy(out, in)
	return out
}

// label shows the record title, or the key when the title is empty.
func (s *session) label(r viewmodel.Row) string {
	if rec, ok := s.ds.RecordAt(r.Recno); ok && rec.Title != "" {
		return rec.Title
	}
	return r.Key
}

// applyEdits collapses and checks the records named by key, in that order.
func (s *session) applyEdits(collapse, check []string) error {
	for _, key := range collapse {
		recno, ok := s.recnoOfKey(key)
		if !ok {
			return fmt.Errorf("collapse: unknown key %q", key)
		}
		if err := s.vm.Collapse(recno); err != nil {
			return err
		}
	}
	for _, key := range check {
		recno, ok := s.recnoOfKey(key)
		if !ok {
			return fmt.Errorf("check: unknown key %q", key)
		}
		if err := s.ds.SetRecno(recno); err != nil {
			return err
		}
		if err := s.vm.CheckNode(model.Checked, s.view.CorrelateCheck, s.view.OnlyChildren); err != nil {
			return fmt.Errorf("check %q: %w", key, err)
		}
	}
	return nil
}

// window positions the visible window. A count of zero shows every row.
func (s *session) window(top, count int) {
	if count <= 0 {
		count = s.vm.Len()
	}
	s.vm.SetVisibleCount(count)
	s.vm.SetVisibleStartRow(top)
}

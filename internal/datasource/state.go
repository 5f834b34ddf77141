package datasource

import (
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/treegrid/pkg/model"
)

// StateVersion is the current schema version for flag persistence.
const StateVersion = 1

// State is the persisted expand and check flags of a record file, keyed
// by record key. Only records that differ from the source are stored.
type State struct {
	Version  int                         `json:"version"`
	Expanded map[string]bool             `json:"expanded,omitempty"`
	Selected map[string]model.CheckState `json:"selected,omitempty"`
}

// CaptureState records the flags of current that differ from base, which
// is the record slice as loaded from the source.
func CaptureState(base, current []model.Record) *State {
	orig := make(map[string]model.Record, len(base))
	for _, r := range base {
		orig[model.KeyString(r.Key)] = r
	}

	st := &State{
		Version:  StateVersion,
		Expanded: make(map[string]bool),
		Selected: make(map[string]model.CheckState),
	}
	for _, r := range current {
		key := model.KeyString(r.Key)
		o := orig[key]
		if r.Expanded != o.Expanded {
			st.Expanded[key] = r.Expanded
		}
		if r.Selected != o.Selected {
			st.Selected[key] = r.Selected
		}
	}
	return st
}

// Apply copies the stored flags onto records. Unknown keys are ignored.
// It returns the number of records changed.
func (s *State) Apply(records []model.Record) int {
	if s == nil {
		return 0
	}
	n := 0
	for i := range records {
		key := model.KeyString(records[i].Key)
		changed := false
		if v, ok := s.Expanded[key]; ok && records[i].Expanded != v {
			records[i].Expanded = v
			changed = true
		}
		if v, ok := s.Selected[key]; ok && v.Valid() && records[i].Selected != v {
			records[i].Selected = v
			changed = true
		}
		if changed {
			n++
		}
	}
	return n
}

// StatePath returns the state file for a record file inside dir. The name
// is derived from the record file's absolute path so that two files with
// the same base name do not collide.
func StatePath(dir, recordsPath string) string {
	abs, err := filepath.Abs(recordsPath)
	if err != nil {
		abs = recordsPath
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(abs))
	return filepath.Join(dir, fmt.Sprintf("%s-%08x.json", filepath.Base(abs), h.Sum32()))
}

// SaveState writes the state file, creating its directory.
func SaveState(path string, s *State) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

// LoadState reads a state file. A missing file yields an empty state; a
// file from a newer schema is rejected.
func LoadState(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &State{Version: StateVersion}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse state %s: %w", path, err)
	}
	if s.Version > StateVersion {
		return nil, fmt.Errorf("state %s: unsupported version %d", path, s.Version)
	}
	return &s, nil
}

// Collapsed returns the recnos of the records the state marks collapsed,
// in record order.
func (s *State) Collapsed(records []model.Record) []int {
	if s == nil || len(s.Expanded) == 0 {
		return nil
	}
	var out []int
	for i, r := range records {
		if v, ok := s.Expanded[model.KeyString(r.Key)]; ok && !v {
			out = append(out, i)
		}
	}
	return out
}

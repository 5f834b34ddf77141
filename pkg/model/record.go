// Package model holds the record types shared by the record store, the
// view model and the record sources.
package model

import "fmt"

// CheckState is the persisted tri-state selection of a record.
type CheckState int

const (
	Unchecked CheckState = iota
	Checked
	Mixed
)

// String returns a short label used by dumps and logs.
func (s CheckState) String() string {
	switch s {
	case Unchecked:
		return "unchecked"
	case Checked:
		return "checked"
	case Mixed:
		return "mixed"
	default:
		return fmt.Sprintf("CheckState(%d)", int(s))
	}
}

// Valid reports whether s is one of the three known states.
func (s CheckState) Valid() bool {
	return s >= Unchecked && s <= Mixed
}

// Reduce folds child states into the state of their parent: Mixed when any
// child is Mixed or the children disagree, otherwise the common value.
// An empty slice reduces to Unchecked.
func Reduce(states ...CheckState) CheckState {
	if len(states) == 0 {
		return Unchecked
	}
	first := states[0]
	if first == Mixed {
		return Mixed
	}
	for _, s := range states[1:] {
		if s != first {
			return Mixed
		}
	}
	return first
}

// ParseCheckState accepts the numeric and textual forms found in record
// sources ("0", "1", "2", "checked", true, ...).
func ParseCheckState(v any) (CheckState, error) {
	switch x := v.(type) {
	case nil:
		return Unchecked, nil
	case CheckState:
		if !x.Valid() {
			return Unchecked, fmt.Errorf("invalid check state %d", int(x))
		}
		return x, nil
	case bool:
		if x {
			return Checked, nil
		}
		return Unchecked, nil
	case int:
		return ParseCheckState(CheckState(x))
	case int64:
		return ParseCheckState(CheckState(x))
	case float64:
		return ParseCheckState(CheckState(int(x)))
	case string:
		switch x {
		case "", "0", "unchecked", "false":
			return Unchecked, nil
		case "1", "checked", "true":
			return Checked, nil
		case "2", "mixed":
			return Mixed, nil
		}
		return Unchecked, fmt.Errorf("invalid check state %q", x)
	default:
		return Unchecked, fmt.Errorf("invalid check state type %T", v)
	}
}

// Record is one row of the record store. Key must be comparable with ==;
// Parent holds the key of the parent record, nil for roots.
type Record struct {
	Key      any            `json:"key" yaml:"key"`
	Parent   any            `json:"parent,omitempty" yaml:"parent,omitempty"`
	Title    string         `json:"title" yaml:"title"`
	Expanded bool           `json:"expanded,omitempty" yaml:"expanded,omitempty"`
	Selected CheckState     `json:"selected,omitempty" yaml:"selected,omitempty"`
	Fields   map[string]any `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// KeyString formats a key for display and for maps keyed by string.
func KeyString(k any) string {
	if k == nil {
		return ""
	}
	switch x := k.(type) {
	case string:
		return x
	case float64:
		if x == float64(int64(x)) {
			return fmt.Sprintf("%d", int64(x))
		}
	}
	return fmt.Sprint(k)
}

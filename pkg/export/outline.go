// Package export renders the rows of a view model window outside the
// terminal: as a text outline, as JSON, or as an SVG/PNG snapshot.
package export

import (
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/treegrid/pkg/model"
	"github.com/vanderheijden86/treegrid/pkg/viewmodel"
)

// LabelFunc returns the display text of a row.
type LabelFunc func(viewmodel.Row) string

// KeyLabel labels rows by their key.
func KeyLabel(r viewmodel.Row) string { return r.Key }

// TreePrefix returns the connector glyphs drawn before a row label.
func TreePrefix(r viewmodel.Row) string {
	if r.Level <= 0 {
		return ""
	}
	var b strings.Builder
	for lvl := 1; lvl < r.Level; lvl++ {
		if r.Guides[lvl] {
			b.WriteString("│  ")
		} else {
			b.WriteString("   ")
		}
	}
	if r.Last {
		b.WriteString("└─ ")
	} else {
		b.WriteString("├─ ")
	}
	return b.String()
}

// ExpandGlyph shows whether a row can be expanded.
func ExpandGlyph(r viewmodel.Row) string {
	switch {
	case !r.HasChildren:
		return " "
	case r.Expanded:
		return "▾"
	default:
		return "▸"
	}
}

// CheckBox renders a check state as [ ], [x] or [-].
func CheckBox(s model.CheckState) string {
	switch s {
	case model.Checked:
		return "[x]"
	case model.Mixed:
		return "[-]"
	default:
		return "[ ]"
	}
}

// WriteOutline writes one line per row. Bold rows are marked with a
// trailing asterisk and frozen rows are separated by a rule.
func WriteOutline(w io.Writer, rows []viewmodel.Row, label LabelFunc) error {
	if label == nil {
		label = KeyLabel
	}
	sawFixed := false
	for _, r := range rows {
		if sawFixed && !r.Fixed {
			if _, err := fmt.Fprintln(w, strings.Repeat("─", 20)); err != nil {
				return err
			}
			sawFixed = false
		}
		if r.Fixed {
			sawFixed = true
		}
		mark := ""
		if r.Bold {
			mark = " *"
		}
		if _, err := fmt.Fprintf(w, "%s%s %s %s%s\n", TreePrefix(r), ExpandGlyph(r), CheckBox(r.State), label(r), mark); err != nil {
			return err
		}
	}
	return nil
}

// RowJSON is the JSON form of a row.
type RowJSON struct {
	Rowno       int    `json:"rowno"`
	Recno       int    `json:"recno"`
	Key         string `json:"key"`
	Label       string `json:"label,omitempty"`
	Level       int    `json:"level"`
	HasChildren bool   `json:"has_children"`
	Expanded    bool   `json:"expanded"`
	State       string `json:"state"`
	Bold        bool   `json:"bold,omitempty"`
	Fixed       bool   `json:"fixed,omitempty"`
}

// WriteJSON writes the rows as an indented JSON array.
func WriteJSON(w io.Writer, rows []viewmodel.Row, label LabelFunc) error {
	out := make([]RowJSON, 0, len(rows))
	for _, r := range rows {
		j := RowJSON{
			Rowno:       r.Rowno,
			Recno:       r.Recno,
			Key:         r.Key,
			Level:       r.Level,
			HasChildren: r.HasChildren,
			Expanded:    r.Expanded,
			State:       r.State.String(),
			Bold:        r.Bold,
			Fixed:       r.Fixed,
		}
		if label != nil {
			j.Label = label(r)
		}
		out = append(out, j)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

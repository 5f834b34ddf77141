package datasource

import (
	"fmt"

	"github.com/vanderheijden86/treegrid/pkg/model"
)

// Fields names the source columns that carry the record key, the parent
// key and the title. Columns named "expanded" and "selected" seed the
// record flags; every other column lands in Record.Fields.
type Fields struct {
	Key    string
	Parent string
	Title  string
	// Table is the SQLite table to read.
	Table string
}

// DefaultFields matches the default configuration.
func DefaultFields() Fields {
	return Fields{Key: "id", Parent: "parent_id", Title: "title", Table: "records"}
}

func (f Fields) withDefaults() Fields {
	d := DefaultFields()
	if f.Key == "" {
		f.Key = d.Key
	}
	if f.Parent == "" {
		f.Parent = d.Parent
	}
	if f.Title == "" {
		f.Title = d.Title
	}
	if f.Table == "" {
		f.Table = d.Table
	}
	return f
}

// toRecord maps one decoded row onto a record.
func (f Fields) toRecord(row map[string]any) (model.Record, error) {
	key, ok := row[f.Key]
	if !ok || key == nil || key == "" {
		return model.Record{}, fmt.Errorf("missing key column %q", f.Key)
	}
	rec := model.Record{Key: normalizeKey(key)}
	if p := row[f.Parent]; p != nil && p != "" {
		rec.Parent = normalizeKey(p)
	}
	if t, ok := row[f.Title]; ok && t != nil {
		rec.Title = fmt.Sprint(t)
	}
	if v, ok := row["expanded"]; ok {
		rec.Expanded = truthy(v)
	}
	if v, ok := row["selected"]; ok {
		s, err := model.ParseCheckState(v)
		if err != nil {
			return model.Record{}, err
		}
		rec.Selected = s
	}
	for name, v := range row {
		switch name {
		case f.Key, f.Parent, f.Title, "expanded", "selected":
			continue
		}
		if rec.Fields == nil {
			rec.Fields = make(map[string]any)
		}
		rec.Fields[name] = v
	}
	return rec, nil
}

// normalizeKey folds the numeric types different decoders produce so that
// a JSON 7, a YAML 7 and a SQLite 7 compare equal.
func normalizeKey(v any) any {
	switch x := v.(type) {
	case float64:
		if x == float64(int64(x)) {
			return int64(x)
		}
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case uint64:
		return int64(x)
	case []byte:
		return string(x)
	}
	return v
}

func truthy(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case int64:
		return x != 0
	case int:
		return x != 0
	case float64:
		return x != 0
	case string:
		return x == "1" || x == "true" || x == "yes"
	}
	return false
}

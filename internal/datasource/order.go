package datasource

import (
	"fmt"

	"github.com/vanderheijden86/treegrid/pkg/model"
)

// OrderIssue describes a record that would not attach to its parent when
// the tree is built.
type OrderIssue struct {
	Index  int
	Key    string
	Parent string
	// Later is true when the parent key exists but only after the record.
	Later bool
}

// String returns a one-line description.
func (o OrderIssue) String() string {
	if o.Later {
		return fmt.Sprintf("record %d (%s): parent %s appears later", o.Index, o.Key, o.Parent)
	}
	return fmt.Sprintf("record %d (%s): parent %s not found", o.Index, o.Key, o.Parent)
}

// CheckOrder reports records whose parent key does not precede them. Such
// records become roots in the view, which is rarely what the author of
// the file meant.
func CheckOrder(records []model.Record) []OrderIssue {
	seen := make(map[string]bool, len(records))
	all := make(map[string]bool, len(records))
	for _, r := range records {
		all[model.KeyString(r.Key)] = true
	}

	var issues []OrderIssue
	for i, r := range records {
		key := model.KeyString(r.Key)
		if r.Parent != nil {
			parent := model.KeyString(r.Parent)
			if parent != "" && !seen[parent] {
				issues = append(issues, OrderIssue{Index: i, Key: key, Parent: parent, Later: all[parent]})
			}
		}
		seen[key] = true
	}
	return issues
}

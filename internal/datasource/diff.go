package datasource

import (
	"fmt"
	"slices"
	"strings"

	"github.com/vanderheijden86/treegrid/pkg/model"
)

// RecordDiff summarizes how a reloaded record file differs from the one
// on screen.
type RecordDiff struct {
	// Added holds keys present only in the new records
	Added []string
	// Removed holds keys present only in the old records
	Removed []string
	// Reparented holds keys whose parent key changed
	Reparented []ParentChange
	// Retitled holds keys whose title changed
	Retitled []string
	// CountA and CountB are the old and new record counts
	CountA, CountB int
}

// ParentChange records a move to another parent.
type ParentChange struct {
	Key     string `json:"key"`
	ParentA string `json:"parent_a"`
	ParentB string `json:"parent_b"`
}

// HasChanges returns true if the two record sets differ
func (d RecordDiff) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0 || len(d.Reparented) > 0 || len(d.Retitled) > 0
}

// Summary returns a one-line description for status bars and logs.
func (d RecordDiff) Summary() string {
	if !d.HasChanges() {
		return fmt.Sprintf("no changes (%d records)", d.CountB)
	}
	var parts []string
	if n := len(d.Added); n > 0 {
		parts = append(parts, fmt.Sprintf("%d added", n))
	}
	if n := len(d.Removed); n > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", n))
	}
	if n := len(d.Reparented); n > 0 {
		parts = append(parts, fmt.Sprintf("%d moved", n))
	}
	if n := len(d.Retitled); n > 0 {
		parts = append(parts, fmt.Sprintf("%d retitled", n))
	}
	return strings.Join(parts, ", ")
}

// DiffRecords compares two record sets by key. For duplicate keys the
// last occurrence wins.
func DiffRecords(a, b []model.Record) RecordDiff {
	d := RecordDiff{CountA: len(a), CountB: len(b)}

	mapA := make(map[string]model.Record, len(a))
	for _, r := range a {
		mapA[model.KeyString(r.Key)] = r
	}
	mapB := make(map[string]model.Record, len(b))
	for _, r := range b {
		mapB[model.KeyString(r.Key)] = r
	}

	for key, rb := range mapB {
		ra, ok := mapA[key]
		if !ok {
			d.Added = append(d.Added, key)
			continue
		}
		pa, pb := model.KeyString(ra.Parent), model.KeyString(rb.Parent)
		if pa != pb {
			d.Reparented = append(d.Reparented, ParentChange{Key: key, ParentA: pa, ParentB: pb})
		}
		if ra.Title != rb.Title {
			d.Retitled = append(d.Retitled, key)
		}
	}
	for key := range mapA {
		if _, ok := mapB[key]; !ok {
			d.Removed = append(d.Removed, key)
		}
	}

	slices.Sort(d.Added)
	slices.Sort(d.Removed)
	slices.Sort(d.Retitled)
	slices.SortFunc(d.Reparented, func(x, y ParentChange) int { return strings.Compare(x.Key, y.Key) })
	return d
}

package viewmodel

import (
	"math"
	"testing"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/treegrid/pkg/dataset"
	"github.com/vanderheijden86/treegrid/pkg/model"
)

// drawRecords generates records whose parent, when set, is an earlier record.
func drawRecords(t *rapid.T) []model.Record {
	n := rapid.IntRange(0, 60).Draw(t, "n")
	recs := make([]model.Record, n)
	for i := range recs {
		recs[i] = model.Record{Key: i}
		if p := rapid.IntRange(-1, i-1).Draw(t, "parent"); p >= 0 {
			recs[i].Parent = p
		}
		recs[i].Expanded = rapid.Bool().Draw(t, "expanded")
	}
	return recs
}

func drawModel(t *rapid.T, recs []model.Record) *Model {
	tree := rapid.Bool().Draw(t, "tree")
	fixed := rapid.IntRange(0, max(0, min(3, len(recs)))).Draw(t, "fixed")
	level := rapid.IntRange(-1, 3).Draw(t, "level")
	count := rapid.IntRange(0, 12).Draw(t, "count")

	m, err := New(dataset.NewMemoryDataset(recs),
		WithTree(tree), WithFixedRows(fixed), WithExpandLevel(level), WithVisibleCount(count))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

// TestPropertyForestValidity verifies levels, last flags and links on random forests
func TestPropertyForestValidity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		recs := drawRecords(t)
		m, err := New(dataset.NewMemoryDataset(recs))
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		defer m.Destroy()

		if err := m.Validate(); err != nil {
			t.Fatalf("Validate: %v", err)
		}
		lastCount := func(siblings []int) int {
			n := 0
			for _, s := range siblings {
				if m.nodes[s].last {
					n++
				}
			}
			return n
		}
		if len(m.Roots()) > 0 && lastCount(m.Roots()) != 1 {
			t.Fatalf("expected one last root")
		}
		for recno := range recs {
			depth := 0
			for p := m.Parent(recno); p >= 0; p = m.Parent(p) {
				depth++
			}
			if m.Level(recno) != depth {
				t.Fatalf("record %d: level %d, depth %d", recno, m.Level(recno), depth)
			}
			if kids := m.Children(recno); len(kids) > 0 {
				if lastCount(kids) != 1 || !m.nodes[kids[len(kids)-1]].last {
					t.Fatalf("record %d: last flag not on final child", recno)
				}
			}
		}
	})
}

// TestPropertyRoundTrip verifies rowno -> recno -> rowno is the identity
func TestPropertyRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		recs := drawRecords(t)
		m := drawModel(t, recs)
		defer m.Destroy()

		for i := rapid.IntRange(0, 5).Draw(t, "collapses"); i > 0 && len(recs) > 0; i-- {
			if err := m.Collapse(rapid.IntRange(0, len(recs)-1).Draw(t, "collapse")); err != nil {
				t.Fatalf("Collapse: %v", err)
			}
		}

		for idx := 0; idx < m.Len(); idx++ {
			row := idx - m.FixedRows()
			recno := m.RownoToRecno(row)
			if recno < 0 {
				t.Fatalf("row %d maps to no record", row)
			}
			back, ok := m.RecnoToRowno(recno)
			if !ok || back != row {
				t.Fatalf("row %d -> recno %d -> row %d (ok=%v)", row, recno, back, ok)
			}
		}

		rows := m.Rows()
		if len(rows) != m.Len() {
			t.Fatalf("Rows returned %d rows, sequence has %d", len(rows), m.Len())
		}
		for i, r := range rows {
			if r.Rowno != i-m.FixedRows() {
				t.Fatalf("row %d numbered %d", i-m.FixedRows(), r.Rowno)
			}
		}
	})
}

// TestPropertyWindowBounds verifies the window start stays clamped for any input
func TestPropertyWindowBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := drawModel(t, drawRecords(t))
		defer m.Destroy()

		steps := rapid.IntRange(1, 20).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 3).Draw(t, "op") {
			case 0:
				m.SetVisibleStartRow(rapid.IntRange(math.MinInt32, math.MaxInt32).Draw(t, "start"))
			case 1:
				m.SetVisibleCount(rapid.IntRange(-5, 20).Draw(t, "count"))
			case 2:
				_ = m.NextPage()
			case 3:
				_ = m.PriorPage()
			}
			start := m.VisibleStartRow()
			if start < 0 || start > max(0, m.NeedShowRowCount()-m.VisibleCount()) {
				t.Fatalf("start %d outside [0, %d]", start, max(0, m.NeedShowRowCount()-m.VisibleCount()))
			}
			if m.NeedShowRowCount() >= m.VisibleCount() && start+m.VisibleCount() > m.NeedShowRowCount() {
				t.Fatalf("window [%d,+%d) exceeds %d rows", start, m.VisibleCount(), m.NeedShowRowCount())
			}
		}
	})
}

// TestPropertyCurrentConsistent verifies the cursor pair after random navigation and folding
func TestPropertyCurrentConsistent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		recs := drawRecords(t)
		m := drawModel(t, recs)
		defer m.Destroy()
		ds := m.Dataset()

		steps := rapid.IntRange(1, 25).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			var err error
			switch rapid.IntRange(0, 6).Draw(t, "op") {
			case 0:
				err = m.NextRow()
			case 1:
				err = m.PriorPage()
			case 2:
				err = m.SetCurrentRowno(rapid.IntRange(-10, 80).Draw(t, "row"), EnsureInWindow())
			case 3:
				err = m.CollapseCurrent()
			case 4:
				err = m.ExpandCurrent()
			case 5:
				if len(recs) > 0 {
					err = ds.SetRecno(rapid.IntRange(0, len(recs)-1).Draw(t, "recno"))
				}
			case 6:
				err = m.CollapseAll()
			}
			if err != nil {
				t.Fatalf("step %d: %v", i, err)
			}
			if len(recs) == 0 {
				if m.CurrentRecno() != -1 {
					t.Fatalf("expected -1 on empty store, got %d", m.CurrentRecno())
				}
				continue
			}
			if got := m.RownoToRecno(m.CurrentRowno()); got != m.CurrentRecno() || got < 0 {
				t.Fatalf("step %d: row %d maps to %d, cursor recno %d", i, m.CurrentRowno(), got, m.CurrentRecno())
			}
			if ds.Recno() != m.CurrentRecno() {
				t.Fatalf("step %d: store at %d, cursor at %d", i, ds.Recno(), m.CurrentRecno())
			}
		}
	})
}

// TestPropertyCheckReduction verifies that with correlated checks every parent
// holds the reduction of its children and is bold exactly when some
// descendant is checked
func TestPropertyCheckReduction(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		recs := drawRecords(t)
		if len(recs) == 0 {
			return
		}
		ds := dataset.NewMemoryDataset(recs)
		m, err := New(ds, WithExpandLevel(rapid.IntRange(-1, 2).Draw(t, "level")))
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		defer m.Destroy()

		state := func() model.CheckState {
			return rapid.SampledFrom([]model.CheckState{model.Unchecked, model.Checked}).Draw(t, "state")
		}
		recno := func() int { return rapid.IntRange(0, len(recs)-1).Draw(t, "recno") }

		var checkedBelow func(recno int) bool
		checkedBelow = func(recno int) bool {
			for _, c := range m.Children(recno) {
				if m.CheckState(c) == model.Checked || checkedBelow(c) {
					return true
				}
			}
			return false
		}

		steps := rapid.IntRange(1, 30).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			var err error
			switch rapid.IntRange(0, 6).Draw(t, "op") {
			case 0:
				err = m.CheckNode(state(), true, false)
			case 1:
				err = m.CheckChildNodes(state(), true)
			case 2:
				err = m.ToggleCheck(true)
			case 3:
				err = m.Expand(recno())
			case 4:
				err = m.Collapse(recno())
			case 5:
				err = ds.SetRecno(recno())
			case 6:
				err = m.CheckAll(state())
			}
			if err != nil {
				t.Fatalf("step %d: %v", i, err)
			}

			for r := range recs {
				kids := m.Children(r)
				if len(kids) > 0 {
					states := make([]model.CheckState, len(kids))
					for j, c := range kids {
						states[j] = m.CheckState(c)
					}
					if want := model.Reduce(states...); m.CheckState(r) != want {
						t.Fatalf("step %d: record %d is %s, children reduce to %s", i, r, m.CheckState(r), want)
					}
				}
				if want := checkedBelow(r); m.IsBold(r) != want {
					t.Fatalf("step %d: record %d bold=%v, checked descendant=%v", i, r, m.IsBold(r), want)
				}
			}
			stored := ds.Records()
			for r := range stored {
				if stored[r].Selected != m.CheckState(r) {
					t.Fatalf("step %d: record %d store %s, cache %s", i, r, stored[r].Selected, m.CheckState(r))
				}
			}
		}
	})
}

package viewmodel

import (
	"testing"

	"github.com/vanderheijden86/treegrid/pkg/dataset"
	"github.com/vanderheijden86/treegrid/pkg/testutil"
)

// TestPositionFlatFixedRows verifies frozen rows take negative rownos in flat mode
func TestPositionFlatFixedRows(t *testing.T) {
	m, _ := newTestModel(t, flatRecords(6), WithTree(false), WithFixedRows(2))

	if m.NeedShowRowCount() != 4 {
		t.Fatalf("expected 4 scrollable rows, got %d", m.NeedShowRowCount())
	}
	tests := []struct {
		rowno, recno int
	}{
		{-2, 0},
		{-1, 1},
		{0, 2},
		{3, 5},
		{4, -1},
		{-3, -1},
	}
	for _, tt := range tests {
		if got := m.RownoToRecno(tt.rowno); got != tt.recno {
			t.Errorf("RownoToRecno(%d) = %d, want %d", tt.rowno, got, tt.recno)
		}
	}

	if row, ok := m.RecnoToRowno(0); !ok || row != -2 {
		t.Errorf("RecnoToRowno(0) = %d,%v, want -2,true", row, ok)
	}
	if _, ok := m.RecnoToRowno(6); ok {
		t.Error("expected out-of-range recno to be not found")
	}
}

// TestPositionTreeFixedRows verifies frozen rows in tree mode come from the visible sequence
func TestPositionTreeFixedRows(t *testing.T) {
	m, _ := newTestModel(t, scenarioRecords(), WithFixedRows(1))

	// visible sequence is recnos 0,1,3,2
	if got := m.RownoToRecno(-1); got != 0 {
		t.Errorf("expected frozen row to be recno 0, got %d", got)
	}
	if got := m.RownoToRecno(1); got != 3 {
		t.Errorf("expected row 1 to be recno 3, got %d", got)
	}
	if row, ok := m.RecnoToRowno(2); !ok || row != 2 {
		t.Errorf("RecnoToRowno(2) = %d,%v, want 2,true", row, ok)
	}
}

// TestPositionHiddenRecord verifies collapsed records have no row
func TestPositionHiddenRecord(t *testing.T) {
	m, _ := newTestModel(t, scenarioRecords())

	if err := m.Collapse(1); err != nil {
		t.Fatalf("Collapse: %v", err)
	}
	if _, ok := m.RecnoToRowno(3); ok {
		t.Error("expected record 4 to be hidden")
	}
	if m.IsVisible(3) {
		t.Error("expected IsVisible false")
	}
}

// TestSetCurrentRownoClamps verifies out-of-range rows clamp to the valid range
func TestSetCurrentRownoClamps(t *testing.T) {
	m, ds := newTestModel(t, flatRecords(5), WithTree(false), WithFixedRows(1))

	if err := m.SetCurrentRowno(99); err != nil {
		t.Fatalf("SetCurrentRowno: %v", err)
	}
	if m.CurrentRowno() != 3 || m.CurrentRecno() != 4 {
		t.Errorf("expected (3,4), got (%d,%d)", m.CurrentRowno(), m.CurrentRecno())
	}
	if ds.Recno() != 4 {
		t.Errorf("expected store on recno 4, got %d", ds.Recno())
	}

	if err := m.SetCurrentRowno(-99); err != nil {
		t.Fatalf("SetCurrentRowno: %v", err)
	}
	if m.CurrentRowno() != -1 || m.CurrentRecno() != 0 {
		t.Errorf("expected (-1,0), got (%d,%d)", m.CurrentRowno(), m.CurrentRecno())
	}
}

// TestSetCurrentRownoNotifications verifies notify and suppress behaviour
func TestSetCurrentRownoNotifications(t *testing.T) {
	m, ds := newTestModel(t, flatRecords(10), WithTree(false), WithVisibleCount(4))

	type move struct{ prev, row int }
	var moves []move
	m.OnCurrentRownoChanged(func(prev, row int) { moves = append(moves, move{prev, row}) })
	var storeEvents int
	ds.Subscribe(func(dataset.Event) { storeEvents++ })

	if err := m.SetCurrentRowno(2); err != nil {
		t.Fatal(err)
	}
	if err := m.SetCurrentRowno(6, SuppressNotify()); err != nil {
		t.Fatal(err)
	}
	if err := m.SetCurrentRowno(8, EnsureInWindow()); err != nil {
		t.Fatal(err)
	}

	if len(moves) != 2 || moves[0] != (move{0, 2}) || moves[1] != (move{6, 8}) {
		t.Errorf("unexpected moves %v", moves)
	}
	if storeEvents != 2 {
		t.Errorf("expected 2 store events (silent move skipped), got %d", storeEvents)
	}
	if m.VisibleStartRow() != 5 {
		t.Errorf("expected window scrolled to 5, got %d", m.VisibleStartRow())
	}
}

// TestCurrentInvariant verifies the cursor pair stays consistent after random operations
func TestCurrentInvariant(t *testing.T) {
	recs := testutil.NewDefault().Random(120, 4)
	m, _ := newTestModel(t, recs, WithVisibleCount(7), WithFixedRows(1))

	ops := []func() error{
		m.NextRow,
		m.NextPage,
		func() error { return m.Collapse(m.CurrentRecno()) },
		m.PriorRow,
		m.CollapseAll,
		m.NextRow,
		m.ExpandAll,
		m.NextPage,
		m.NextPage,
		m.PriorPage,
		m.CollapseCurrent,
		m.ExpandCurrent,
		m.Last,
	}
	for i, op := range ops {
		if err := op(); err != nil {
			t.Fatalf("op %d: %v", i, err)
		}
		if got := m.RownoToRecno(m.CurrentRowno()); got != m.CurrentRecno() {
			t.Fatalf("op %d: row %d maps to %d, current recno %d", i, m.CurrentRowno(), got, m.CurrentRecno())
		}
		if m.Dataset().Recno() != m.CurrentRecno() {
			t.Fatalf("op %d: store at %d, cursor at %d", i, m.Dataset().Recno(), m.CurrentRecno())
		}
	}
}

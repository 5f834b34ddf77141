package viewmodel

import (
	"errors"
	"testing"

	"github.com/vanderheijden86/treegrid/pkg/dataset"
	"github.com/vanderheijden86/treegrid/pkg/model"
	"github.com/vanderheijden86/treegrid/pkg/testutil"
)

// familyRecords is g > p > (c1, c2, c3), plus a sibling leaf s under g.
func familyRecords() []model.Record {
	return []model.Record{
		testutil.Rec("g", nil),
		testutil.Rec("p", "g"),
		testutil.Rec("c1", "p"),
		testutil.Rec("c2", "p"),
		testutil.Rec("c3", "p"),
		testutil.Rec("s", "g"),
	}
}

func checkAt(t *testing.T, m *Model, ds *dataset.MemoryDataset, recno int, state model.CheckState, correlate, onlyChildren bool) {
	t.Helper()
	moveTo(t, ds, recno)
	if err := m.CheckNode(state, correlate, onlyChildren); err != nil {
		t.Fatalf("CheckNode(%d): %v", recno, err)
	}
}

// TestCheckTriStateBubbling verifies the parent reduces over its children
func TestCheckTriStateBubbling(t *testing.T) {
	recs := []model.Record{
		testutil.Rec("p", nil),
		{Key: "a", Parent: "p", Selected: model.Checked},
		{Key: "b", Parent: "p", Selected: model.Checked},
		testutil.Rec("c", "p"),
	}
	m, ds := newTestModel(t, recs)

	checkAt(t, m, ds, 3, model.Unchecked, true, false)
	if got := m.CheckState(0); got != model.Mixed {
		t.Errorf("expected mixed parent, got %v", got)
	}

	checkAt(t, m, ds, 3, model.Checked, true, false)
	if got := m.CheckState(0); got != model.Checked {
		t.Errorf("expected checked parent, got %v", got)
	}

	for _, recno := range []int{1, 2, 3} {
		checkAt(t, m, ds, recno, model.Unchecked, true, false)
	}
	if got := m.CheckState(0); got != model.Unchecked {
		t.Errorf("expected unchecked parent, got %v", got)
	}
	if m.IsBold(0) {
		t.Error("expected parent not bold once every child is unchecked")
	}

	rec, _ := ds.RecordAt(0)
	if rec.Selected != model.Unchecked {
		t.Errorf("expected persisted parent state unchecked, got %v", rec.Selected)
	}
}

// TestCheckCascade verifies a checked parent checks its subtree and bubbles up
func TestCheckCascade(t *testing.T) {
	m, ds := newTestModel(t, familyRecords())

	checkAt(t, m, ds, 1, model.Checked, true, false)

	for _, recno := range []int{1, 2, 3, 4} {
		if m.CheckState(recno) != model.Checked {
			t.Errorf("record %d: expected checked, got %v", recno, m.CheckState(recno))
		}
		rec, _ := ds.RecordAt(recno)
		if rec.Selected != model.Checked {
			t.Errorf("record %d: expected persisted checked, got %v", recno, rec.Selected)
		}
	}
	if m.CheckState(0) != model.Mixed {
		t.Errorf("expected g mixed (s unchecked), got %v", m.CheckState(0))
	}
	if !m.IsBold(0) || !m.IsBold(1) {
		t.Error("expected g and p bold")
	}
	if ds.Recno() != 1 {
		t.Errorf("expected store back on recno 1, got %d", ds.Recno())
	}
}

// TestCheckOnlyChildren verifies ancestors keep their state but gain bold
func TestCheckOnlyChildren(t *testing.T) {
	m, ds := newTestModel(t, familyRecords())

	checkAt(t, m, ds, 1, model.Checked, true, true)

	if m.CheckState(2) != model.Checked {
		t.Error("expected cascade to children")
	}
	if m.CheckState(0) != model.Unchecked {
		t.Errorf("expected g untouched, got %v", m.CheckState(0))
	}
	if !m.IsBold(0) {
		t.Error("expected g bold")
	}
}

// TestCheckWithoutCorrelate verifies only the node changes
func TestCheckWithoutCorrelate(t *testing.T) {
	m, ds := newTestModel(t, familyRecords())

	checkAt(t, m, ds, 1, model.Checked, false, false)

	if m.CheckState(1) != model.Checked {
		t.Error("expected p checked")
	}
	if m.CheckState(2) != model.Unchecked {
		t.Error("expected children untouched")
	}
	if m.CheckState(0) != model.Unchecked {
		t.Error("expected g untouched")
	}
	if !m.IsBold(0) {
		t.Error("expected g bold from its checked child")
	}
	if m.IsBold(1) {
		t.Error("expected p not bold, none of its children is checked")
	}
}

// TestCheckLeafBubbles verifies a leaf check still reaches the ancestors
func TestCheckLeafBubbles(t *testing.T) {
	m, ds := newTestModel(t, familyRecords())

	var notified int
	m.OnCheckStateChanged(func() { notified++ })

	checkAt(t, m, ds, 5, model.Checked, true, false)

	if m.CheckState(0) != model.Mixed {
		t.Errorf("expected g mixed, got %v", m.CheckState(0))
	}
	if notified != 1 {
		t.Errorf("expected one notification, got %d", notified)
	}
}

// TestCheckBoldIdempotence verifies check then uncheck restores every bold flag
func TestCheckBoldIdempotence(t *testing.T) {
	recs := testutil.NewDefault().Random(150, 6)
	m, ds := newTestModel(t, recs)

	before := make([]bool, len(recs))
	for i := range recs {
		before[i] = m.IsBold(i)
	}
	for leaf := range recs {
		if m.HasChildren(leaf) {
			continue
		}
		checkAt(t, m, ds, leaf, model.Checked, true, false)
		checkAt(t, m, ds, leaf, model.Unchecked, true, false)
		for i := range recs {
			if m.IsBold(i) != before[i] {
				t.Fatalf("leaf %d: bold of %d changed from %v", leaf, i, before[i])
			}
		}
	}
}

// TestCheckChildNodes verifies the select all/none variant
func TestCheckChildNodes(t *testing.T) {
	m, ds := newTestModel(t, familyRecords())

	var notified int
	m.OnCheckStateChanged(func() { notified++ })

	moveTo(t, ds, 2)
	if err := m.CheckChildNodes(model.Checked, true); err != nil {
		t.Fatal(err)
	}
	if notified != 0 || m.CheckState(2) != model.Unchecked {
		t.Error("expected leaf call to be a no-op")
	}

	moveTo(t, ds, 1)
	if err := m.CheckChildNodes(model.Checked, false); err != nil {
		t.Fatal(err)
	}
	if m.CheckState(1) != model.Checked || m.CheckState(4) != model.Checked {
		t.Error("expected p and its children checked")
	}
	if m.CheckState(0) != model.Unchecked {
		t.Error("expected g state untouched without correlate")
	}

	if err := m.CheckChildNodes(model.Unchecked, true); err != nil {
		t.Fatal(err)
	}
	if m.CheckState(0) != model.Unchecked || m.IsBold(0) {
		t.Errorf("expected g unchecked and not bold, got %v bold=%v", m.CheckState(0), m.IsBold(0))
	}
}

// TestCheckRejectsInvalidState verifies mixed cannot be set directly
func TestCheckRejectsInvalidState(t *testing.T) {
	m, _ := newTestModel(t, familyRecords())
	if err := m.CheckNode(model.Mixed, true, false); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
}

// TestCheckPropagatesStoreErrors verifies a rejected write surfaces to the caller
func TestCheckPropagatesStoreErrors(t *testing.T) {
	locked := errors.New("record locked")
	ds := dataset.NewMemoryDataset(familyRecords(), dataset.WithValidator(func(field string, rec model.Record, _ any) error {
		if field == "selected" && rec.Key == "c2" {
			return locked
		}
		return nil
	}))
	m, err := New(ds)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Destroy()

	moveTo(t, ds, 1)
	if err := m.CheckNode(model.Checked, true, false); !errors.Is(err, locked) {
		t.Errorf("expected locked error, got %v", err)
	}
	if ds.Recno() != 1 {
		t.Errorf("expected store restored to recno 1, got %d", ds.Recno())
	}
}

// TestCheckFlatMode verifies flat mode writes the current record only
func TestCheckFlatMode(t *testing.T) {
	m, ds := newTestModel(t, familyRecords(), WithTree(false))

	checkAt(t, m, ds, 1, model.Checked, true, false)

	if m.CheckState(1) != model.Checked || m.CheckState(2) != model.Unchecked {
		t.Error("expected only record 1 checked")
	}
}

// TestCheckAllAndToggle verifies bulk checking and toggling
func TestCheckAllAndToggle(t *testing.T) {
	m, ds := newTestModel(t, familyRecords())

	if err := m.CheckAll(model.Checked); err != nil {
		t.Fatal(err)
	}
	if !m.AllChecked() || !m.IsBold(0) || m.IsBold(2) {
		t.Error("expected every record checked and only parents bold")
	}

	moveTo(t, ds, 5)
	if err := m.ToggleCheck(true); err != nil {
		t.Fatal(err)
	}
	if m.CheckState(5) != model.Unchecked || m.CheckState(0) != model.Mixed {
		t.Errorf("expected s unchecked and g mixed, got %v / %v", m.CheckState(5), m.CheckState(0))
	}
	if m.AllChecked() {
		t.Error("expected AllChecked false")
	}
}

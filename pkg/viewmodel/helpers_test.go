package viewmodel

import (
	"testing"

	"github.com/vanderheijden86/treegrid/pkg/dataset"
	"github.com/vanderheijden86/treegrid/pkg/model"
	"github.com/vanderheijden86/treegrid/pkg/testutil"
)

func newTestModel(t testing.TB, recs []model.Record, opts ...Option) (*Model, *dataset.MemoryDataset) {
	t.Helper()
	ds := dataset.NewMemoryDataset(recs)
	m, err := New(ds, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(m.Destroy)
	return m, ds
}

// visibleKeys lists the keys of every visible entry, frozen rows included.
func visibleKeys(m *Model) []string {
	var keys []string
	for r := -m.FixedRows(); ; r++ {
		row, ok := m.RowAt(r)
		if !ok {
			if r >= 0 {
				break
			}
			continue
		}
		keys = append(keys, row.Key)
	}
	return keys
}

// scenarioRecords is the four-record hierarchy 1 > (2 > 4), 3 stored as
// 1, 2, 3, 4.
func scenarioRecords() []model.Record {
	return []model.Record{
		testutil.Rec(1, nil),
		testutil.Rec(2, 1),
		testutil.Rec(3, 1),
		testutil.Rec(4, 2),
	}
}

func flatRecords(n int) []model.Record {
	return testutil.NewDefault().Flat(n)
}

func recnoOfKey(t testing.TB, ds *dataset.MemoryDataset, key string) int {
	t.Helper()
	for i, r := range ds.Records() {
		if model.KeyString(r.Key) == key {
			return i
		}
	}
	t.Fatalf("no record with key %s", key)
	return -1
}

func moveTo(t testing.TB, ds *dataset.MemoryDataset, recno int) {
	t.Helper()
	if err := ds.SetRecno(recno); err != nil {
		t.Fatalf("SetRecno(%d): %v", recno, err)
	}
}

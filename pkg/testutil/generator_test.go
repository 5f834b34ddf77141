package testutil

import (
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/treegrid/pkg/model"
)

func TestChain(t *testing.T) {
	gen := NewDefault()
	recs := gen.Chain(5)

	AssertRecordCount(t, recs, 5)
	AssertNoDuplicateKeys(t, recs)
	AssertPreOrder(t, recs)
	if recs[0].Parent != nil {
		t.Errorf("expected chain head to be a root, got parent %v", recs[0].Parent)
	}
	for i := 1; i < len(recs); i++ {
		if recs[i].Parent != recs[i-1].Key {
			t.Errorf("record %d: expected parent %v, got %v", i, recs[i-1].Key, recs[i].Parent)
		}
	}
}

func TestForestSize(t *testing.T) {
	tests := []struct {
		name                  string
		roots, depth, breadth int
		want                  int
	}{
		{"single", 1, 0, 3, 1},
		{"binary_2", 1, 2, 2, 7},
		{"two_roots", 2, 1, 3, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := NewDefault().Forest(tt.roots, tt.depth, tt.breadth)
			AssertRecordCount(t, recs, tt.want)
			AssertPreOrder(t, recs)
		})
	}
}

func TestRandomIsPreOrderAndDeterministic(t *testing.T) {
	a := NewDefault().Random(200, 6)
	b := NewDefault().Random(200, 6)

	AssertPreOrder(t, a)
	AssertKeys(t, Keys(a), Keys(b)...)
	for i := range a {
		if a[i].Parent != b[i].Parent {
			t.Fatalf("record %d: same seed produced different parents", i)
		}
	}
}

func TestCheckedRatio(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CheckedRatio = 1
	for _, r := range New(cfg).Flat(10) {
		if r.Selected != model.Checked {
			t.Fatalf("expected every record checked, got %v", r.Selected)
		}
	}
}

func TestToJSONL(t *testing.T) {
	recs := []model.Record{Rec("a", nil), Rec("b", "a")}
	lines := strings.Split(strings.TrimSpace(ToJSONL(recs)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	var back model.Record
	if err := json.Unmarshal([]byte(lines[1]), &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Key != "b" || back.Parent != "a" {
		t.Errorf("expected b under a, got %v under %v", back.Key, back.Parent)
	}
}

package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/treegrid/pkg/model"
)

// AssertRecordCount verifies the expected number of records.
func AssertRecordCount(t *testing.T, records []model.Record, expected int) {
	t.Helper()
	if len(records) != expected {
		t.Errorf("expected %d records, got %d", expected, len(records))
	}
}

// AssertNoDuplicateKeys verifies all record keys are unique.
func AssertNoDuplicateKeys(t *testing.T, records []model.Record) {
	t.Helper()
	seen := make(map[string]bool)
	for _, r := range records {
		k := model.KeyString(r.Key)
		if seen[k] {
			t.Errorf("duplicate record key: %s", k)
		}
		seen[k] = true
	}
}

// AssertPreOrder verifies every parent key is on the ancestor path of the
// record before it, i.e. the records are in depth-first pre-order.
func AssertPreOrder(t *testing.T, records []model.Record) {
	t.Helper()
	var path []string
	for i, r := range records {
		if r.Parent == nil {
			path = append(path[:0], model.KeyString(r.Key))
			continue
		}
		pk := model.KeyString(r.Parent)
		found := -1
		for j := len(path) - 1; j >= 0; j-- {
			if path[j] == pk {
				found = j
				break
			}
		}
		if found < 0 {
			t.Errorf("record %d (%v): parent %s is not an open ancestor", i, r.Key, pk)
			return
		}
		path = append(path[:found+1], model.KeyString(r.Key))
	}
}

// AssertKeys compares key sequences.
func AssertKeys(t *testing.T, got []string, want ...string) {
	t.Helper()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("expected keys %v, got %v", want, got)
	}
}

// Keys returns the string form of every record key.
func Keys(records []model.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = model.KeyString(r.Key)
	}
	return out
}

// AssertJSONEqual compares two values after JSON encoding.
func AssertJSONEqual(t *testing.T, expected, actual any) {
	t.Helper()

	expectedJSON, err := json.Marshal(expected)
	if err != nil {
		t.Fatalf("failed to marshal expected: %v", err)
	}

	actualJSON, err := json.Marshal(actual)
	if err != nil {
		t.Fatalf("failed to marshal actual: %v", err)
	}

	if string(expectedJSON) != string(actualJSON) {
		t.Errorf("JSON mismatch:\nexpected: %s\nactual:   %s", expectedJSON, actualJSON)
	}
}

// GoldenFile handles golden file comparisons.
type GoldenFile struct {
	t      *testing.T
	dir    string
	name   string
	update bool
}

// NewGoldenFile creates a golden file helper.
// If GENERATE_GOLDEN env var is set, golden files will be updated.
func NewGoldenFile(t *testing.T, dir, name string) *GoldenFile {
	t.Helper()
	return &GoldenFile{
		t:      t,
		dir:    dir,
		name:   name,
		update: os.Getenv("GENERATE_GOLDEN") != "",
	}
}

// Path returns the full path to the golden file.
func (g *GoldenFile) Path() string {
	return filepath.Join(g.dir, g.name)
}

// Assert compares actual content against the golden file.
// If GENERATE_GOLDEN is set, updates the golden file instead.
func (g *GoldenFile) Assert(actual string) {
	g.t.Helper()

	path := g.Path()
	if g.update {
		if err := os.MkdirAll(g.dir, 0o755); err != nil {
			g.t.Fatalf("failed to create golden dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(actual), 0o644); err != nil {
			g.t.Fatalf("failed to write golden file: %v", err)
		}
		g.t.Logf("updated golden file: %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			g.t.Fatalf("golden file does not exist: %s\nRun with GENERATE_GOLDEN=1 to create it", path)
		}
		g.t.Fatalf("failed to read golden file: %v", err)
	}

	if string(expected) == actual {
		return
	}
	expectedLines := strings.Split(string(expected), "\n")
	actualLines := strings.Split(actual, "\n")
	for i := 0; i < len(expectedLines) || i < len(actualLines); i++ {
		var expLine, actLine string
		if i < len(expectedLines) {
			expLine = expectedLines[i]
		}
		if i < len(actualLines) {
			actLine = actualLines[i]
		}
		if expLine != actLine {
			g.t.Errorf("golden file mismatch at line %d:\nexpected: %s\nactual:   %s", i+1, expLine, actLine)
			return
		}
	}
	g.t.Errorf("golden file mismatch (length differs)")
}

// WriteRecordsFile writes records as JSONL to path, creating parent dirs.
func WriteRecordsFile(t *testing.T, path string, records []model.Record) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(ToJSONL(records)), 0o644); err != nil {
		t.Fatalf("failed to write records file: %v", err)
	}
	return path
}

//go:build ignore

// generate_testdata.go creates record files for benchmarking the grid.
// Usage: go run scripts/generate_testdata.go
//
// Creates:
//
//	testdata/benchmark/small.jsonl   (100 records)
//	testdata/benchmark/medium.jsonl  (1000 records)
//	testdata/benchmark/large.jsonl   (10000 records)
//	testdata/benchmark/huge.jsonl    (100000 records)
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/treegrid/pkg/model"
	"github.com/vanderheijden86/treegrid/pkg/testutil"
)

type datasetSpec struct {
	name     string
	size     int
	maxDepth int
}

var datasets = []datasetSpec{
	{"small", 100, 3},
	{"medium", 1000, 5},
	{"large", 10000, 8},
	{"huge", 100000, 12},
}

var titles = []string{
	"Quarterly report",
	"Invoices",
	"Customer accounts",
	"Inventory",
	"Shipping labels",
	"Payroll",
	"Support tickets",
	"Release notes",
}

func main() {
	outputDir := "testdata/benchmark"
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	for _, ds := range datasets {
		fmt.Printf("Generating %s dataset (%d records)...\n", ds.name, ds.size)

		gen := testutil.New(testutil.GeneratorConfig{
			Seed:          int64(ds.size), // Reproducible per-size
			KeyPrefix:     "B",
			CheckedRatio:  0.1,
			ExpandedRatio: 0.3,
		})
		recs := gen.Random(ds.size, ds.maxDepth)

		outputPath := filepath.Join(outputDir, ds.name+".jsonl")
		n, err := writeJSONL(outputPath, recs)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", outputPath, err)
			os.Exit(1)
		}
		fmt.Printf("  Written %s (%d bytes)\n", outputPath, n)
	}

	fmt.Println("\nDone! Test datasets created in", outputDir)
}

// writeJSONL writes the records with the default column names.
func writeJSONL(path string, recs []model.Record) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	total := 0
	for i, r := range recs {
		row := map[string]any{
			"id":    model.KeyString(r.Key),
			"title": fmt.Sprintf("%s #%d", titles[i%len(titles)], i),
		}
		if r.Parent != nil {
			row["parent_id"] = model.KeyString(r.Parent)
		}
		if r.Expanded {
			row["expanded"] = true
		}
		if r.Selected != model.Unchecked {
			row["selected"] = r.Selected.String()
		}
		data, err := json.Marshal(row)
		if err != nil {
			return total, err
		}
		n, err := w.Write(append(data, '\n'))
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, w.Flush()
}

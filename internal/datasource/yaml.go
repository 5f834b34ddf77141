package datasource

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/treegrid/pkg/model"
)

// LoadYAML reads a YAML document holding a list of mappings.
func LoadYAML(path string, opts ParseOptions) ([]model.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read records file: %w", err)
	}
	return ParseYAML(data, opts)
}

// ParseYAML decodes a list of mappings. Entries without a key are skipped
// with a warning.
func ParseYAML(data []byte, opts ParseOptions) ([]model.Record, error) {
	fields := opts.Fields.withDefaults()

	var rows []map[string]any
	if err := yaml.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse records: %w", err)
	}

	records := make([]model.Record, 0, len(rows))
	for i, row := range rows {
		rec, err := fields.toRecord(row)
		if err != nil {
			opts.warn("skipping entry %d: %v", i+1, err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Package datasource loads hierarchical records from files for treegrid.
// It detects the source type from the file extension and maps source
// columns onto model.Record through a Fields mapping.
package datasource

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SourceType identifies the type of data source
type SourceType string

const (
	// SourceTypeJSONL is one JSON object per line (.jsonl, .ndjson)
	SourceTypeJSONL SourceType = "jsonl"
	// SourceTypeYAML is a YAML list of mappings (.yaml, .yml)
	SourceTypeYAML SourceType = "yaml"
	// SourceTypeSQLite is a SQLite database table (.db, .sqlite, .sqlite3)
	SourceTypeSQLite SourceType = "sqlite"
)

// ErrUnknownType is returned for files whose extension maps to no reader.
var ErrUnknownType = errors.New("unknown source type")

// DataSource describes one record file.
type DataSource struct {
	// Type identifies the source type
	Type SourceType `json:"type"`
	// Path is the path to the source file
	Path string `json:"path"`
	// ModTime is the last modification time of the source
	ModTime time.Time `json:"mod_time"`
	// Size is the file size in bytes
	Size int64 `json:"size"`
}

// String returns a human-readable description of the source
func (s DataSource) String() string {
	return fmt.Sprintf("%s (%s, mod=%s, %d bytes)", s.Path, s.Type, s.ModTime.Format(time.RFC3339), s.Size)
}

// DetectSource stats path and infers the source type from its extension.
func DetectSource(path string) (DataSource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return DataSource{}, fmt.Errorf("stat source: %w", err)
	}
	if info.IsDir() {
		return DataSource{}, fmt.Errorf("source %s is a directory", path)
	}

	src := DataSource{Path: path, ModTime: info.ModTime(), Size: info.Size()}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		src.Type = SourceTypeJSONL
	case ".yaml", ".yml":
		src.Type = SourceTypeYAML
	case ".db", ".sqlite", ".sqlite3":
		src.Type = SourceTypeSQLite
	default:
		return DataSource{}, fmt.Errorf("%s: %w", path, ErrUnknownType)
	}
	return src, nil
}

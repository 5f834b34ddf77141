package datasource

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/treegrid/pkg/model"
)

// DefaultMaxLineSize is the longest JSONL line read at once (10MB).
const DefaultMaxLineSize = 1024 * 1024 * 10

// ParseOptions configures the record readers.
type ParseOptions struct {
	// Fields maps source columns onto records.
	Fields Fields

	// WarningHandler is called for skipped lines and rows. If nil, warnings
	// are dropped.
	WarningHandler func(string)

	// MaxLineSize bounds a JSONL line. Longer lines are skipped with a
	// warning. If 0, DefaultMaxLineSize is used.
	MaxLineSize int
}

func (o ParseOptions) warn(format string, args ...any) {
	if o.WarningHandler != nil {
		o.WarningHandler(fmt.Sprintf(format, args...))
	}
}

// LoadJSONL reads a JSONL file of records.
func LoadJSONL(path string, opts ParseOptions) ([]model.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open records file: %w", err)
	}
	defer f.Close()
	return ParseJSONL(f, opts)
}

// ParseJSONL reads one JSON object per line. Blank lines are ignored;
// malformed lines and lines without a key are skipped with a warning.
func ParseJSONL(r io.Reader, opts ParseOptions) ([]model.Record, error) {
	fields := opts.Fields.withDefaults()
	maxSize := opts.MaxLineSize
	if maxSize <= 0 {
		maxSize = DefaultMaxLineSize
	}
	reader := bufio.NewReaderSize(r, maxSize)

	var records []model.Record
	lineNum := 0
	for {
		lineNum++
		line, isPrefix, err := reader.ReadLine()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("read records stream at line %d: %w", lineNum, err)
		}

		if isPrefix {
			opts.warn("skipping line %d: line too long (exceeds %d bytes)", lineNum, maxSize)
			for isPrefix {
				_, isPrefix, err = reader.ReadLine()
				if err == io.EOF {
					break
				}
				if err != nil {
					return nil, fmt.Errorf("skip long line at line %d: %w", lineNum, err)
				}
			}
			continue
		}

		if lineNum == 1 {
			line = stripBOM(line)
		}
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		var row map[string]any
		if err := json.Unmarshal(line, &row); err != nil {
			opts.warn("skipping malformed JSON on line %d: %v", lineNum, err)
			continue
		}
		rec, err := fields.toRecord(row)
		if err != nil {
			opts.warn("skipping line %d: %v", lineNum, err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func stripBOM(b []byte) []byte {
	return bytes.TrimPrefix(b, []byte{0xEF, 0xBB, 0xBF})
}

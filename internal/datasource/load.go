package datasource

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/treegrid/pkg/debug"
	"github.com/vanderheijden86/treegrid/pkg/metrics"
	"github.com/vanderheijden86/treegrid/pkg/model"
)

// maxConcurrentLoads bounds LoadAll fan-out.
const maxConcurrentLoads = 8

// Load reads every record from source.
func Load(ctx context.Context, source DataSource, opts ParseOptions) ([]model.Record, error) {
	defer metrics.Timer(metrics.SourceLoad)()
	log := debug.Component("datasource")

	var (
		records []model.Record
		err     error
	)
	switch source.Type {
	case SourceTypeJSONL:
		records, err = LoadJSONL(source.Path, opts)
	case SourceTypeYAML:
		records, err = LoadYAML(source.Path, opts)
	case SourceTypeSQLite:
		var reader *SQLiteReader
		reader, err = NewSQLiteReader(source)
		if err != nil {
			return nil, err
		}
		defer reader.Close()
		records, err = reader.LoadRecords(ctx, opts)
	default:
		return nil, fmt.Errorf("%s: %w", source.Type, ErrUnknownType)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", source.Path, err)
	}

	log.Debug().Str("path", source.Path).Str("type", string(source.Type)).Int("records", len(records)).Msg("loaded source")
	return records, nil
}

// LoadPath detects the source type of path and loads it.
func LoadPath(ctx context.Context, path string, opts ParseOptions) ([]model.Record, error) {
	src, err := DetectSource(path)
	if err != nil {
		return nil, err
	}
	return Load(ctx, src, opts)
}

// LoadAll loads several files concurrently and concatenates their records
// in argument order. The first failure cancels the remaining loads.
func LoadAll(ctx context.Context, paths []string, opts ParseOptions) ([]model.Record, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	results := make([][]model.Record, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			recs, err := LoadPath(ctx, path, opts)
			if err != nil {
				return err
			}
			results[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	out := make([]model.Record, 0, total)
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

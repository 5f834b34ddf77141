// Package testutil provides record fixture generators and assertions shared
// by the package tests. All generators produce deterministic output for
// reproducible tests.
//
// Generated records are in depth-first pre-order, so every parent precedes
// its children as the view model requires.
package testutil

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/treegrid/pkg/model"
)

// GeneratorConfig controls record generation.
type GeneratorConfig struct {
	Seed          int64   // Random seed for determinism (0 = use current time)
	KeyPrefix     string  // Prefix for record keys (default: "R")
	CheckedRatio  float64 // Share of records generated as checked
	ExpandedRatio float64 // Share of records generated with the expanded flag
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:      42, // Deterministic
		KeyPrefix: "R",
	}
}

// Generator creates record fixtures with various shapes.
type Generator struct {
	cfg  GeneratorConfig
	rng  *rand.Rand
	next int
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "R"
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

// Flat creates size root records.
func (g *Generator) Flat(size int) []model.Record {
	recs := make([]model.Record, 0, size)
	for i := 0; i < size; i++ {
		recs = append(recs, g.record(nil))
	}
	return recs
}

// Chain creates a single path: every record is the child of the previous
// one. Depth = size-1.
func (g *Generator) Chain(size int) []model.Record {
	recs := make([]model.Record, 0, size)
	var parent any
	for i := 0; i < size; i++ {
		r := g.record(parent)
		parent = r.Key
		recs = append(recs, r)
	}
	return recs
}

// Tree creates one root where each non-leaf node has breadth children, down
// to depth levels below the root.
func (g *Generator) Tree(depth, breadth int) []model.Record {
	return g.Forest(1, depth, breadth)
}

// Forest creates roots independent trees of the given depth and breadth.
func (g *Generator) Forest(roots, depth, breadth int) []model.Record {
	if depth < 0 {
		depth = 0
	}
	if breadth < 1 {
		breadth = 1
	}
	var recs []model.Record
	var walk func(parent any, level int)
	walk = func(parent any, level int) {
		r := g.record(parent)
		recs = append(recs, r)
		if level == depth {
			return
		}
		for b := 0; b < breadth; b++ {
			walk(r.Key, level+1)
		}
	}
	for i := 0; i < roots; i++ {
		walk(nil, 0)
	}
	return recs
}

// Random creates size records with a random shape no deeper than maxDepth.
// Each record attaches at a random depth along the path of the previous
// record, which keeps the output in pre-order.
func (g *Generator) Random(size, maxDepth int) []model.Record {
	recs := make([]model.Record, 0, size)
	var path []any
	for i := 0; i < size; i++ {
		d := g.rng.Intn(min(len(path), maxDepth) + 1)
		var parent any
		if d > 0 {
			parent = path[d-1]
		}
		r := g.record(parent)
		path = append(path[:d], r.Key)
		recs = append(recs, r)
	}
	return recs
}

func (g *Generator) record(parent any) model.Record {
	g.next++
	key := fmt.Sprintf("%s-%d", g.cfg.KeyPrefix, g.next)
	r := model.Record{
		Key:    key,
		Parent: parent,
		Title:  fmt.Sprintf("Record %d", g.next),
	}
	if g.cfg.CheckedRatio > 0 && g.rng.Float64() < g.cfg.CheckedRatio {
		r.Selected = model.Checked
	}
	if g.cfg.ExpandedRatio > 0 && g.rng.Float64() < g.cfg.ExpandedRatio {
		r.Expanded = true
	}
	return r
}

// ToJSONL converts records to JSONL format (one JSON object per line).
func ToJSONL(records []model.Record) string {
	var sb strings.Builder
	for _, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			continue
		}
		sb.Write(data)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Rec is shorthand for a record literal in table tests.
func Rec(key, parent any) model.Record {
	return model.Record{Key: key, Parent: parent, Title: fmt.Sprint(key)}
}

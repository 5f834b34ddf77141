package metrics

import (
	"testing"
	"time"
)

func TestTimingMetricRecord(t *testing.T) {
	SetEnabled(true)
	m := newTimingMetric("test")

	m.Record(2 * time.Millisecond)
	m.Record(4 * time.Millisecond)

	s := m.Stats()
	if s.Count != 2 {
		t.Fatalf("expected 2 measurements, got %d", s.Count)
	}
	if s.MinMs != 2 || s.MaxMs != 4 {
		t.Errorf("expected min 2ms / max 4ms, got %.3f / %.3f", s.MinMs, s.MaxMs)
	}
	if s.AvgMs != 3 {
		t.Errorf("expected avg 3ms, got %.3f", s.AvgMs)
	}

	m.Reset()
	if m.Count() != 0 {
		t.Errorf("expected reset count 0, got %d", m.Count())
	}
}

func TestTimerDisabled(t *testing.T) {
	SetEnabled(false)
	defer SetEnabled(true)

	m := newTimingMetric("off")
	Timer(m)()
	if m.Count() != 0 {
		t.Errorf("expected no measurement while disabled, got %d", m.Count())
	}
}

func TestAllTimingStatsSkipsEmpty(t *testing.T) {
	SetEnabled(true)
	ResetAll()
	Timer(TreeBuild)()

	stats := AllTimingStats()
	if len(stats) != 1 || stats[0].Name != "tree_build" {
		t.Errorf("expected only tree_build stats, got %+v", stats)
	}
	ResetAll()
}

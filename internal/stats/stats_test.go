package stats

import (
	"testing"
	"time"
)

func TestStatsSnapshotPercentiles(t *testing.T) {
	s := New(time.Hour)
	s.RecordSuccess(100)
	s.RecordSuccess(200)
	s.RecordSuccess(300)
	s.RecordSuccess(400)
	s.RecordSuccess(500)

	snap := s.Snapshot()
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.MinMs != 100 {
		t.Fatalf("expected min=100, got %d", snap.MinMs)
	}
	if snap.MaxMs != 500 {
		t.Fatalf("expected max=500, got %d", snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Ms)
	}
	if snap.P95Ms != 480 {
		t.Fatalf("expected p95=480, got %f", snap.P95Ms)
	}
	if snap.P99Ms != 496 {
		t.Fatalf("expected p99=496, got %f", snap.P99Ms)
	}
	if snap.Resolved != 5 {
		t.Fatalf("expected resolved=5, got %d", snap.Resolved)
	}
}

func TestStatsPrunesExpiredSamples(t *testing.T) {
	s := New(10 * time.Millisecond)
	s.RecordSuccess(100)
	time.Sleep(25 * time.Millisecond)

	snap := s.Snapshot()
	if snap.Count != 0 {
		t.Fatalf("expected count=0 after prune, got %d", snap.Count)
	}
	// The outcome counter survives the latency window.
	if snap.Resolved != 1 {
		t.Fatalf("expected resolved=1 after prune, got %d", snap.Resolved)
	}

	s.RecordSuccess(200)
	snap = s.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected count=1 for fresh sample, got %d", snap.Count)
	}
	if snap.MinMs != 200 || snap.MaxMs != 200 {
		t.Fatalf("expected min=max=200, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
}

func TestStatsFailureCounters(t *testing.T) {
	s := New(time.Hour)
	s.RecordFailure("no_match")
	s.RecordFailure("no_match")
	s.RecordFailure("substring_not_found")

	snap := s.Snapshot()
	if snap.Failures["no_match"] != 2 {
		t.Fatalf("expected 2 no_match failures, got %d", snap.Failures["no_match"])
	}
	if snap.Failures["substring_not_found"] != 1 {
		t.Fatalf("expected 1 substring_not_found failure, got %d", snap.Failures["substring_not_found"])
	}
	if snap.Resolved != 0 {
		t.Fatalf("expected resolved=0, got %d", snap.Resolved)
	}
}

func TestStatsRecordClampsNegativeDuration(t *testing.T) {
	s := New(time.Hour)
	s.RecordSuccess(-10)
	snap := s.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected count=1, got %d", snap.Count)
	}
	if snap.MinMs != 0 || snap.MaxMs != 0 {
		t.Fatalf("expected clamped duration=0, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
}

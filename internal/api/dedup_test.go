// internal/api/dedup_test.go
package api

import "testing"

func TestDedupSeenAfterRecord(t *testing.T) {
	d := NewDedup(10)

	if d.Seen(42) {
		t.Error("fresh ID reported as seen")
	}
	d.Record(42)
	if !d.Seen(42) {
		t.Error("recorded ID not reported as seen")
	}
	if d.Seen(43) {
		t.Error("different ID reported as seen")
	}
}

func TestDedupSeenDoesNotRecord(t *testing.T) {
	d := NewDedup(10)

	d.Seen(7)
	if d.Len() != 0 {
		t.Errorf("membership check inserted the ID, Len = %d", d.Len())
	}
	if d.Seen(7) {
		t.Error("unrecorded ID reported as seen after a prior check")
	}
}

func TestDedupEvictsOldestFirst(t *testing.T) {
	d := NewDedup(3)
	for id := int64(1); id <= 3; id++ {
		d.Record(id)
	}

	// Recording a 4th evicts 1, the oldest.
	d.Record(4)
	if d.Seen(1) {
		t.Error("evicted ID still reported as seen")
	}
	if !d.Seen(2) || !d.Seen(3) || !d.Seen(4) {
		t.Error("recent IDs lost")
	}

	// Re-recording a tracked ID must not disturb arrival order.
	d.Record(2)
	d.Record(5)
	if d.Seen(2) {
		t.Error("ID 2 should have been the next eviction")
	}
}

func TestDedupBounded(t *testing.T) {
	d := NewDedup(100)
	for id := int64(0); id < 10000; id++ {
		d.Record(id)
	}
	if d.Len() != 100 {
		t.Errorf("expected window of 100, got %d", d.Len())
	}
	// Only the most recent 100 remain.
	if !d.Seen(9999) {
		t.Error("most recent ID lost")
	}
	if d.Seen(9899) {
		t.Error("old ID should have been evicted")
	}
}

func TestDedupZeroCapacity(t *testing.T) {
	d := NewDedup(0)

	// Clamped to a window of one instead of panicking.
	d.Record(1)
	if !d.Seen(1) {
		t.Error("ID lost in minimum-capacity window")
	}
	d.Record(2)
	if d.Seen(1) {
		t.Error("expected eviction in minimum-capacity window")
	}
	if d.Len() != 1 {
		t.Errorf("Len = %d", d.Len())
	}
}

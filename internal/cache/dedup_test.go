// SPDX-License-Identifier: AGPL-3.0-or-later

package cache

import (
	"testing"
	"time"
)

func TestExactLRU_IsDuplicate(t *testing.T) {
	d := NewExactLRU(8, time.Minute)

	if d.IsDuplicate("k1") {
		t.Error("first sighting of k1 should not be a duplicate")
	}
	d.Record("k1")
	if !d.IsDuplicate("k1") {
		t.Error("second sighting of k1 should be a duplicate")
	}
}

func TestExactLRU_ZeroFalsePositives(t *testing.T) {
	d := NewExactLRU(32, time.Minute)

	keys := []string{"artwork:1:100:100", "artwork:2:100:100", "artwork:1:200:200"}
	for _, k := range keys {
		if d.IsDuplicate(k) {
			t.Fatalf("unseen key %q reported as duplicate", k)
		}
		d.Record(k)
	}
	for _, k := range keys {
		if !d.IsDuplicate(k) {
			t.Fatalf("seen key %q not reported as duplicate", k)
		}
	}
}

func TestExactLRU_Expiry(t *testing.T) {
	d := NewExactLRU(8, time.Millisecond)
	d.Record("k1")
	time.Sleep(5 * time.Millisecond)
	if d.IsDuplicate("k1") {
		t.Error("expired key should no longer be reported as duplicate")
	}
}

func TestExactLRU_Stats(t *testing.T) {
	d := NewExactLRU(8, time.Minute)
	d.Record("k1")
	d.IsDuplicate("k1")
	d.IsDuplicate("k2")

	bloomNeg, checks, dups, size := d.Stats()
	if bloomNeg != 0 {
		t.Errorf("bloomNegatives should always be 0, got %d", bloomNeg)
	}
	if checks != 2 {
		t.Errorf("expected 2 checks, got %d", checks)
	}
	if dups != 1 {
		t.Errorf("expected 1 duplicate, got %d", dups)
	}
	if size != 1 {
		t.Errorf("expected size 1, got %d", size)
	}
}

func TestExactLRU_ClearResetsCounters(t *testing.T) {
	d := NewExactLRU(8, time.Minute)
	d.Record("k1")
	d.IsDuplicate("k1")
	d.Clear()

	if d.Len() != 0 {
		t.Errorf("expected empty cache after Clear, got len %d", d.Len())
	}
	_, checks, dups, _ := d.Stats()
	if checks != 0 || dups != 0 {
		t.Errorf("expected counters reset after Clear, got checks=%d dups=%d", checks, dups)
	}
}

func TestExactLRU_Contains(t *testing.T) {
	d := NewExactLRU(8, time.Minute)
	if d.Contains("k1") {
		t.Error("unseen key should not be contained")
	}
	d.Record("k1")
	if !d.Contains("k1") {
		t.Error("recorded key should be contained")
	}
}

// SPDX-License-Identifier: GPL-2.0-or-later

package artwork

import (
	"context"
	"testing"
	"time"

	"github.com/owntone/go-libretune-server/internal/config"
	"github.com/owntone/go-libretune-server/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	s, err := Open(ctx, &config.ArtworkConfig{
		CachePath:       ":memory:",
		MaxCacheEntries: 100,
		HotCacheSize:    1 << 20,
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestInsertAndLookupRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	data := []byte{0xFF, 0xD8, 0xFF, 0x00}
	if err := s.Insert(ctx, 7, 160, 160, models.ArtworkJPEG, "/a.jpg", data); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	entry, ok, err := s.Lookup(ctx, 7, 160, 160)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !ok {
		t.Fatal("expected a cached entry")
	}
	if entry.Format != models.ArtworkJPEG {
		t.Fatalf("format = %v", entry.Format)
	}
	if string(entry.Data) != string(data) {
		t.Fatalf("data = %v, want %v", entry.Data, data)
	}
}

func TestLookupMiss(t *testing.T) {
	s := openTestStore(t)
	_, ok, err := s.Lookup(context.Background(), 99, 100, 100)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if ok {
		t.Fatal("expected a miss")
	}
}

func TestInsertStickyNoArtwork(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Insert(ctx, 1, 100, 100, models.ArtworkNone, "/none.jpg", nil); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	entry, ok, err := s.Lookup(ctx, 1, 100, 100)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !ok || entry.Format != models.ArtworkNone {
		t.Fatalf("entry = %+v, ok = %v", entry, ok)
	}
}

func TestPingDeletesStaleEntries(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Insert(ctx, 7, 160, 160, models.ArtworkJPEG, "/a.jpg", []byte{1}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	future := time.Now().Add(time.Hour)
	if err := s.Ping(ctx, "/a.jpg", future, true); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	_, ok, err := s.Lookup(ctx, 7, 160, 160)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if ok {
		t.Fatal("expected entry to be deleted as stale")
	}
}

func TestPingBumpOnlyKeepsFreshEntries(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Insert(ctx, 7, 160, 160, models.ArtworkJPEG, "/a.jpg", []byte{1}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	past := time.Now().Add(-time.Hour)
	if err := s.Ping(ctx, "/a.jpg", past, false); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	_, ok, err := s.Lookup(ctx, 7, 160, 160)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !ok {
		t.Fatal("expected entry to remain, bump-only ping should not delete")
	}
}

func TestPurgeOlderThan(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Insert(ctx, 7, 160, 160, models.ArtworkJPEG, "/a.jpg", []byte{1}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	future := time.Now().Add(time.Hour)
	if err := s.PurgeOlderThan(ctx, future); err != nil {
		t.Fatalf("PurgeOlderThan: %v", err)
	}

	_, ok, err := s.Lookup(ctx, 7, 160, 160)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if ok {
		t.Fatal("expected entry purged")
	}
}

func TestMultipleScalesCoexist(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Insert(ctx, 7, 160, 160, models.ArtworkJPEG, "/a.jpg", []byte{1}); err != nil {
		t.Fatalf("Insert small: %v", err)
	}
	if err := s.Insert(ctx, 7, 640, 640, models.ArtworkPNG, "/a.jpg", []byte{2}); err != nil {
		t.Fatalf("Insert large: %v", err)
	}

	small, ok, err := s.Lookup(ctx, 7, 160, 160)
	if err != nil || !ok {
		t.Fatalf("Lookup small: %v, ok=%v", err, ok)
	}
	large, ok, err := s.Lookup(ctx, 7, 640, 640)
	if err != nil || !ok {
		t.Fatalf("Lookup large: %v, ok=%v", err, ok)
	}
	if small.Format == large.Format {
		t.Fatalf("expected distinct formats, got %v and %v", small.Format, large.Format)
	}
}

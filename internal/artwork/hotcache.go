// SPDX-License-Identifier: GPL-2.0-or-later

package artwork

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// hotCache holds the decoded image bytes for recently served artwork
// entries, keyed the same way as the DuckDB metadata row. It is an
// in-memory Badger instance rather than a file-backed store: artwork bytes
// are fully recoverable
// from the metadata row's source_path on a miss, so there is nothing here
// that needs to survive a restart, only something worth not re-decoding on
// every request. ArtworkConfig has no directory of its own for a second
// on-disk store, only a byte budget (HotCacheSize), which maps directly to
// Badger's in-memory arena size.
type hotCache struct {
	db *badger.DB
}

func newHotCache(maxBytes int64) (*hotCache, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	if maxBytes > 0 {
		opts.MemTableSize = maxBytes
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("artwork: open hot cache: %w", err)
	}
	return &hotCache{db: db}, nil
}

func (h *hotCache) close() error {
	return h.db.Close()
}

func hotKey(persistentID int64, maxW, maxH int) []byte {
	return []byte(fmt.Sprintf("%d:%d:%d", persistentID, maxW, maxH))
}

func (h *hotCache) get(persistentID int64, maxW, maxH int) ([]byte, bool, error) {
	var data []byte
	err := h.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(hotKey(persistentID, maxW, maxH))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			data = append([]byte(nil), val...)
			return nil
		})
	})
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		return nil, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("artwork: hot cache get: %w", err)
	}
	return data, true, nil
}

func (h *hotCache) put(persistentID int64, maxW, maxH int, data []byte) error {
	err := h.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(hotKey(persistentID, maxW, maxH), data))
	})
	if err != nil {
		return fmt.Errorf("artwork: hot cache put: %w", err)
	}
	return nil
}

func (h *hotCache) delete(persistentID int64, maxW, maxH int) error {
	err := h.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(hotKey(persistentID, maxW, maxH))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("artwork: hot cache delete: %w", err)
	}
	return nil
}

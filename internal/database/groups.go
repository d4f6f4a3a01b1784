// SPDX-License-Identifier: GPL-2.0-or-later

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/owntone/go-libretune-server/internal/models"
)

// upsertGroups maintains the groups table for one item insert or
// songartistid/songalbumid change, doing in application code what
// trg_groups_insert/trg_groups_update do as SQL triggers in the original
// (db_init.c). DuckDB does not support CREATE TRIGGER, so the scanner
// calls this immediately after every item write instead of relying on the
// store to fire it automatically.
func upsertGroups(ctx context.Context, exec interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
}, album, albumArtist string, songAlbumID, songArtistID int64) error {
	_, err := exec.ExecContext(ctx,
		`INSERT INTO groups (id, type, name, persistentid)
		 SELECT (SELECT COALESCE(MAX(id), 0) FROM groups) + 1, ?, ?, ?
		 WHERE NOT EXISTS (SELECT 1 FROM groups WHERE type = ? AND persistentid = ?)`,
		models.GroupAlbum, album, songAlbumID, models.GroupAlbum, songAlbumID)
	if err != nil {
		return fmt.Errorf("upsert album group: %w", err)
	}

	_, err = exec.ExecContext(ctx,
		`INSERT INTO groups (id, type, name, persistentid)
		 SELECT (SELECT COALESCE(MAX(id), 0) FROM groups) + 1, ?, ?, ?
		 WHERE NOT EXISTS (SELECT 1 FROM groups WHERE type = ? AND persistentid = ?)`,
		models.GroupArtist, albumArtist, songArtistID, models.GroupArtist, songArtistID)
	if err != nil {
		return fmt.Errorf("upsert artist group: %w", err)
	}
	return nil
}

// OnItemWritten must be called by the scanner after inserting an item or
// updating its songalbumid/songartistid, keeping the groups table
// consistent with the rule in §3: "a group row exists for every
// (media-item, album/artist) occurrence."
func (w *Worker) OnItemWritten(ctx context.Context, item *models.Item) error {
	return upsertGroups(ctx, w.conn, item.Album, item.AlbumArtist, item.SongAlbumID, item.SongArtistID)
}

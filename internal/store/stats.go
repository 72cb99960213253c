package store

import (
	"context"
	"fmt"
)

// TableStats counts the rows of each table. MatchedSongplays counts
// fact rows whose song was resolved against the catalog.
type TableStats struct {
	Songs            int `db:"songs" json:"songs"`
	Artists          int `db:"artists" json:"artists"`
	Users            int `db:"users" json:"users"`
	Time             int `db:"time_rows" json:"time"`
	Songplays        int `db:"songplays" json:"songplays"`
	MatchedSongplays int `db:"matched_songplays" json:"matched_songplays"`
}

func (db *DB) Stats(ctx context.Context) (*TableStats, error) {
	query := `SELECT
		(SELECT COUNT(*) FROM songs) AS songs,
		(SELECT COUNT(*) FROM artists) AS artists,
		(SELECT COUNT(*) FROM users) AS users,
		(SELECT COUNT(*) FROM time) AS time_rows,
		(SELECT COUNT(*) FROM songplays) AS songplays,
		(SELECT COUNT(song_id) FROM songplays) AS matched_songplays`

	stats := &TableStats{}
	if err := db.GetContext(ctx, stats, query); err != nil {
		return nil, fmt.Errorf("failed to count rows: %w", err)
	}
	return stats, nil
}

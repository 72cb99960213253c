package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cesargomez89/sparkify/internal/domain"
)

// InsertSong adds a song row; an existing song_id is left untouched.
func (db *DB) InsertSong(ctx context.Context, song *domain.Song) error {
	query := `INSERT INTO songs (song_id, title, artist_id, year, duration)
		VALUES (:song_id, :title, :artist_id, :year, :duration)
		ON CONFLICT (song_id) DO NOTHING`

	if _, err := db.NamedExecContext(ctx, query, song); err != nil {
		return fmt.Errorf("failed to insert song %s: %w", song.ID, err)
	}
	return nil
}

// InsertArtist adds an artist row; an existing artist_id is left untouched.
func (db *DB) InsertArtist(ctx context.Context, artist *domain.Artist) error {
	query := `INSERT INTO artists (artist_id, name, location, latitude, longitude)
		VALUES (:artist_id, :name, :location, :latitude, :longitude)
		ON CONFLICT (artist_id) DO NOTHING`

	if _, err := db.NamedExecContext(ctx, query, artist); err != nil {
		return fmt.Errorf("failed to insert artist %s: %w", artist.ID, err)
	}
	return nil
}

// SongMatch is the catalog identity resolved for a song play
type SongMatch struct {
	SongID   string `db:"song_id"`
	ArtistID string `db:"artist_id"`
}

// FindSongArtist looks up the song whose title, artist name and duration all
// equal the given values. It returns nil without error when nothing matches.
func (db *DB) FindSongArtist(ctx context.Context, title, artist string, duration float64) (*SongMatch, error) {
	query := db.Rebind(`SELECT s.song_id, s.artist_id
		FROM songs s
		JOIN artists a ON a.artist_id = s.artist_id
		WHERE s.title = ? AND a.name = ? AND s.duration = ?
		ORDER BY s.song_id
		LIMIT 1`)

	var match SongMatch
	err := db.GetContext(ctx, &match, query, title, artist, duration)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up song %q by %q: %w", title, artist, err)
	}
	return &match, nil
}

func (db *DB) GetSong(ctx context.Context, id string) (*domain.Song, error) {
	var song domain.Song
	err := db.GetContext(ctx, &song, db.Rebind(`SELECT song_id, title, artist_id, year, duration FROM songs WHERE song_id = ?`), id)
	if err != nil {
		return nil, err
	}
	return &song, nil
}

func (db *DB) GetArtist(ctx context.Context, id string) (*domain.Artist, error) {
	var artist domain.Artist
	err := db.GetContext(ctx, &artist, db.Rebind(`SELECT artist_id, name, location, latitude, longitude FROM artists WHERE artist_id = ?`), id)
	if err != nil {
		return nil, err
	}
	return &artist, nil
}

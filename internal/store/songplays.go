package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/cesargomez89/sparkify/internal/domain"
)

const timeColumns = "start_time, hour, day, week, month, year, weekday"

const songplayColumns = "start_time, user_id, level, song_id, artist_id, session_id, location, user_agent"

// InsertTime adds a time row; a timestamp already present is skipped.
func (db *DB) InsertTime(ctx context.Context, t *domain.Time) error {
	return db.InsertTimes(ctx, []domain.Time{*t})
}

// InsertTimes adds many time rows with one statement.
func (db *DB) InsertTimes(ctx context.Context, rows []domain.Time) error {
	if len(rows) == 0 {
		return nil
	}
	args := make([][]interface{}, len(rows))
	for i, t := range rows {
		args[i] = []interface{}{t.StartTime, t.Hour, t.Day, t.Week, t.Month, t.Year, t.Weekday}
	}
	if err := db.bulkInsert(ctx, "time", timeColumns, "ON CONFLICT (start_time) DO NOTHING", args); err != nil {
		return fmt.Errorf("failed to insert %d time rows: %w", len(rows), err)
	}
	return nil
}

// InsertSongplay adds a fact row; a play with the same start time, user and
// session as a stored one is skipped.
func (db *DB) InsertSongplay(ctx context.Context, sp *domain.Songplay) error {
	return db.InsertSongplays(ctx, []domain.Songplay{*sp})
}

// InsertSongplays adds many fact rows with one statement.
func (db *DB) InsertSongplays(ctx context.Context, rows []domain.Songplay) error {
	if len(rows) == 0 {
		return nil
	}
	args := make([][]interface{}, len(rows))
	for i, sp := range rows {
		args[i] = []interface{}{sp.StartTime, sp.UserID, sp.Level, sp.SongID, sp.ArtistID, sp.SessionID, sp.Location, sp.UserAgent}
	}
	if err := db.bulkInsert(ctx, "songplays", songplayColumns, "ON CONFLICT (start_time, user_id, session_id) DO NOTHING", args); err != nil {
		return fmt.Errorf("failed to insert %d songplays: %w", len(rows), err)
	}
	return nil
}

func (db *DB) ListSongplays(ctx context.Context) ([]*domain.Songplay, error) {
	query := `SELECT songplay_id, ` + songplayColumns + ` FROM songplays ORDER BY songplay_id`

	var plays []*domain.Songplay
	err := db.SelectContext(ctx, &plays, query)
	return plays, err
}

func (db *DB) GetTime(ctx context.Context, startTime int64) (*domain.Time, error) {
	var t domain.Time
	err := db.GetContext(ctx, &t, db.Rebind(`SELECT `+timeColumns+` FROM time WHERE start_time = ?`), startTime)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// bulkInsert writes every row of args with a single multi-row VALUES list.
func (db *DB) bulkInsert(ctx context.Context, table, columns, suffix string, args [][]interface{}) error {
	width := len(args[0])
	tuple := "(" + strings.TrimSuffix(strings.Repeat("?, ", width), ", ") + ")"

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	b.WriteString(" (")
	b.WriteString(columns)
	b.WriteString(") VALUES ")

	flat := make([]interface{}, 0, width*len(args))
	for i, row := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(tuple)
		flat = append(flat, row...)
	}
	b.WriteString(" ")
	b.WriteString(suffix)

	_, err := db.ExecContext(ctx, db.Rebind(b.String()), flat...)
	return err
}

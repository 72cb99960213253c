package extract

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/cesargomez89/sparkify/internal/constants"
	"github.com/cesargomez89/sparkify/internal/domain"
)

// SongKey identifies the catalog song an event refers to. Any nil part
// means the event cannot match a catalog entry.
type SongKey struct {
	Title    *string
	Artist   *string
	Duration *float64
}

// Complete reports whether every part of the key is present
func (k SongKey) Complete() bool {
	return k.Title != nil && k.Artist != nil && k.Duration != nil
}

// EventRows holds the rows derived from one song-play event. Songplay.SongID
// and Songplay.ArtistID are left for the loader to resolve through Key.
type EventRows struct {
	Time     domain.Time
	User     domain.User
	Songplay domain.Songplay
	Key      SongKey
}

// Events decodes every line of an event file and keeps only song plays, in file order.
func Events(records [][]byte) ([]EventRows, error) {
	var rows []EventRows
	for i, raw := range records {
		var rec domain.EventRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w: %v", i+1, domain.ErrMalformedRecord, err)
		}
		if err := rec.ValidateHeader(); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if *rec.Page != constants.PageNextSong {
			continue
		}
		if err := rec.ValidatePlay(); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		rows = append(rows, playRows(&rec))
	}
	return rows, nil
}

func playRows(rec *domain.EventRecord) EventRows {
	ts := *rec.Ts
	return EventRows{
		Time: TimeFromMillis(ts),
		User: domain.User{
			ID:        rec.UserID.Value,
			FirstName: *rec.FirstName,
			LastName:  *rec.LastName,
			Gender:    rec.Gender,
			Level:     *rec.Level,
		},
		Songplay: domain.Songplay{
			StartTime: ts,
			UserID:    rec.UserID.Value,
			Level:     *rec.Level,
			SessionID: rec.SessionID.Value,
			Location:  rec.Location,
			UserAgent: rec.UserAgent,
		},
		Key: SongKey{
			Title:    rec.Song,
			Artist:   rec.Artist,
			Duration: rec.Length,
		},
	}
}

// TimeFromMillis breaks an epoch-millisecond timestamp into its UTC calendar
// parts. Week is the ISO-8601 week; Weekday counts from Monday=0.
func TimeFromMillis(ms int64) domain.Time {
	t := time.UnixMilli(ms).UTC()
	_, week := t.ISOWeek()
	return domain.Time{
		StartTime: ms,
		Hour:      t.Hour(),
		Day:       t.Day(),
		Week:      week,
		Month:     int(t.Month()),
		Year:      t.Year(),
		Weekday:   (int(t.Weekday()) + 6) % 7,
	}
}

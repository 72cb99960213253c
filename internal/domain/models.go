package domain

// RecordKind selects the extractor applied to the files of one load run
type RecordKind string

const (
	KindCatalog RecordKind = "catalog"
	KindEvent   RecordKind = "event"
)

// Valid reports whether k names a known extractor
func (k RecordKind) Valid() bool {
	return k == KindCatalog || k == KindEvent
}

// Song is one row of the songs dimension table
type Song struct {
	ID       string  `json:"song_id" db:"song_id"`
	Title    string  `json:"title" db:"title"`
	ArtistID string  `json:"artist_id" db:"artist_id"`
	Year     int     `json:"year" db:"year"`
	Duration float64 `json:"duration" db:"duration"`
}

// Artist is one row of the artists dimension table
type Artist struct {
	ID        string   `json:"artist_id" db:"artist_id"`
	Name      string   `json:"name" db:"name"`
	Location  *string  `json:"location" db:"location"`
	Latitude  *float64 `json:"latitude" db:"latitude"`
	Longitude *float64 `json:"longitude" db:"longitude"`
}

// User is one row of the users dimension table
type User struct {
	ID        int64   `json:"user_id" db:"user_id"`
	FirstName string  `json:"first_name" db:"first_name"`
	LastName  string  `json:"last_name" db:"last_name"`
	Gender    *string `json:"gender" db:"gender"`
	Level     string  `json:"level" db:"level"`
}

// Time is one row of the time dimension table, keyed by the event timestamp
// in epoch milliseconds. Weekday counts from Monday=0.
type Time struct {
	StartTime int64 `json:"start_time" db:"start_time"`
	Hour      int   `json:"hour" db:"hour"`
	Day       int   `json:"day" db:"day"`
	Week      int   `json:"week" db:"week"`
	Month     int   `json:"month" db:"month"`
	Year      int   `json:"year" db:"year"`
	Weekday   int   `json:"weekday" db:"weekday"`
}

// Songplay is one row of the fact table. SongID and ArtistID stay nil
// when no catalog match exists.
type Songplay struct {
	ID        int64   `json:"songplay_id" db:"songplay_id"`
	StartTime int64   `json:"start_time" db:"start_time"`
	UserID    int64   `json:"user_id" db:"user_id"`
	Level     string  `json:"level" db:"level"`
	SongID    *string `json:"song_id" db:"song_id"`
	ArtistID  *string `json:"artist_id" db:"artist_id"`
	SessionID int64   `json:"session_id" db:"session_id"`
	Location  *string `json:"location" db:"location"`
	UserAgent *string `json:"user_agent" db:"user_agent"`
}

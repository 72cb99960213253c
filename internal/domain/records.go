package domain

import (
	"bytes"
	"fmt"
	"strconv"
)

// CatalogRecord is the raw shape of one song catalog file
type CatalogRecord struct {
	SongID          *string  `json:"song_id"`
	Title           *string  `json:"title"`
	ArtistID        *string  `json:"artist_id"`
	Year            *int     `json:"year"`
	Duration        *float64 `json:"duration"`
	ArtistName      *string  `json:"artist_name"`
	ArtistLocation  *string  `json:"artist_location"`
	ArtistLatitude  *float64 `json:"artist_latitude"`
	ArtistLongitude *float64 `json:"artist_longitude"`
}

// Validate checks that every field the song and artist rows need is present
func (r *CatalogRecord) Validate() error {
	switch {
	case r.SongID == nil:
		return &FieldError{Record: KindCatalog, Field: "song_id"}
	case r.Title == nil:
		return &FieldError{Record: KindCatalog, Field: "title"}
	case r.ArtistID == nil:
		return &FieldError{Record: KindCatalog, Field: "artist_id"}
	case r.ArtistName == nil:
		return &FieldError{Record: KindCatalog, Field: "artist_name"}
	case r.Year == nil:
		return &FieldError{Record: KindCatalog, Field: "year"}
	case r.Duration == nil:
		return &FieldError{Record: KindCatalog, Field: "duration"}
	}
	return nil
}

// EventRecord is the raw shape of one line of an event log file
type EventRecord struct {
	Ts        *int64   `json:"ts"`
	Page      *string  `json:"page"`
	Song      *string  `json:"song"`
	Artist    *string  `json:"artist"`
	Length    *float64 `json:"length"`
	UserID    FlexID   `json:"userId"`
	FirstName *string  `json:"firstName"`
	LastName  *string  `json:"lastName"`
	Gender    *string  `json:"gender"`
	Level     *string  `json:"level"`
	SessionID FlexID   `json:"sessionId"`
	Location  *string  `json:"location"`
	UserAgent *string  `json:"userAgent"`
}

// ValidateHeader checks the fields every event line must carry
func (r *EventRecord) ValidateHeader() error {
	if r.Page == nil {
		return &FieldError{Record: KindEvent, Field: "page"}
	}
	return nil
}

// ValidatePlay checks the fields a song play needs to become time, user and songplay rows
func (r *EventRecord) ValidatePlay() error {
	switch {
	case r.Ts == nil:
		return &FieldError{Record: KindEvent, Field: "ts"}
	case !r.UserID.Valid:
		return &FieldError{Record: KindEvent, Field: "userId"}
	case !r.SessionID.Valid:
		return &FieldError{Record: KindEvent, Field: "sessionId"}
	case r.Level == nil:
		return &FieldError{Record: KindEvent, Field: "level"}
	case r.FirstName == nil:
		return &FieldError{Record: KindEvent, Field: "firstName"}
	case r.LastName == nil:
		return &FieldError{Record: KindEvent, Field: "lastName"}
	}
	return nil
}

// FlexID is an integer identifier that the logs encode either as a JSON
// number or as a quoted string. Null and "" leave it invalid.
type FlexID struct {
	Value int64
	Valid bool
}

func (f *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = FlexID{}
		return nil
	}
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		data = bytes.TrimSpace(data[1 : len(data)-1])
		if len(data) == 0 {
			*f = FlexID{}
			return nil
		}
	}
	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: invalid identifier %s", ErrMalformedRecord, data)
	}
	*f = FlexID{Value: v, Valid: true}
	return nil
}

// Package extract shapes raw catalog and event records into table rows.
package extract

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/cesargomez89/sparkify/internal/domain"
)

// CatalogRows holds the rows derived from one catalog file
type CatalogRows struct {
	Song   domain.Song
	Artist domain.Artist
}

// Catalog projects the single record of a catalog file onto a song and an artist row.
func Catalog(records [][]byte) (*CatalogRows, error) {
	switch len(records) {
	case 0:
		return nil, domain.ErrEmptyCatalogFile
	case 1:
	default:
		return nil, fmt.Errorf("%w: found %d", domain.ErrMultipleCatalogRecords, len(records))
	}

	var rec domain.CatalogRecord
	if err := json.Unmarshal(records[0], &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedRecord, err)
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	return &CatalogRows{
		Song: domain.Song{
			ID:       *rec.SongID,
			Title:    *rec.Title,
			ArtistID: *rec.ArtistID,
			Year:     *rec.Year,
			Duration: *rec.Duration,
		},
		Artist: domain.Artist{
			ID:        *rec.ArtistID,
			Name:      *rec.ArtistName,
			Location:  rec.ArtistLocation,
			Latitude:  rec.ArtistLatitude,
			Longitude: rec.ArtistLongitude,
		},
	}, nil
}

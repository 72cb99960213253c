package domain

import (
	"errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordKind_Valid(t *testing.T) {
	assert.True(t, KindCatalog.Valid())
	assert.True(t, KindEvent.Valid())
	assert.False(t, RecordKind("songs").Valid())
}

func TestFlexID_Unmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    FlexID
		wantErr bool
	}{
		{"number", `{"userId": 39}`, FlexID{Value: 39, Valid: true}, false},
		{"quoted number", `{"userId": "39"}`, FlexID{Value: 39, Valid: true}, false},
		{"empty string", `{"userId": ""}`, FlexID{}, false},
		{"null", `{"userId": null}`, FlexID{}, false},
		{"absent", `{}`, FlexID{}, false},
		{"garbage", `{"userId": "abc"}`, FlexID{}, true},
		{"float", `{"userId": 3.5}`, FlexID{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec struct {
				UserID FlexID `json:"userId"`
			}
			err := json.Unmarshal([]byte(tt.input), &rec)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec.UserID)
		})
	}
}

func TestCatalogRecord_Validate(t *testing.T) {
	full := `{"song_id":"S1","title":"T","artist_id":"A1","artist_name":"N","year":2000,"duration":1.5}`

	var ok CatalogRecord
	require.NoError(t, json.Unmarshal([]byte(full), &ok))
	assert.NoError(t, ok.Validate())

	var missing CatalogRecord
	require.NoError(t, json.Unmarshal([]byte(`{"song_id":"S1","artist_id":"A1"}`), &missing))
	err := missing.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingField))

	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "title", fe.Field)
	assert.Equal(t, KindCatalog, fe.Record)
}

func TestEventRecord_Validate(t *testing.T) {
	var rec EventRecord
	require.NoError(t, json.Unmarshal([]byte(`{"ts":1541121934796}`), &rec))
	err := rec.ValidateHeader()
	require.ErrorIs(t, err, ErrMissingField)
	assert.Contains(t, err.Error(), `"page"`)

	rec = EventRecord{}
	require.NoError(t, json.Unmarshal([]byte(`{"page":"NextSong","userId":"7"}`), &rec))
	require.NoError(t, rec.ValidateHeader())
	assert.ErrorContains(t, rec.ValidatePlay(), `"ts"`)

	rec = EventRecord{}
	require.NoError(t, json.Unmarshal([]byte(`{"ts":1,"page":"NextSong","userId":"7","sessionId":3,"level":"free","firstName":"A"}`), &rec))
	require.NoError(t, rec.ValidateHeader())
	err = rec.ValidatePlay()
	require.ErrorIs(t, err, ErrMissingField)
	assert.Contains(t, err.Error(), `"lastName"`)
}

func TestFileError_Unwrap(t *testing.T) {
	err := &FileError{Path: "/x.json", Err: &FieldError{Record: KindEvent, Field: "ts"}}
	assert.ErrorIs(t, err, ErrMissingField)
	assert.Contains(t, err.Error(), "/x.json")
}

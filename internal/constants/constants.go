// Package constants contains application-wide constants to avoid magic numbers and strings.
package constants

// Loader defaults. Connection and root defaults live in the config struct tags.
const (
	DefaultExtension = ExtJSON
	DefaultBatchSize = 1
	MaxBatchSize     = 1000
)

// Database drivers as registered with database/sql
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// Database
const (
	SongsTable     = "songs"
	ArtistsTable   = "artists"
	UsersTable     = "users"
	TimeTable      = "time"
	SongplaysTable = "songplays"
)

// Event pages
const (
	PageNextSong = "NextSong"
)

// File Extensions
const (
	ExtJSON = ".json"
)

// Max size of a single line-delimited JSON record
const MaxRecordBytes = 4 * 1024 * 1024

// File Permissions
const (
	DirPermissions  = 0755
	FilePermissions = 0644
)

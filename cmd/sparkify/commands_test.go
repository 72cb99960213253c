package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cesargomez89/sparkify/internal/constants"
	"github.com/cesargomez89/sparkify/internal/store"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := rootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), constants.DirPermissions))
	require.NoError(t, os.WriteFile(path, []byte(content), constants.FilePermissions))
}

func TestRunAndStats(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "db", "sparkify.db")
	t.Setenv("DB_DRIVER", constants.DriverSQLite)
	t.Setenv("SQLITE_PATH", dbPath)

	catalogRoot := filepath.Join(dir, "song_data")
	eventRoot := filepath.Join(dir, "log_data")
	writeFile(t, filepath.Join(catalogRoot, "A", "song.json"),
		`{"song_id":"SOJZ001","title":"X","artist_id":"ART01","artist_name":"Y","artist_location":"","artist_latitude":null,"artist_longitude":null,"year":2000,"duration":210.5}`+"\n")
	writeFile(t, filepath.Join(eventRoot, "2018", "events.json"),
		`{"artist":"Y","firstName":"Lily","gender":"F","lastName":"Koch","length":210.5,"level":"free","location":"Chicago","page":"NextSong","sessionId":818,"song":"X","ts":1541121934796,"userAgent":"Mozilla/5.0","userId":"15"}`+"\n")

	out, err := execute(t, "run", "--recreate-db", "--catalog-root", catalogRoot, "--event-root", eventRoot)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Tables reset")
	assert.Contains(t, out, "Load finished")

	out, err = execute(t, "stats", "--log-level", "error")
	require.NoError(t, err, out)

	var stats store.TableStats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, store.TableStats{Songs: 1, Artists: 1, Users: 1, Time: 1, Songplays: 1, MatchedSongplays: 1}, stats)

	// Loading again leaves the counts unchanged
	_, err = execute(t, "load", "--catalog-root", catalogRoot, "--event-root", eventRoot)
	require.NoError(t, err)
	out, err = execute(t, "stats", "--log-level", "error")
	require.NoError(t, err)
	var again store.TableStats
	require.NoError(t, json.Unmarshal([]byte(out), &again))
	assert.Equal(t, stats, again)

	// Reset empties every table
	_, err = execute(t, "reset")
	require.NoError(t, err)
	out, err = execute(t, "stats", "--log-level", "error")
	require.NoError(t, err)
	var empty store.TableStats
	require.NoError(t, json.Unmarshal([]byte(out), &empty))
	assert.Equal(t, store.TableStats{}, empty)
}

func TestInvalidConfig(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")
	_, err := execute(t, "stats")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DRIVER")
}

func TestLoadMissingRoot(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DB_DRIVER", constants.DriverSQLite)
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "s.db"))

	_, err := execute(t, "reset")
	require.NoError(t, err)
	_, err = execute(t, "load", "--catalog-root", filepath.Join(dir, "missing"), "--event-root", dir)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

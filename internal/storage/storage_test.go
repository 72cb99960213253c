package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cesargomez89/sparkify/internal/constants"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), constants.DirPermissions))
	require.NoError(t, os.WriteFile(path, []byte(content), constants.FilePermissions))
}

func TestLocate(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "A", "B", "one.json"), "{}")
	writeFile(t, filepath.Join(root, "A", "two.json"), "{}")
	writeFile(t, filepath.Join(root, "three.json"), "{}")
	writeFile(t, filepath.Join(root, "notes.txt"), "x")
	writeFile(t, filepath.Join(root, "A", "archive.json.gz"), "x")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "dir.json"), constants.DirPermissions))

	files, err := Locate(root, ".json")
	require.NoError(t, err)
	require.Len(t, files, 3)

	var names []string
	for _, f := range files {
		assert.True(t, filepath.IsAbs(f), "expected absolute path, got %s", f)
		names = append(names, filepath.Base(f))
	}
	assert.ElementsMatch(t, []string{"one.json", "two.json", "three.json"}, names)
}

func TestLocate_FilesBeforeSubdirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.json"), "{}")
	writeFile(t, filepath.Join(root, "b", "x.json"), "{}")
	writeFile(t, filepath.Join(root, "b", "c", "y.json"), "{}")
	writeFile(t, filepath.Join(root, "b", "z.json"), "{}")
	writeFile(t, filepath.Join(root, "c.json"), "{}")

	files, err := Locate(root, ".json")
	require.NoError(t, err)

	var rel []string
	for _, f := range files {
		r, err := filepath.Rel(root, f)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	assert.Equal(t, []string{"a.json", "c.json", "b/x.json", "b/z.json", "b/c/y.json"}, rel)
}

func TestLocate_SkipsDotFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".hidden.json"), "{}")
	writeFile(t, filepath.Join(root, "A", "._TRAAAAW128F429D538.json"), "\x00\x05\x16\x07")
	writeFile(t, filepath.Join(root, "A", "TRAAAAW128F429D538.json"), "{}")
	writeFile(t, filepath.Join(root, ".cache", "kept.json"), "{}")

	files, err := Locate(root, ".json")
	require.NoError(t, err)

	var rel []string
	for _, f := range files {
		r, err := filepath.Rel(root, f)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	assert.Equal(t, []string{".cache/kept.json", "A/TRAAAAW128F429D538.json"}, rel)
}

func TestLocate_RelativeRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "data", "x.json"), "{}")

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(root))
	t.Cleanup(func() { os.Chdir(wd) })

	files, err := Locate("data", ".json")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.True(t, filepath.IsAbs(files[0]))
	assert.True(t, strings.HasSuffix(files[0], filepath.Join("data", "x.json")))
}

func TestLocate_NoMatches(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.csv"), "x")

	files, err := Locate(root, ".json")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestLocate_MissingRoot(t *testing.T) {
	_, err := Locate(filepath.Join(t.TempDir(), "missing"), ".json")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLocate_RootIsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.json")
	writeFile(t, path, "{}")

	_, err := Locate(path, ".json")
	assert.Error(t, err)
}

func TestReadRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	writeFile(t, path, "{\"a\":1}\n\n  {\"a\":2}  \r\n{\"a\":3}")

	records, err := ReadRecords(path)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, `{"a":1}`, string(records[0]))
	assert.Equal(t, `{"a":2}`, string(records[1]))
	assert.Equal(t, `{"a":3}`, string(records[2]))
}

func TestReadRecords_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	writeFile(t, path, "\n\n")

	records, err := ReadRecords(path)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestReadRecords_Missing(t *testing.T) {
	_, err := ReadRecords(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/sharepoint-versions/internal/build"
)

func sampleTable() *build.Table {
	table := build.NewTable()
	table.Put(build.NewRecord("September 2024 CU", "September 10, 2024", "16.0.17928",
		&build.KB{KBNumber: "https://support.microsoft.com/help/5002640", KBTitle: "KB5002640"}))
	table.Put(build.NewRecord("SharePoint Server 2019 - July 2024 CU", "July 2024 CU", "16.0.10412", nil))
	table.Put(build.NewRecord("R&D <preview>", "2.9", "2.9.0", nil))
	table.Put(build.NewRecord("x", "2.10", "2.10.0", nil))
	return table
}

func TestNew(t *testing.T) {
	_, err := New("   ")
	assert.ErrorIs(t, err, ErrNoPath)

	s, err := New("versions.json")
	require.NoError(t, err)
	assert.Equal(t, "versions.json", s.Path())

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	s, err = New("~/data/versions.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "data", "versions.json"), s.Path())
}

func TestLoad_MissingFile(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "versions.json"))
	require.NoError(t, err)

	table, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
}

func TestLoad_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "versions.json")
	require.NoError(t, os.WriteFile(path, []byte("\n"), 0644))

	s, _ := New(path)
	table, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "versions.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"16.0.1": [`), 0644))

	s, _ := New(path)
	_, err := s.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing table")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "nested", "versions.json"))
	require.NoError(t, err)

	original := sampleTable()
	require.NoError(t, s.Save(original))

	loaded, err := s.Load()
	require.NoError(t, err)

	require.Equal(t, original.Len(), loaded.Len())
	for _, k := range original.Keys() {
		want, _ := original.Get(k)
		got, ok := loaded.Get(k)
		require.True(t, ok, "missing %s", k)
		assert.Equal(t, want, got, "record %s differs", k)
	}
}

func TestSave_Format(t *testing.T) {
	path := filepath.Join(t.TempDir(), "versions.json")
	s, _ := New(path)

	table := build.NewTable()
	table.Put(build.NewRecord("B", "d", "2.10.0", nil))
	table.Put(build.NewRecord("A & B", "d", "2.9.0", &build.KB{KBNumber: "https://kb?a=1&b=2", KBTitle: "KB"}))
	require.NoError(t, s.Save(table))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	want := `{
    "2.9.0": {
        "name": "A & B",
        "release_date": "d",
        "build": "2.9.0",
        "kb_numbers": [
            {
                "kb_number": "https://kb?a=1&b=2",
                "kb_title": "KB"
            }
        ]
    },
    "2.10.0": {
        "name": "B",
        "release_date": "d",
        "build": "2.10.0",
        "kb_numbers": []
    }
}
`
	assert.Equal(t, want, string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestSave_ReplacesWithoutLeftovers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "versions.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"1.0.0": {"name": "old", "release_date": "", "build": "1.0.0", "kb_numbers": []}}`), 0644))

	s, _ := New(path)
	require.NoError(t, s.Save(sampleTable()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	data, _ := os.ReadFile(path)
	assert.False(t, strings.Contains(string(data), `"1.0.0"`))
}

func TestLoad_PreservesUnknownOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "versions.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"2.10.0": {"name": "b", "release_date": "", "build": "2.10.0", "kb_numbers": []},
		"2.1.0": {"name": "a", "release_date": "", "build": "2.1.0", "kb_numbers": []},
		"2.9.0": {"name": "c", "release_date": "", "build": "2.9.0", "kb_numbers": []}
	}`), 0644))

	s, _ := New(path)
	table, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"2.1.0", "2.9.0", "2.10.0"}, table.Keys())
}

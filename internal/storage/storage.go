package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfrederiksen/sharepoint-versions/internal/build"
)

// ErrNoPath is returned when no table file path is given
var ErrNoPath = errors.New("output files path missing")

// Storage handles persistence of the build table
type Storage struct {
	path string
}

// New creates a new Storage instance for the table file at path
func New(path string) (*Storage, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, ErrNoPath
	}

	// Expand ~ to home directory
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	return &Storage{
		path: path,
	}, nil
}

// Path returns the table file path
func (s *Storage) Path() string {
	return s.path
}

// Load reads the table from disk
func (s *Storage) Load() (*build.Table, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			// No previous table, start empty
			return build.NewTable(), nil
		}
		return nil, fmt.Errorf("reading table: %w", err)
	}

	table := build.NewTable()
	if len(bytes.TrimSpace(data)) == 0 {
		return table, nil
	}

	if err := json.Unmarshal(data, table); err != nil {
		return nil, fmt.Errorf("parsing table: %w", err)
	}

	return table, nil
}

// Save writes the table to disk, replacing the previous file
func (s *Storage) Save(table *build.Table) error {
	data, err := Encode(table)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() // nolint:errcheck
		return fmt.Errorf("writing table: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing table: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("setting table permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing table: %w", err)
	}

	return nil
}

// Encode renders the table the way it is stored on disk
func Encode(table *build.Table) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(table); err != nil {
		return nil, fmt.Errorf("encoding table: %w", err)
	}
	return buf.Bytes(), nil
}

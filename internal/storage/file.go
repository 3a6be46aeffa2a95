package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultDataDir is where FileStore keeps its tables unless told otherwise
const DefaultDataDir = "~/.local/share/boxscores"

// FileStore is a MemoryStore whose tables are written to JSON files after every change
type FileStore struct {
	*MemoryStore
	dataDir string
}

// NewFileStore opens (creating if needed) a JSON table store under dataDir
func NewFileStore(dataDir string) (*FileStore, error) {
	dir, err := expandHome(dataDir)
	if err != nil {
		return nil, err
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	fs := &FileStore{MemoryStore: NewMemoryStore(), dataDir: dir}
	for _, table := range []string{TableGames, TablePlayerStats, TableTeamStats} {
		rows, err := fs.load(table)
		if err != nil {
			return nil, err
		}
		fs.tables[table] = rows
	}
	fs.onChange = fs.save
	return fs, nil
}

// DataDir returns the resolved data directory
func (f *FileStore) DataDir() string {
	return f.dataDir
}

func (f *FileStore) tablePath(table string) string {
	return filepath.Join(f.dataDir, table+".json")
}

func (f *FileStore) load(table string) ([]Row, error) {
	data, err := os.ReadFile(f.tablePath(table))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", table, err)
	}

	var rows []Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", table, err)
	}
	return rows, nil
}

// save writes the table next to its final path and renames it into place
func (f *FileStore) save(table string, rows []Row) error {
	if rows == nil {
		rows = []Row{}
	}
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", table, err)
	}

	path := f.tablePath(table)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", table, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("writing %s: %w", table, err)
	}
	return nil
}

func expandHome(dir string) (string, error) {
	if dir == "" {
		dir = DefaultDataDir
	}
	// Expand ~ to home directory
	if strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, dir[2:])
	}
	return dir, nil
}

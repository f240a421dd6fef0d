package summary

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"docqa/internal/domain"
	"docqa/internal/port"
)

var _ port.SummaryStore = (*DirStore)(nil)

// DirStore serves summaries stored as plain-text files in one directory.
type DirStore struct {
	dir string
}

func NewDirStore(dir string) *DirStore {
	return &DirStore{dir: dir}
}

// Lookup reads dir/key. A missing file, or a key that would leave the
// directory, is reported as ok=false.
func (s *DirStore) Lookup(key string) (string, bool, error) {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return "", false, nil
	}

	path := filepath.Join(s.dir, key)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: %s: %v", domain.ErrSummaryLookup, path, err)
	}
	return string(data), true, nil
}

// Path returns where key would be read from.
func (s *DirStore) Path(key string) string {
	return filepath.Join(s.dir, key)
}

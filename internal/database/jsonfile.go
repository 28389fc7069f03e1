package database

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"tfabot/entity"
)

// FileStorage keeps the whole user store in a single JSON file, one object
// keyed by user id. Reads and writes always cover the full store; there is no
// partial update, last writer wins.
type FileStorage struct {
	path string
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Load reads the store file. A missing file is a normal first run and yields
// an empty store; anything else is reported to the caller.
func (f *FileStorage) Load() (*entity.Store, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return entity.NewStore(), nil
		}
		return nil, fmt.Errorf("reading %s: %w", f.path, err)
	}
	store := entity.NewStore()
	if err = json.Unmarshal(data, store); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", f.path, err)
	}
	return store, nil
}

// Save writes the full store through a temp file plus rename, so a crash
// mid-write cannot leave a truncated store behind.
func (f *FileStorage) Save(store *entity.Store) error {
	data, err := json.Marshal(store)
	if err != nil {
		return fmt.Errorf("encoding user store: %w", err)
	}
	tmp := filepath.Join(
		filepath.Dir(f.path),
		fmt.Sprintf(".%s.%s", filepath.Base(f.path), uuid.New().String()[:8]),
	)
	if err = os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err = os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing %s: %w", f.path, err)
	}
	return nil
}

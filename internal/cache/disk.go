package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DiskStore keeps one JSON file per entry so results survive CLI restarts
type DiskStore struct {
	dir string
	now func() time.Time
}

// NewDiskStore creates a disk tier rooted at dir. The directory is created
// on first write.
func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{dir: dir, now: time.Now}
}

// Load reads an entry. Stale or corrupt files are removed.
func (d *DiskStore) Load(key Key) (Entry, bool) {
	path := d.path(key)
	raw, err := os.ReadFile(path) //nolint:gosec // file name is a key hash
	if err != nil {
		return Entry{}, false
	}

	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil || e.Expired(d.now()) {
		_ = os.Remove(path)
		return Entry{}, false
	}
	return e, true
}

// Save writes e through a temp file and rename
func (d *DiskStore) Save(key Key, e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := os.MkdirAll(d.dir, 0o750); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(d.dir, "entry-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if err := errors.Join(werr, cerr); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write cache entry: %w", err)
	}
	return os.Rename(tmp.Name(), d.path(key))
}

func (d *DiskStore) Purge(key Key) error {
	if err := os.Remove(d.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (d *DiskStore) Reset() error {
	return os.RemoveAll(d.dir)
}

func (d *DiskStore) path(key Key) string {
	return filepath.Join(d.dir, key.String()+".json")
}

package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore is the in-process tier. go-cache evicts entries at their
// ExpiresAt.
type MemoryStore struct {
	items *gocache.Cache
}

// NewMemoryStore creates a memory tier swept every cleanupInterval
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	return &MemoryStore{items: gocache.New(gocache.NoExpiration, cleanupInterval)}
}

func (m *MemoryStore) Load(key Key) (Entry, bool) {
	v, ok := m.items.Get(key.String())
	if !ok {
		return Entry{}, false
	}
	e, ok := v.(Entry)
	return e, ok
}

func (m *MemoryStore) Save(key Key, e Entry) error {
	ttl := gocache.NoExpiration
	if !e.ExpiresAt.IsZero() {
		ttl = time.Until(e.ExpiresAt)
		if ttl <= 0 {
			return nil
		}
	}
	m.items.Set(key.String(), e, ttl)
	return nil
}

func (m *MemoryStore) Purge(key Key) error {
	m.items.Delete(key.String())
	return nil
}

func (m *MemoryStore) Reset() error {
	m.items.Flush()
	return nil
}

// Len reports the number of live entries
func (m *MemoryStore) Len() int {
	return m.items.ItemCount()
}

package cache

import (
	"time"

	"github.com/ppiankov/policywatch/internal/model"
)

// DefaultTTL applies when Results is built with a zero ttl
const DefaultTTL = 24 * time.Hour

// Results is the analysis client's view of a Store. Only remote answers
// are kept; fallback entries are always recomputed.
type Results struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

// NewResults wraps store
func NewResults(store Store, ttl time.Duration) *Results {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Results{store: store, ttl: ttl, now: time.Now}
}

// Get returns the cached result for key
func (r *Results) Get(key Key) (model.AnalysisResult, bool) {
	e, ok := r.store.Load(key)
	if !ok || e.Expired(r.now()) {
		return model.AnalysisResult{}, false
	}
	return e.Result, true
}

// Put caches result under key
func (r *Results) Put(key Key, result model.AnalysisResult) error {
	if result.Source != model.SourceRemote {
		return nil
	}
	now := r.now()
	return r.store.Save(key, Entry{Result: result, StoredAt: now, ExpiresAt: now.Add(r.ttl)})
}

// Forget drops key from every tier
func (r *Results) Forget(key Key) error {
	return r.store.Purge(key)
}

// Package cache stores successful backend analyses so repeated visits to
// the same policy do not hit the network.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/ppiankov/policywatch/internal/model"
)

// Kind separates policy-text analyses from company lookups
type Kind string

const (
	KindPolicy  Kind = "policy"
	KindCompany Kind = "company"
)

// Key identifies one cached analysis. Target is the page URL for policies
// and the site origin for companies.
type Key struct {
	Kind   Kind
	Target string
}

// String returns the storage form of the key
func (k Key) String() string {
	hash := sha256.Sum256([]byte(string(k.Kind) + "\x00" + k.Target))
	return "policywatch-v1-" + string(k.Kind) + "-" + hex.EncodeToString(hash[:16])
}

// Entry is a stored analysis with its lifetime
type Entry struct {
	Result    model.AnalysisResult `json:"result"`
	StoredAt  time.Time            `json:"stored_at"`
	ExpiresAt time.Time            `json:"expires_at"`
}

// Expired reports whether e is stale at now
func (e Entry) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// Store is one storage tier
type Store interface {
	Load(key Key) (Entry, bool)
	Save(key Key, e Entry) error
	Purge(key Key) error
	Reset() error
}

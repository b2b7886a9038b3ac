package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is the storage contract for fetched ground-truth data. The cache is
// the only state shared across concurrent evaluations, so implementations
// must be safe for concurrent use. Entries expire; nothing here persists
// beyond a research run.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives the versioned cache key for one provider/subject pair. The
// version segment invalidates every entry when the stored format changes.
func Key(provider, subject string) string {
	hash := sha256.Sum256([]byte(provider + "|" + subject))
	return "credence:v1:" + hex.EncodeToString(hash[:])
}

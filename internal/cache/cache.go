package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores fetched filing bodies by key
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// CacheKey generates a cache key from a filing address
func CacheKey(address string) string {
	hash := sha256.Sum256([]byte(address))
	return "edgarscan-v1-" + hex.EncodeToString(hash[:])
}

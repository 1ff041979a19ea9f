package store

import (
	"encoding/json"
	"time"
)

// CacheEntry is one memoized statistics value.
type CacheEntry struct {
	ID        string
	Key       string
	Value     json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

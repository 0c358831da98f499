package domain

import "time"

// CacheEntry stores a cached completion for a (model, query) pair.
type CacheEntry struct {
	Model     string    `json:"model"`
	Query     string    `json:"query"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

// Expired reports whether the entry is older than maxAge at now.
func (e CacheEntry) Expired(now time.Time, maxAge time.Duration) bool {
	return now.Sub(e.Timestamp) > maxAge
}

package main

import (
	"github.com/dingyi222666/aura-music/cache"
	"github.com/dingyi222666/aura-music/lyrics"
)

type contextKey string

const (
	cacheOnlyModeKey contextKey = "cacheOnlyMode"
	rateLimitTypeKey contextKey = "rateLimitType"
)

// ParseRequest is the JSON body accepted by /parseLyrics
type ParseRequest struct {
	Lyrics      string `json:"lyrics"`
	Translation string `json:"translation,omitempty"`
}

// ParseResponse is the payload returned by /parseLyrics
type ParseResponse struct {
	Format string        `json:"format"`
	Count  int           `json:"count"`
	Lines  []lyrics.Line `json:"lines"`
}

// CacheDump represents the full cache contents
type CacheDump map[string]cache.CacheEntry

// CachePerformance contains cache hit/miss statistics
type CachePerformance struct {
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate_percent"`
}

// CacheDumpResponse is the response format for /cache endpoint
type CacheDumpResponse struct {
	NumberOfKeys int              `json:"number_of_keys"`
	SizeInKB     int              `json:"size_kb"`
	SizeInMB     float64          `json:"size_mb"`
	Performance  CachePerformance `json:"performance"`
	Cache        CacheDump        `json:"cache"`
}

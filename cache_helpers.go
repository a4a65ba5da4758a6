package main

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/dingyi222666/aura-music/cache"
	"github.com/dingyi222666/aura-music/logcolors"
)

// persistentCache holds parse results across restarts; initialized in main
// (tests swap in a temporary one).
var persistentCache *cache.PersistentCache

// getParseCache looks up a cached parse payload by content key
func getParseCache(key string) (string, bool) {
	return persistentCache.Get(key)
}

// setParseCache stores a parse payload with the configured TTL
func setParseCache(key, payload string) {
	ttl := time.Duration(conf.Configuration.ParseCacheTTLInSeconds) * time.Second
	if err := persistentCache.Set(key, payload, ttl); err != nil {
		log.Errorf("%s Failed to cache parse result: %v", logcolors.LogCacheParse, err)
	}
}

// invalidateCache periodically sweeps expired entries from the cache
func invalidateCache() {
	interval := time.Duration(conf.Configuration.CacheInvalidationIntervalInSeconds) * time.Second
	log.Infof("%s Starting cache invalidation goroutine (interval: %v)", logcolors.LogCache, interval)
	for {
		time.Sleep(interval)
		if removed := persistentCache.Invalidate(); removed > 0 {
			log.Infof("%s Invalidated %d expired entries", logcolors.LogCache, removed)
		}
	}
}

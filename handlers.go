package main

import (
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/dingyi222666/aura-music/cache"
	"github.com/dingyi222666/aura-music/logcolors"
	"github.com/dingyi222666/aura-music/lyrics"
	"github.com/dingyi222666/aura-music/stats"
)

// maxRequestBody caps lyric uploads; real lyric files are a few KB
const maxRequestBody = 1 << 20

// buildCacheKey derives a stable key from the request content and the
// active engine options, so tolerance changes never serve stale results.
func buildCacheKey(content, translation string, opts lyrics.Options) string {
	h := sha1.New()
	io.WriteString(h, content)
	h.Write([]byte{0})
	io.WriteString(h, translation)
	h.Write([]byte{0})
	io.WriteString(h, fmt.Sprintf("%+v", opts))
	return fmt.Sprintf("parse:%x", h.Sum(nil))
}

// decodeParseRequest accepts either a JSON body ({"lyrics": ..., "translation": ...})
// or a raw lyric blob as plain text.
func decodeParseRequest(r *http.Request) (ParseRequest, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		return ParseRequest{}, fmt.Errorf("failed to read request body: %v", err)
	}

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		var req ParseRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return ParseRequest{}, fmt.Errorf("invalid JSON body: %v", err)
		}
		return req, nil
	}

	return ParseRequest{Lyrics: string(body)}, nil
}

func parseLyricsHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		stats.Get().RecordResponseTime(time.Since(start), "/parseLyrics")
	}()

	req, err := decodeParseRequest(r)
	if err != nil {
		Respond(w, r).Error(http.StatusBadRequest, map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	if strings.TrimSpace(req.Lyrics) == "" {
		Respond(w, r).Error(http.StatusUnprocessableEntity, map[string]interface{}{
			"error": "No lyrics content provided",
		})
		return
	}

	opts := conf.LyricsOptions()
	cacheKey := buildCacheKey(req.Lyrics, req.Translation, opts)
	format := string(lyrics.DetectFormat(req.Lyrics))

	// Cache-only mode is set by the rate limiter's second tier
	cacheOnlyMode, _ := r.Context().Value(cacheOnlyModeKey).(bool)

	if cached, ok := getParseCache(cacheKey); ok {
		stats.Get().RecordCacheHit()
		log.Infof("%s Serving cached parse result", logcolors.LogCacheParse)
		Respond(w, r).SetCacheStatus("HIT").SetFormat(format).Raw([]byte(cached))
		return
	}

	if cacheOnlyMode {
		stats.Get().RecordCacheMiss()
		stats.Get().RecordRateLimit("exceeded")
		log.Warnf("%s Cache-only mode but no cached result for this content", logcolors.LogCacheParse)
		w.Header().Set("Retry-After", "1")
		Respond(w, r).SetCacheStatus("MISS").Error(http.StatusTooManyRequests, map[string]interface{}{
			"error":   "Rate limit exceeded. This request requires cached data, but no cache is available for this content.",
			"message": "Please try again later or reduce your request rate.",
		})
		return
	}

	stats.Get().RecordCacheMiss()

	lines := lyrics.ParseWithOptions(req.Lyrics, req.Translation, opts)

	response := ParseResponse{
		Format: format,
		Count:  len(lines),
		Lines:  lines,
	}
	stats.Get().RecordParse(format, len(lines), strings.TrimSpace(req.Translation) != "")

	payload, err := json.Marshal(response)
	if err != nil {
		log.Errorf("%s Failed to marshal parse result: %v", logcolors.LogCacheParse, err)
		Respond(w, r).Error(http.StatusInternalServerError, map[string]interface{}{
			"error": "Failed to encode parse result",
		})
		return
	}

	setParseCache(cacheKey, string(payload))

	Respond(w, r).SetCacheStatus("MISS").SetFormat(format).Raw(payload)
}

func getStats(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != conf.Configuration.CacheAccessToken {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	snapshot := stats.Get().Snapshot()

	// Add cache storage info
	numKeys, sizeInKB := persistentCache.Stats()
	snapshot["cache_storage"] = map[string]interface{}{
		"keys":    numKeys,
		"size_kb": sizeInKB,
		"size_mb": float64(sizeInKB) / 1024,
	}

	Respond(w, r).JSON(snapshot)
}

func getCacheDump(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != conf.Configuration.CacheAccessToken {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	cacheDump := CacheDump{}
	persistentCache.Range(func(key string, entry cache.CacheEntry) bool {
		cacheDump[key] = entry
		return true
	})

	numKeys, sizeInKB := persistentCache.Stats()
	s := stats.Get()

	cacheDumpResponse := CacheDumpResponse{
		NumberOfKeys: numKeys,
		SizeInKB:     sizeInKB,
		SizeInMB:     float64(sizeInKB) / 1024,
		Performance: CachePerformance{
			Hits:    s.CacheHits.Load(),
			Misses:  s.CacheMisses.Load(),
			HitRate: s.CacheHitRate(),
		},
		Cache: cacheDump,
	}

	Respond(w, r).JSON(cacheDumpResponse)
}

func clearCache(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != conf.Configuration.CacheAccessToken {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := persistentCache.Clear(); err != nil {
		log.Errorf("%s Failed to clear cache: %v", logcolors.LogCacheClear, err)
		Respond(w, r).Error(http.StatusInternalServerError, map[string]interface{}{
			"error": fmt.Sprintf("Failed to clear cache: %v", err),
		})
		return
	}

	log.Infof("%s Cache cleared successfully", logcolors.LogCacheClear)
	Respond(w, r).JSON(map[string]interface{}{
		"message": "Cache cleared successfully",
	})
}

func getHealthStatus(w http.ResponseWriter, r *http.Request) {
	numKeys, _ := persistentCache.Stats()

	Respond(w, r).JSON(map[string]interface{}{
		"status":     "ok",
		"uptime":     stats.Get().Uptime().String(),
		"cache_keys": numKeys,
	})
}

func helpHandler(w http.ResponseWriter, r *http.Request) {
	Respond(w, r).JSON(map[string]interface{}{
		"help": "POST lyric text to /parseLyrics to get timed lines. Send a JSON body {\"lyrics\": \"...\", \"translation\": \"...\"} or the raw lyric file as plain text. Line-timestamp and word-synced formats are detected automatically.",
	})
}

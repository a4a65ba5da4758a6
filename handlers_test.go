package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dingyi222666/aura-music/cache"
	"github.com/dingyi222666/aura-music/lyrics"
)

// setupTestEnvironment creates a temporary cache for testing
func setupTestEnvironment(t *testing.T) func() {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test_cache.db")

	var err error
	persistentCache, err = cache.NewPersistentCache(dbPath, false)
	if err != nil {
		t.Fatalf("Failed to create test cache: %v", err)
	}

	return func() {
		persistentCache.Close()
	}
}

func postLyrics(t *testing.T, body string, contentType string) *httptest.ResponseRecorder {
	t.Helper()

	r := httptest.NewRequest(http.MethodPost, "/parseLyrics", strings.NewReader(body))
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	parseLyricsHandler(w, r)
	return w
}

func decodeParseResponse(t *testing.T, w *httptest.ResponseRecorder) ParseResponse {
	t.Helper()

	var resp ParseResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return resp
}

func TestParseLyricsHandler_JSONBody(t *testing.T) {
	cleanup := setupTestEnvironment(t)
	defer cleanup()

	body := `{"lyrics": "[00:12.34]Hello world\n[00:15.00]Second line"}`
	w := postLyrics(t, body, "application/json")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := decodeParseResponse(t, w)
	if resp.Format != "lrc" {
		t.Errorf("Expected lrc format, got %q", resp.Format)
	}
	if resp.Count != 2 {
		t.Errorf("Expected 2 lines, got %d", resp.Count)
	}
	if len(resp.Lines) != 2 || resp.Lines[0].Text != "Hello world" {
		t.Errorf("Unexpected lines: %+v", resp.Lines)
	}
	if got := w.Header().Get("X-Cache-Status"); got != "MISS" {
		t.Errorf("Expected X-Cache-Status MISS on first parse, got %q", got)
	}
}

func TestParseLyricsHandler_RawTextBody(t *testing.T) {
	cleanup := setupTestEnvironment(t)
	defer cleanup()

	w := postLyrics(t, "[00:01.00]Plain text body", "text/plain")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := decodeParseResponse(t, w)
	if resp.Count != 1 || resp.Lines[0].Text != "Plain text body" {
		t.Errorf("Unexpected response: %+v", resp)
	}
}

func TestParseLyricsHandler_WordSyncedFormat(t *testing.T) {
	cleanup := setupTestEnvironment(t)
	defer cleanup()

	body := `{"lyrics": "[1000,2000](1000,500,0)Hello(1500,500,0)World"}`
	w := postLyrics(t, body, "application/json")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := decodeParseResponse(t, w)
	if resp.Format != "yrc" {
		t.Errorf("Expected yrc format, got %q", resp.Format)
	}
	if got := w.Header().Get("X-Format"); got != "yrc" {
		t.Errorf("Expected X-Format yrc, got %q", got)
	}
	if resp.Count != 1 || !resp.Lines[0].IsPreciseTiming {
		t.Errorf("Expected one precise line, got %+v", resp.Lines)
	}
}

func TestParseLyricsHandler_WithTranslation(t *testing.T) {
	cleanup := setupTestEnvironment(t)
	defer cleanup()

	req := ParseRequest{
		Lyrics:      "[00:12.34]Hello",
		Translation: "[00:12.34]Bonjour",
	}
	body, _ := json.Marshal(req)
	w := postLyrics(t, string(body), "application/json")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := decodeParseResponse(t, w)
	if resp.Count != 1 || resp.Lines[0].Translation != "Bonjour" {
		t.Errorf("Expected translation attached, got %+v", resp.Lines)
	}
}

func TestParseLyricsHandler_EmptyBody(t *testing.T) {
	cleanup := setupTestEnvironment(t)
	defer cleanup()

	w := postLyrics(t, `{"lyrics": "   "}`, "application/json")

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422 for blank lyrics, got %d", w.Code)
	}
}

func TestParseLyricsHandler_InvalidJSON(t *testing.T) {
	cleanup := setupTestEnvironment(t)
	defer cleanup()

	w := postLyrics(t, `{"lyrics": `, "application/json")

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed JSON, got %d", w.Code)
	}
}

func TestParseLyricsHandler_CacheHitOnRepeat(t *testing.T) {
	cleanup := setupTestEnvironment(t)
	defer cleanup()

	body := `{"lyrics": "[00:12.34]Cached line"}`

	first := postLyrics(t, body, "application/json")
	if got := first.Header().Get("X-Cache-Status"); got != "MISS" {
		t.Fatalf("Expected MISS on first request, got %q", got)
	}

	second := postLyrics(t, body, "application/json")
	if got := second.Header().Get("X-Cache-Status"); got != "HIT" {
		t.Errorf("Expected HIT on repeat request, got %q", got)
	}
	if first.Body.String() != second.Body.String() {
		t.Error("Cached response must match the original response")
	}
}

func TestBuildCacheKey_SensitiveToInputs(t *testing.T) {
	opts := lyrics.DefaultOptions()

	base := buildCacheKey("[00:01.00]a", "", opts)

	if buildCacheKey("[00:01.00]b", "", opts) == base {
		t.Error("Different content must produce different keys")
	}
	if buildCacheKey("[00:01.00]a", "[00:01.00]t", opts) == base {
		t.Error("Adding a translation must change the key")
	}

	changed := opts
	changed.InterludeThreshold = 20
	if buildCacheKey("[00:01.00]a", "", changed) == base {
		t.Error("Changing options must change the key")
	}
	if buildCacheKey("[00:01.00]a", "", opts) != base {
		t.Error("Identical inputs must produce identical keys")
	}
}

func TestGetHealthStatus(t *testing.T) {
	cleanup := setupTestEnvironment(t)
	defer cleanup()

	w := httptest.NewRecorder()
	getHealthStatus(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var health map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &health); err != nil {
		t.Fatalf("Failed to decode health response: %v", err)
	}
	if health["status"] != "ok" {
		t.Errorf("Expected ok status, got %v", health["status"])
	}
}

func TestCacheEndpointsRequireAuth(t *testing.T) {
	cleanup := setupTestEnvironment(t)
	defer cleanup()

	handlers := map[string]http.HandlerFunc{
		"/cache":       getCacheDump,
		"/cache/clear": clearCache,
		"/stats":       getStats,
	}

	for path, handler := range handlers {
		t.Run(path, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, path, nil)
			r.Header.Set("Authorization", "wrong-token")
			w := httptest.NewRecorder()
			handler(w, r)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("Expected 401 with bad token, got %d", w.Code)
			}
		})
	}
}

func TestClearCacheRemovesEntries(t *testing.T) {
	cleanup := setupTestEnvironment(t)
	defer cleanup()

	postLyrics(t, `{"lyrics": "[00:12.34]To be cleared"}`, "application/json")

	r := httptest.NewRequest(http.MethodGet, "/cache/clear", nil)
	r.Header.Set("Authorization", conf.Configuration.CacheAccessToken)
	w := httptest.NewRecorder()
	clearCache(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	numKeys, _ := persistentCache.Stats()
	if numKeys != 0 {
		t.Errorf("Expected empty cache after clear, have %d keys", numKeys)
	}
}

func TestHelpHandler(t *testing.T) {
	w := httptest.NewRecorder()
	helpHandler(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var help map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &help); err != nil {
		t.Fatalf("Failed to decode help response: %v", err)
	}
	if _, ok := help["help"]; !ok {
		t.Error("Expected help field in response")
	}
}

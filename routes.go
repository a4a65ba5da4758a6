package main

import (
	"github.com/gorilla/mux"
)

// setupRoutes configures all HTTP routes for the API
func setupRoutes(router *mux.Router) {
	// Parse endpoint - accepts raw lyrics (and optional translation), returns timed lines
	router.HandleFunc("/parseLyrics", parseLyricsHandler).Methods("POST")

	// Cache management endpoints
	router.HandleFunc("/cache", getCacheDump)
	router.HandleFunc("/cache/clear", clearCache)

	// Health and stats endpoints
	router.HandleFunc("/health", getHealthStatus)
	router.HandleFunc("/stats", getStats)

	// Help endpoint
	router.HandleFunc("/", helpHandler)
}

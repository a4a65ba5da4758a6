package main

import (
	"encoding/json"
	"net/http"
)

// APIResponse handles consistent header setting and JSON responses.
// It centralizes the logic for setting X-Cache-Status, X-Format,
// X-RateLimit-Type, and other standard headers based on request context.
type APIResponse struct {
	w           http.ResponseWriter
	r           *http.Request
	cacheStatus string
	format      string
}

// Respond creates a response helper from request context
func Respond(w http.ResponseWriter, r *http.Request) *APIResponse {
	return &APIResponse{w: w, r: r}
}

// SetCacheStatus sets the X-Cache-Status header value
func (a *APIResponse) SetCacheStatus(status string) *APIResponse {
	a.cacheStatus = status
	return a
}

// SetFormat sets the X-Format header value
func (a *APIResponse) SetFormat(format string) *APIResponse {
	a.format = format
	return a
}

// writeHeaders sets all standard headers based on context
func (a *APIResponse) writeHeaders() {
	a.w.Header().Set("Content-Type", "application/json")

	if a.cacheStatus != "" {
		a.w.Header().Set("X-Cache-Status", a.cacheStatus)
	}
	if a.format != "" {
		a.w.Header().Set("X-Format", a.format)
	}

	// Rate limit type from context
	if rateLimitType, ok := a.r.Context().Value(rateLimitTypeKey).(string); ok && rateLimitType != "" {
		a.w.Header().Set("X-RateLimit-Type", rateLimitType)
	}
}

// JSON writes headers and encodes data as JSON (200 OK)
func (a *APIResponse) JSON(data interface{}) error {
	a.writeHeaders()
	return json.NewEncoder(a.w).Encode(data)
}

// Raw writes headers and sends a pre-encoded JSON payload
func (a *APIResponse) Raw(payload []byte) error {
	a.writeHeaders()
	_, err := a.w.Write(payload)
	return err
}

// Error writes headers, sets status code, and encodes error response
func (a *APIResponse) Error(statusCode int, data interface{}) error {
	a.writeHeaders()
	a.w.WriteHeader(statusCode)
	return json.NewEncoder(a.w).Encode(data)
}

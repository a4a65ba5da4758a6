package middleware

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/dingyi222666/aura-music/stats"
)

// statusRecorder captures the status code written by the wrapped handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// getStatusColor returns the ANSI color for a status code class
func getStatusColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "\033[32m" // Green
	case statusCode >= 300 && statusCode < 400:
		return "\033[36m" // Cyan
	case statusCode >= 400 && statusCode < 500:
		return "\033[33m" // Yellow
	default:
		return "\033[31m" // Red
	}
}

// LoggingMiddleware logs every request with method, path, status and latency
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		stats.Get().RecordRequest(r.URL.Path)
		stats.Get().RecordStatusCode(recorder.status)

		statusColor := getStatusColor(recorder.status)
		log.Infof("%s %s %s%d\033[0m %s", r.Method, r.URL.Path, statusColor, recorder.status, time.Since(start))
	})
}

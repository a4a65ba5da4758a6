package main

import (
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/dingyi222666/aura-music/cache"
	"github.com/dingyi222666/aura-music/config"
	"github.com/dingyi222666/aura-music/logcolors"
	"github.com/dingyi222666/aura-music/middleware"
	"github.com/dingyi222666/aura-music/stats"
)

var conf = config.Get()

func init() {
	log.SetFormatter(&log.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.InfoLevel) // Set to InfoLevel (change to DebugLevel for detailed logs)

	err := godotenv.Load()
	if err != nil {
		log.Warn("Error loading .env file, using environment variables")
	}
}

func main() {
	var err error
	persistentCache, err = cache.NewPersistentCache(conf.Configuration.CacheDBPath, conf.FeatureFlags.CacheCompression)
	if err != nil {
		log.Fatalf("%s Failed to initialize persistent cache: %v", logcolors.LogCacheInit, err)
	}
	defer persistentCache.Close()

	statsStore, err := stats.NewStore(conf.Configuration.StatsDBPath)
	if err != nil {
		log.Warnf("%s Failed to initialize stats store, stats will not persist: %v", logcolors.LogStats, err)
	} else {
		if err := statsStore.Load(); err != nil {
			log.Warnf("%s Failed to load persisted stats: %v", logcolors.LogStats, err)
		}
		statsStore.StartAutoSave(time.Duration(conf.Configuration.StatsSaveIntervalInSeconds) * time.Second)
		defer statsStore.Close()
	}

	// start goroutine to invalidate cache
	go invalidateCache()

	router := mux.NewRouter()
	setupRoutes(router)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST"},
		AllowCredentials: false,
	})

	limiter := middleware.NewIPRateLimiter(
		rate.Limit(conf.Configuration.RateLimitPerSecond),
		conf.Configuration.RateLimitBurstLimit,
		rate.Limit(conf.Configuration.CachedRateLimitPerSecond),
		conf.Configuration.CachedRateLimitBurstLimit,
	)

	// logging middleware
	loggedRouter := middleware.LoggingMiddleware(router)
	// chain cors middleware
	corsHandler := c.Handler(loggedRouter)
	// chain rate limiter
	handler := limitMiddleware(corsHandler, limiter)

	log.Infof("%s Server listening on port %s", logcolors.LogServer, port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}

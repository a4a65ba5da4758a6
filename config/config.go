package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"

	"github.com/dingyi222666/aura-music/lyrics"
)

var conf = mustLoad()

type Config struct {
	Configuration struct {
		RateLimitPerSecond                 int    `envconfig:"RATE_LIMIT_PER_SECOND" default:"5"`
		RateLimitBurstLimit                int    `envconfig:"RATE_LIMIT_BURST_LIMIT" default:"10"`
		CachedRateLimitPerSecond           int    `envconfig:"CACHED_RATE_LIMIT_PER_SECOND" default:"20"`
		CachedRateLimitBurstLimit          int    `envconfig:"CACHED_RATE_LIMIT_BURST_LIMIT" default:"40"`
		CacheInvalidationIntervalInSeconds int    `envconfig:"CACHE_INVALIDATION_INTERVAL_IN_SECONDS" default:"3600"`
		ParseCacheTTLInSeconds             int    `envconfig:"PARSE_CACHE_TTL_IN_SECONDS" default:"86400"`
		CacheDBPath                        string `envconfig:"CACHE_DB_PATH" default:"./data/parse-cache.db"`
		CacheAccessToken                   string `envconfig:"CACHE_ACCESS_TOKEN" default:""`
		StatsDBPath                        string `envconfig:"STATS_DB_PATH" default:"./data/stats.db"`
		StatsSaveIntervalInSeconds         int    `envconfig:"STATS_SAVE_INTERVAL_IN_SECONDS" default:"300"`

		// Lyrics engine tunables (seconds unless noted)
		LyricsGroupWindow           float64 `envconfig:"LYRICS_GROUP_WINDOW" default:"0.1"`
		LyricsMaxWordDuration       float64 `envconfig:"LYRICS_MAX_WORD_DURATION" default:"2.0"`
		LyricsPreciseMatchTolerance float64 `envconfig:"LYRICS_PRECISE_MATCH_TOLERANCE" default:"3.0"`  // word-synced translation tracks drift
		LyricsLineMatchTolerance    float64 `envconfig:"LYRICS_LINE_MATCH_TOLERANCE" default:"0.25"`
		LyricsLastLineDuration      float64 `envconfig:"LYRICS_LAST_LINE_DURATION" default:"5.0"`
		LyricsInterludeThreshold    float64 `envconfig:"LYRICS_INTERLUDE_THRESHOLD" default:"10.0"`
		LyricsInterludeHold         float64 `envconfig:"LYRICS_INTERLUDE_HOLD" default:"5.0"`
	}

	FeatureFlags struct {
		CacheCompression   bool `envconfig:"FF_CACHE_COMPRESSION" default:"true"`
		InterludeInsertion bool `envconfig:"FF_INTERLUDE_INSERTION" default:"true"`
	}
}

// load loads the configuration from the environment.
func load() (Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Warnf("Error loading env config: %v", err)
	}

	cfg := Config{}
	err = envconfig.Process("", &cfg)
	return cfg, err
}

func mustLoad() Config {
	c, err := load()
	if err != nil {
		log.WithError(err).Warnf("Unable to load configuration")
	}

	return c
}

func Get() Config {
	return conf
}

// LyricsOptions maps the environment tunables onto the engine's option set,
// starting from the engine defaults.
func (c Config) LyricsOptions() lyrics.Options {
	opts := lyrics.DefaultOptions()
	opts.GroupWindow = c.Configuration.LyricsGroupWindow
	opts.MaxWordDuration = c.Configuration.LyricsMaxWordDuration
	opts.PreciseMatchTolerance = c.Configuration.LyricsPreciseMatchTolerance
	opts.LineMatchTolerance = c.Configuration.LyricsLineMatchTolerance
	opts.LastLineDuration = c.Configuration.LyricsLastLineDuration
	opts.InterludeThreshold = c.Configuration.LyricsInterludeThreshold
	opts.InterludeHold = c.Configuration.LyricsInterludeHold
	opts.InsertInterludes = c.FeatureFlags.InterludeInsertion
	return opts
}

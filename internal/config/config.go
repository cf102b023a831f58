package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP     HTTPConfig
	Graph    GraphConfig
	Redis    RedisConfig
	Matching MatchingConfig
	Logging  LoggingConfig
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host              string
	Port              int
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	AllowedOriginsCSV string
}

// GraphConfig describes connectivity to the graph database.
type GraphConfig struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// RedisConfig describes the optional match cache. An empty Addr disables
// caching entirely.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	MatchTTL time.Duration
}

// MatchingConfig holds the tunables of the compatibility pipeline.
type MatchingConfig struct {
	InterestsWeight    float64
	PersonalityWeight  float64
	DemographicsWeight float64
	AffiliationWeight  float64

	CandidateLimit    int
	DefaultMatchLimit int
	MaxMatchLimit     int
	MinCompatibility  float64
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string
	Format        string // text|json
	IncludeCaller bool
}

const (
	defaultHost             = "0.0.0.0"
	defaultPort             = 8080
	defaultReadTimeout      = 10 * time.Second
	defaultWriteTimeout     = 15 * time.Second
	defaultIdleTimeout      = 60 * time.Second
	defaultShutdownTimeout  = 10 * time.Second
	defaultLoggingLevel     = "info"
	defaultLoggingFormat    = "text"
	defaultGraphMaxSessions = 10
	defaultMatchTTL         = 5 * time.Minute

	defaultInterestsWeight    = 0.40
	defaultPersonalityWeight  = 0.35
	defaultDemographicsWeight = 0.15
	defaultAffiliationWeight  = 0.10

	defaultCandidateLimit    = 100
	defaultMatchLimit        = 10
	defaultMaxMatchLimit     = 50
	defaultMinCompatibility  = 0.3
)

// Load reads configuration from environment variables, applying defaults.
func Load() (Config, error) {
	cfg := Config{
		HTTP: HTTPConfig{
			Host:            valueOrDefault("SERVER_HOST", defaultHost),
			ReadTimeout:     defaultReadTimeout,
			WriteTimeout:    defaultWriteTimeout,
			IdleTimeout:     defaultIdleTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Logging: LoggingConfig{
			Level:         valueOrDefault("LOG_LEVEL", defaultLoggingLevel),
			Format:        valueOrDefault("LOG_FORMAT", defaultLoggingFormat),
			IncludeCaller: parseBoolWithDefault("LOG_INCLUDE_CALLER", false),
		},
		Graph: GraphConfig{
			URI:            os.Getenv("GRAPH_URI"),
			Database:       valueOrDefault("GRAPH_DATABASE", ""),
			Username:       os.Getenv("GRAPH_USERNAME"),
			Password:       os.Getenv("GRAPH_PASSWORD"),
			MaxConnections: parseIntWithDefault("GRAPH_MAX_CONNECTIONS", defaultGraphMaxSessions),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       parseIntWithDefault("REDIS_DB", 0),
			MatchTTL: defaultMatchTTL,
		},
		Matching: MatchingConfig{
			InterestsWeight:    parseFloatWithDefault("MATCH_INTERESTS_WEIGHT", defaultInterestsWeight),
			PersonalityWeight:  parseFloatWithDefault("MATCH_PERSONALITY_WEIGHT", defaultPersonalityWeight),
			DemographicsWeight: parseFloatWithDefault("MATCH_DEMOGRAPHICS_WEIGHT", defaultDemographicsWeight),
			AffiliationWeight:  parseFloatWithDefault("MATCH_AFFILIATION_WEIGHT", defaultAffiliationWeight),
			CandidateLimit:     parseIntWithDefault("MATCH_CANDIDATE_LIMIT", defaultCandidateLimit),
			DefaultMatchLimit:  parseIntWithDefault("MATCH_DEFAULT_LIMIT", defaultMatchLimit),
			MaxMatchLimit:      parseIntWithDefault("MATCH_MAX_LIMIT", defaultMaxMatchLimit),
			MinCompatibility:   parseFloatWithDefault("MATCH_MIN_COMPATIBILITY", defaultMinCompatibility),
		},
	}

	port, err := parsePort("SERVER_PORT", defaultPort)
	if err != nil {
		return Config{}, err
	}
	cfg.HTTP.Port = port

	if v := os.Getenv("SERVER_SHUTDOWN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.ShutdownTimeout = d
		} else {
			return Config{}, fmt.Errorf("invalid SERVER_SHUTDOWN_TIMEOUT: %w", err)
		}
	}

	if v := os.Getenv("REDIS_MATCH_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Redis.MatchTTL = d
		} else {
			return Config{}, fmt.Errorf("invalid REDIS_MATCH_TTL: %w", err)
		}
	}

	cfg.HTTP.AllowedOriginsCSV = os.Getenv("SERVER_ALLOWED_ORIGINS")

	return cfg, nil
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBoolWithDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return val
	}
	return fallback
}

func parseIntWithDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			return val
		}
	}
	return fallback
}

func parseFloatWithDefault(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.ParseFloat(v, 64); err == nil {
			return val
		}
	}
	return fallback
}

func parsePort(key string, fallback int) (int, error) {
	if v := os.Getenv(key); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
		}
		if port <= 0 || port > 65535 {
			return 0, fmt.Errorf("port %d is out of range", port)
		}
		return port, nil
	}
	return fallback, nil
}

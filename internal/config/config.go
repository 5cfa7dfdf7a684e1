// Package config reads runtime settings from the environment.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every tunable of the server and the CLI
type Config struct {
	DatabaseURL string
	Port        string
	Env         string
	LogLevel    string

	StatsBaseURL         string
	StatsTimeout         time.Duration
	StatsMaxRetries      int
	StatsRetryDelay      time.Duration
	StatsRequestInterval time.Duration

	CurrentSeason  string
	PreviousSeason string
	MinGames       int
	FuzzyThreshold int

	CacheTTL       time.Duration
	CacheSize      int
	PredictWorkers int
	SimIterations  int
}

// Load reads an optional .env file and then the process environment
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only
func FromEnv() *Config {
	return &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("GO_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		StatsBaseURL:         getEnv("STATS_BASE_URL", "https://stats.nba.com/stats"),
		StatsTimeout:         getDuration("STATS_TIMEOUT", 60*time.Second),
		StatsMaxRetries:      getInt("STATS_MAX_RETRIES", 3),
		StatsRetryDelay:      getDuration("STATS_RETRY_DELAY", 2*time.Second),
		StatsRequestInterval: getDuration("STATS_REQUEST_INTERVAL", time.Second),

		CurrentSeason:  getEnv("CURRENT_SEASON", "2024-25"),
		PreviousSeason: getEnv("PREVIOUS_SEASON", "2023-24"),
		MinGames:       getInt("MIN_GAMES", 5),
		FuzzyThreshold: getInt("FUZZY_THRESHOLD", 80),

		CacheTTL:       getDuration("CACHE_TTL", time.Hour),
		CacheSize:      getInt("CACHE_SIZE", 512),
		PredictWorkers: getInt("PREDICT_WORKERS", 4),
		SimIterations:  getInt("SIM_ITERATIONS", 10000),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		log.Printf("Invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		log.Printf("Invalid %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}

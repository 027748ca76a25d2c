package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds process-level settings sourced from the environment.
type Config struct {
	// WorkerCount bounds the file-scan pool.
	WorkerCount int
	// MinSimilarity is the threshold for claiming a fuzzy match.
	MinSimilarity float64
	// AutoSimilarity is the threshold for applying a match unreviewed.
	AutoSimilarity float64
	// Lookback is the UI-context detection window in lines.
	Lookback int
	// DatabaseURL, when set, enables the PostgreSQL translation memory.
	DatabaseURL string
}

// Load reads .env if present and falls back to defaults.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	return &Config{
		WorkerCount:    getEnvInt("RENLOC_WORKERS", 8),
		MinSimilarity:  getEnvFloat("RENLOC_MIN_SIMILARITY", 0.70),
		AutoSimilarity: getEnvFloat("RENLOC_AUTO_SIMILARITY", 0.90),
		Lookback:       getEnvInt("RENLOC_LOOKBACK", 50),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

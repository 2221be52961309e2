// config.go
//
// Environment-driven configuration. A .env file, when present, is loaded by
// main before Load runs.

package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/letterwheel/internal/puzzle"
)

// Config holds every tunable read from the environment.
type Config struct {
	Port            string
	LogLevel        string
	LogFormat       string // json | console
	DBPath          string
	DictBackend     string // sqlite | memory
	WordsFile       string // empty uses the embedded list
	DailySalt       string
	DailyDifficulty string
	DefaultDiff     string
	ShareSecret     string
	MaxAttempts     int
	RateLimitRPS    int
	RateLimitBurst  int
	SessionTTL      time.Duration
	SweepEvery      time.Duration
}

// LoadConfig reads Config from the environment, applying defaults.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:            getEnv("PORT", "5175"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       strings.ToLower(getEnv("LOG_FORMAT", "json")),
		DBPath:          getEnv("DB_PATH", "./data/app.db"),
		DictBackend:     strings.ToLower(getEnv("DICT_BACKEND", "sqlite")),
		WordsFile:       getEnv("WORDS_FILE", ""),
		DailySalt:       getEnv("DAILY_SALT", "local_dev_salt"),
		DailyDifficulty: getEnv("DAILY_DIFFICULTY", "easy"),
		DefaultDiff:     getEnv("DEFAULT_DIFFICULTY", "easy"),
		ShareSecret:     getEnv("SHARE_SECRET", "dev_secret_change_me"),
		MaxAttempts:     getEnvInt("PUZZLE_MAX_ATTEMPTS", puzzle.DefaultMaxAttempts),
		RateLimitRPS:    getEnvInt("RATE_LIMIT_RPS", 5),
		RateLimitBurst:  getEnvInt("RATE_LIMIT_BURST", 10),
		SessionTTL:      getEnvDuration("SESSION_TTL", 2*time.Hour),
		SweepEvery:      getEnvDuration("SESSION_SWEEP_EVERY", time.Minute),
	}

	switch cfg.DictBackend {
	case "sqlite", "memory":
	default:
		return cfg, fmt.Errorf("DICT_BACKEND must be sqlite or memory, got %q", cfg.DictBackend)
	}
	for _, d := range []string{cfg.DailyDifficulty, cfg.DefaultDiff} {
		if _, err := puzzle.Difficulty(d); err != nil {
			return cfg, err
		}
	}
	if cfg.SessionTTL <= 0 || cfg.SweepEvery <= 0 {
		return cfg, errors.New("SESSION_TTL and SESSION_SWEEP_EVERY must be positive")
	}
	return cfg, nil
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Err(err).Str("key", k).Int("default", def).Msg("invalid int, using default")
		return def
	}
	return i
}

func getEnvDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Warn().Err(err).Str("key", k).Dur("default", def).Msg("invalid duration, using default")
		return def
	}
	return d
}

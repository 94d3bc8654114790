// Package config loads process settings from .env files and the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/subosito/gotenv"
)

// Corpus sources.
const (
	SourceEmbedded = "embedded"
	SourceDir      = "dir"
	SourceSQLite   = "sqlite"
	SourceValkey   = "valkey"
)

// Sentence scorers.
const (
	ScorerLexicon = "lexicon"
	ScorerVader   = "vader"
)

// Config holds the settings shared by the binaries.
type Config struct {
	Env              string
	CorpusSource     string
	CorpusDir        string
	SQLitePath       string
	ValkeyAddress    string
	ValkeyPassword   string
	SentimentScorer  string
	SentimentEpsilon float64
	TopN             int
	LogLevel         string
}

// LoadEnv loads config/envs/.env.<env> into the environment. Variables that
// are already set win.
func LoadEnv(env string) {
	envFile := "config/envs/.env." + env
	if err := gotenv.Load(envFile); err != nil {
		slog.Warn("No .env file found, using OS environment", "file", envFile)
	}
}

// Load reads APP_ENV (default "dev"), loads the matching .env file and builds
// a validated Config from INKSIGHT_* variables.
func Load() (Config, error) {
	env := getenv("APP_ENV", "dev")
	LoadEnv(env)
	return FromEnv(env)
}

// FromEnv builds a Config from the current environment only.
func FromEnv(env string) (Config, error) {
	cfg := Config{
		Env:             env,
		CorpusSource:    strings.ToLower(getenv("INKSIGHT_CORPUS_SOURCE", SourceEmbedded)),
		CorpusDir:       os.Getenv("INKSIGHT_CORPUS_DIR"),
		SQLitePath:      getenv("INKSIGHT_SQLITE_PATH", "corpora.db"),
		ValkeyAddress:   getenv("INKSIGHT_VALKEY_ADDRESS", "localhost:6379"),
		ValkeyPassword:  os.Getenv("INKSIGHT_VALKEY_PASSWORD"),
		SentimentScorer: strings.ToLower(getenv("INKSIGHT_SENTIMENT_SCORER", ScorerLexicon)),
		LogLevel:        getenv("INKSIGHT_LOG_LEVEL", "info"),
	}

	var err error
	if cfg.SentimentEpsilon, err = strconv.ParseFloat(getenv("INKSIGHT_SENTIMENT_EPSILON", "0.05"), 64); err != nil {
		return Config{}, fmt.Errorf("INKSIGHT_SENTIMENT_EPSILON: %w", err)
	}
	if cfg.SentimentEpsilon < 0 {
		return Config{}, fmt.Errorf("INKSIGHT_SENTIMENT_EPSILON: must not be negative")
	}
	if cfg.TopN, err = strconv.Atoi(getenv("INKSIGHT_TOP_N", "5")); err != nil {
		return Config{}, fmt.Errorf("INKSIGHT_TOP_N: %w", err)
	}

	switch cfg.CorpusSource {
	case SourceEmbedded, SourceSQLite, SourceValkey:
	case SourceDir:
		if cfg.CorpusDir == "" {
			return Config{}, fmt.Errorf("INKSIGHT_CORPUS_DIR is required for the %q corpus source", SourceDir)
		}
	default:
		return Config{}, fmt.Errorf("INKSIGHT_CORPUS_SOURCE: unknown source %q", cfg.CorpusSource)
	}

	switch cfg.SentimentScorer {
	case ScorerLexicon, ScorerVader:
	default:
		return Config{}, fmt.Errorf("INKSIGHT_SENTIMENT_SCORER: unknown scorer %q", cfg.SentimentScorer)
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

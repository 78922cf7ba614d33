package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Gate     GateConfig
	Engine   EngineConfig
	Fallback FallbackConfig
	Store    StoreConfig
}

// GateConfig holds the quality gate's legibility thresholds.
type GateConfig struct {
	MinTextLength  int     // pages with fewer trimmed characters are gibberish
	MinAlnumRatio  float64 // alphanumeric chars / total chars
	MaxSymbolRatio float64 // symbol-noise chars / total chars
	MinByteRatio   float64 // text length relative to reported page byte size
	Workers        int     // per-document page classification workers
}

// EngineConfig holds rule-engine settings.
type EngineConfig struct {
	Workers         int           // per-document criterion workers
	DocumentTimeout time.Duration // unresolved criteria become UNKNOWN after this
}

// FallbackConfig controls the alternative page-extraction collaborator.
type FallbackConfig struct {
	Command     string        // external command invoked per escalated page; empty disables
	MaxAttempts int           // bounded retries per page
	Backoff     time.Duration // delay between attempts
	Timeout     time.Duration // per-invocation timeout
}

// StoreConfig holds run-metadata persistence settings.
type StoreConfig struct {
	Path string // SQLite database path
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Gate: GateConfig{
			MinTextLength:  getEnvAsInt("GATE_MIN_TEXT_LENGTH", 50),
			MinAlnumRatio:  getEnvAsFloat("GATE_MIN_ALNUM_RATIO", 0.6),
			MaxSymbolRatio: getEnvAsFloat("GATE_MAX_SYMBOL_RATIO", 0.2),
			MinByteRatio:   getEnvAsFloat("GATE_MIN_BYTE_RATIO", 0.001),
			Workers:        getEnvAsInt("GATE_WORKERS", 4),
		},
		Engine: EngineConfig{
			Workers:         getEnvAsInt("ENGINE_WORKERS", 4),
			DocumentTimeout: getEnvAsDuration("ENGINE_DOCUMENT_TIMEOUT", 2*time.Minute),
		},
		Fallback: FallbackConfig{
			Command:     getEnv("FALLBACK_COMMAND", ""),
			MaxAttempts: getEnvAsInt("FALLBACK_MAX_ATTEMPTS", 3),
			Backoff:     getEnvAsDuration("FALLBACK_BACKOFF", 2*time.Second),
			Timeout:     getEnvAsDuration("FALLBACK_TIMEOUT", 60*time.Second),
		},
		Store: StoreConfig{
			Path: getEnv("SCREEN_DB_PATH", "./screening.db"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Gate.MinAlnumRatio < 0 || c.Gate.MinAlnumRatio > 1 {
		return NewAppError("CONFIG_ERROR", "GATE_MIN_ALNUM_RATIO must be within [0,1]", ErrInvalidInput)
	}
	if c.Gate.MaxSymbolRatio < 0 || c.Gate.MaxSymbolRatio > 1 {
		return NewAppError("CONFIG_ERROR", "GATE_MAX_SYMBOL_RATIO must be within [0,1]", ErrInvalidInput)
	}
	if c.Engine.Workers <= 0 {
		return NewAppError("CONFIG_ERROR", "ENGINE_WORKERS must be positive", ErrInvalidInput)
	}
	if c.Fallback.MaxAttempts <= 0 {
		return NewAppError("CONFIG_ERROR", "FALLBACK_MAX_ATTEMPTS must be positive", ErrInvalidInput)
	}
	return nil
}

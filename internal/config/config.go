// Package config provides application configuration management with support
// for environment variables and .env files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Store     StoreConfig
	Documents DocumentsConfig
	Compile   CompileConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level  string
	Format string // "pretty" or "json"; empty selects by environment
}

// StoreConfig holds relational store configuration.
type StoreConfig struct {
	// Path is the SQLite database file.
	Path string
	// OpinionDedupByAuthor keys opinion dedup on (author, text) instead of
	// text alone. Off by default to match the historical row contents.
	OpinionDedupByAuthor bool
}

// DocumentsConfig holds LaTeX document storage configuration.
type DocumentsConfig struct {
	// CasesDir holds one .tex document per brief.
	CasesDir string
	// ExportPath is the default target for database dumps.
	ExportPath string
}

// CompileConfig holds typesetting engine configuration.
type CompileConfig struct {
	// Engine is the typesetting binary invoked per document.
	Engine string
	// OutputDir receives compiled PDFs, relative to CasesDir when not absolute.
	OutputDir string
}

// Load reads configuration with precedence:
// 1. Environment variables.
// 2. The .env file at envFile (ignored when absent).
// 3. Default values.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		// godotenv does not override variables already set in the
		// process environment, which preserves the precedence order.
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	dataDir := getEnv("CASEBRIEFS_DATA_DIR", "data")

	cfg := &Config{
		App: AppConfig{
			Environment: getEnv("CASEBRIEFS_ENV", "development"),
		},
		Logger: LoggerConfig{
			Level:  getEnv("CASEBRIEFS_LOG_LEVEL", "info"),
			Format: getEnv("CASEBRIEFS_LOG_FORMAT", ""),
		},
		Store: StoreConfig{
			Path:                 getEnv("CASEBRIEFS_DB_PATH", filepath.Join(dataDir, "Cases.sqlite")),
			OpinionDedupByAuthor: getBoolEnv("CASEBRIEFS_OPINION_DEDUP_BY_AUTHOR", false),
		},
		Documents: DocumentsConfig{
			CasesDir:   getEnv("CASEBRIEFS_CASES_DIR", filepath.Join(dataDir, "Cases")),
			ExportPath: getEnv("CASEBRIEFS_EXPORT_PATH", filepath.Join(dataDir, "Cases_backup.sql")),
		},
		Compile: CompileConfig{
			Engine:    getEnv("CASEBRIEFS_TEX_ENGINE", "pdflatex"),
			OutputDir: getEnv("CASEBRIEFS_TEX_OUTPUT_DIR", "Output"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Store.Path == "" {
		return errors.New("database path cannot be empty")
	}
	if c.Documents.CasesDir == "" {
		return errors.New("cases directory cannot be empty")
	}

	return nil
}

// getEnv returns the environment value for key, or defaultValue when unset.
func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// getBoolEnv parses a boolean environment value, falling back on defaultValue
// when unset or unparsable.
func getBoolEnv(key string, defaultValue bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return defaultValue
	}
	return parsed
}

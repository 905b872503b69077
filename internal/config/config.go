package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath     string
	OutputDir  string
	RecordRuns bool

	ProcessColumn string
	ChipsetColumn string

	ChunkDir     string
	ChunkPattern string
	BatchWorkers int

	SpecialProcessors   []string
	EnablePlusSeparator bool

	LogLevel string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:     getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),
		OutputDir:  getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),
		RecordRuns: getEnvBool("RECORD_RUNS", true),

		ProcessColumn: getEnv("PROCESS_COLUMN", "processor"),
		ChipsetColumn: getEnv("CHIPSET_COLUMN", "chipset"),

		ChunkDir:     getEnv("CHUNK_DIR", cwd),
		ChunkPattern: getEnv("CHUNK_PATTERN", "Kingston_DB_import_chunk_*.csv"),
		BatchWorkers: getEnvInt("BATCH_WORKERS", 4),

		SpecialProcessors:   getEnvList("SPECIAL_PROCESSORS"),
		EnablePlusSeparator: getEnvBool("ENABLE_PLUS_SEPARATOR", true),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if _, err := filepath.Match(cfg.ChunkPattern, ""); err != nil {
		return Config{}, fmt.Errorf("invalid CHUNK_PATTERN %q: %w", cfg.ChunkPattern, err)
	}
	if cfg.BatchWorkers <= 0 {
		cfg.BatchWorkers = 1
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}

// getEnvList splits a comma-separated value. Unset or blank yields nil so
// callers can tell "not configured" apart from an explicit list.
func getEnvList(key string) []string {
	value := strings.TrimSpace(getEnv(key, ""))
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

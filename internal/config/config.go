package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
)

var ErrInvalidStorage = errors.New("config: invalid storage backend")

type Config struct {
	// DataDir holds the state blob; empty means ~/.daytrack.
	DataDir string `yaml:"data_dir"`
	// Storage selects the blob transport: "file" or "sqlite".
	Storage string `yaml:"storage"`
	// TickMillis is the timer refresh cadence.
	TickMillis int `yaml:"tick_ms"`
	// EngineBuffer sizes the tick event channel.
	EngineBuffer int `yaml:"engine_buffer"`
	// LogLevel is a zap level name (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
}

func Default() Config {
	return Config{
		Storage:      StorageFile,
		TickMillis:   1000,
		EngineBuffer: 64,
		LogLevel:     "info",
	}
}

// Load reads the YAML config at path (missing file is fine), merges it over
// the defaults, then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv("DAYTRACK_DATA_DIR")); v != "" {
		c.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv("DAYTRACK_STORAGE")); v != "" {
		c.Storage = strings.ToLower(v)
	}
	if v, ok := getEnvInt("DAYTRACK_TICK_MS"); ok && v > 0 {
		c.TickMillis = v
	}
	if v, ok := getEnvInt("DAYTRACK_ENGINE_BUFFER"); ok && v > 0 {
		c.EngineBuffer = v
	}
	if v := strings.TrimSpace(os.Getenv("DAYTRACK_LOG_LEVEL")); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
}

func (c Config) Validate() error {
	switch c.Storage {
	case StorageFile, StorageSQLite:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStorage, c.Storage)
	}
	if c.TickMillis <= 0 {
		return errors.New("config: tick_ms must be positive")
	}
	return nil
}

func (c Config) TickInterval() time.Duration {
	return time.Duration(c.TickMillis) * time.Millisecond
}

// ResolveDataDir returns the configured data directory, defaulting to
// ~/.daytrack.
func (c Config) ResolveDataDir() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".daytrack"), nil
}

// StatePath returns the state blob location for the configured backend.
func (c Config) StatePath() (string, error) {
	dir, err := c.ResolveDataDir()
	if err != nil {
		return "", err
	}
	if c.Storage == StorageSQLite {
		return filepath.Join(dir, "daytrack.db"), nil
	}
	return filepath.Join(dir, "daytrack.json"), nil
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

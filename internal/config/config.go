package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config is the persistent application configuration
type Config struct {
	// DataDir holds the database, state file and logs
	DataDir string `json:"data_dir"`

	Storage StorageConfig `json:"storage"`
	Feed    FeedConfig    `json:"feed"`
	Log     LogConfig     `json:"log"`
}

// StorageConfig selects the persistence backend
type StorageConfig struct {
	Backend   string `json:"backend"`              // "sqlite", "file" or "memory"
	DBPath    string `json:"db_path,omitempty"`    // defaults to <data_dir>/dailybugle.db
	StateFile string `json:"state_file,omitempty"` // defaults to <data_dir>/news-storage.json
}

// FeedConfig holds feed and simulated fetch settings
type FeedConfig struct {
	Retention       Duration `json:"retention"`        // recency window
	FetchDelay      Duration `json:"fetch_delay"`      // simulated latency
	BatchSize       int      `json:"batch_size"`       // items per simulated fetch
	RefreshInterval Duration `json:"refresh_interval"` // minimum spacing between fetches
}

// LogConfig holds logging preferences
type LogConfig struct {
	Level      string `json:"level"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
}

// Duration is a time.Duration written as a string ("800ms", "72h").
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// DefaultDataDir returns ~/.dailybugle, or a relative .dailybugle when the
// home directory is unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".dailybugle"
	}
	return filepath.Join(home, ".dailybugle")
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		DataDir: DefaultDataDir(),
		Storage: StorageConfig{
			Backend: "sqlite",
		},
		Feed: FeedConfig{
			Retention:       Duration(72 * time.Hour),
			FetchDelay:      Duration(800 * time.Millisecond),
			BatchSize:       9,
			RefreshInterval: Duration(2 * time.Second),
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  5,
			MaxBackups: 3,
		},
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(DefaultDataDir(), "config.json")
}

// Load reads config from the default path, or returns defaults
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads config from path. A missing file yields defaults. A
// malformed file yields defaults together with the parse error so the
// caller can warn.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	// Decode over defaults so absent keys keep their default values
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes config to the default path
func (c *Config) Save() error {
	return c.SaveTo(ConfigPath())
}

// SaveTo writes config to path
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides settings from DAILYBUGLE_* environment variables
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("DAILYBUGLE_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("DAILYBUGLE_DB"); v != "" {
		c.Storage.DBPath = v
	}
	if v := os.Getenv("DAILYBUGLE_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("DAILYBUGLE_FETCH_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("DAILYBUGLE_FETCH_DELAY: %w", err)
		}
		c.Feed.FetchDelay = Duration(d)
	}
	if v := os.Getenv("DAILYBUGLE_BATCH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DAILYBUGLE_BATCH: %w", err)
		}
		c.Feed.BatchSize = n
	}
	return nil
}

// Validate rejects settings the app cannot run with
func (c *Config) Validate() error {
	var errs []error
	switch c.Storage.Backend {
	case "sqlite", "file", "memory":
	default:
		errs = append(errs, fmt.Errorf("unknown storage backend %q", c.Storage.Backend))
	}
	if c.Feed.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("feed.batch_size must be positive, got %d", c.Feed.BatchSize))
	}
	if c.Feed.Retention <= 0 {
		errs = append(errs, errors.New("feed.retention must be positive"))
	}
	if c.Feed.FetchDelay < 0 || c.Feed.RefreshInterval < 0 {
		errs = append(errs, errors.New("feed durations cannot be negative"))
	}
	return errors.Join(errs...)
}

// DBPath returns the sqlite path, defaulting under DataDir
func (c *Config) DBPath() string {
	if c.Storage.DBPath != "" {
		return c.Storage.DBPath
	}
	return filepath.Join(c.DataDir, "dailybugle.db")
}

// StateFile returns the JSON state path, defaulting under DataDir
func (c *Config) StateFile() string {
	if c.Storage.StateFile != "" {
		return c.Storage.StateFile
	}
	return filepath.Join(c.DataDir, "news-storage.json")
}

// EventLogPath returns the activity journal path
func (c *Config) EventLogPath() string {
	return filepath.Join(c.DataDir, "events.jsonl")
}

// LogDir returns the log directory
func (c *Config) LogDir() string {
	return filepath.Join(c.DataDir, "logs")
}

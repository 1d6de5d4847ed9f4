package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default config file path.
const DefaultConfigPath = "~/.config/focusguard/config.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FOCUSGUARD_"

// Config holds all focusguard configuration.
type Config struct {
	Database DatabaseConfig  `yaml:"database"`
	Hosts    HostsConfig     `yaml:"hosts"`
	Blocking BlockingConfig  `yaml:"blocking"`
	Focus    FocusConfig     `yaml:"focus"`
	Storage  StorageConfig   `yaml:"storage"`
	Logging  LoggingConfig   `yaml:"logging"`
	Schedule []ScheduleEntry `yaml:"schedule"`
}

// DatabaseConfig selects the relational backend. Driver is one of
// "sqlite3", "mysql" or "postgres".
type DatabaseConfig struct {
	Driver     string `yaml:"driver"`
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	Name       string `yaml:"name"`
	SQLiteFile string `yaml:"sqlite_file"`

	RetryAttempts int           `yaml:"retry_attempts"`
	RetryBackoff  time.Duration `yaml:"retry_backoff"`

	// FallbackPasswords are probed, after the configured and the empty
	// password, when the database has to be created.
	FallbackPasswords []string `yaml:"fallback_passwords"`

	// LegacyConfig points at a mysql_config.json written by older builds.
	LegacyConfig string `yaml:"legacy_config"`
}

type HostsConfig struct {
	Path        string `yaml:"path"`
	RedirectIP  string `yaml:"redirect_ip"`
	BeginMarker string `yaml:"begin_marker"`
	EndMarker   string `yaml:"end_marker"`
}

type BlockingConfig struct {
	FlushDNS            bool                `yaml:"flush_dns"`
	DisableDoH          bool                `yaml:"disable_doh"`
	SelfTest            bool                `yaml:"self_test"`
	CommandTimeout      time.Duration       `yaml:"command_timeout"`
	ServiceRestartPause time.Duration       `yaml:"service_restart_pause"`
	Providers           map[string][]string `yaml:"providers"`
}

type FocusConfig struct {
	DefaultMinutes int           `yaml:"default_minutes"`
	TickInterval   time.Duration `yaml:"tick_interval"`
}

type StorageConfig struct {
	Path      string `yaml:"path"`
	StateFile string `yaml:"state_file"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
}

// ScheduleEntry is a recurring focus block. Cron uses the five-field
// crontab syntax.
type ScheduleEntry struct {
	Cron    string `yaml:"cron"`
	Minutes int    `yaml:"minutes"`
	Subject string `yaml:"subject"`
}

// Load reads a YAML config file at path and merges it with defaults.
// Environment overrides are applied last.
// Returns an error if the file cannot be read or contains invalid YAML.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if cfg.Database.LegacyConfig != "" {
		legacy, err := expandPath(cfg.Database.LegacyConfig)
		if err != nil {
			return nil, err
		}
		if err := applyLegacyDatabase(&cfg.Database, legacy); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// DefaultPath returns DefaultConfigPath with ~ expanded.
func DefaultPath() (string, error) {
	return expandPath(DefaultConfigPath)
}

// LoadOrCreateAt loads the config from the given path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreateAt(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()

		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating config directory: %w", err)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("marshaling default config: %w", err)
		}

		if err := os.WriteFile(path, data, 0600); err != nil {
			return nil, fmt.Errorf("writing default config: %w", err)
		}

		if err := applyEnv(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	return Load(path)
}

// DataDir returns the expanded storage directory.
func (c *Config) DataDir() (string, error) {
	return expandPath(c.Storage.Path)
}

// StatePath returns the path of the bbolt session/state file.
func (c *Config) StatePath() (string, error) {
	return c.dataFile(c.Storage.StateFile)
}

// SQLitePath returns the path of the SQLite database file. An absolute
// sqlite_file or ":memory:" is used as is.
func (c *Config) SQLitePath() (string, error) {
	f := c.Database.SQLiteFile
	if f == ":memory:" || filepath.IsAbs(f) {
		return f, nil
	}
	if len(f) > 0 && f[0] == '~' {
		return expandPath(f)
	}
	return c.dataFile(f)
}

// LogPath returns the log file path, or "" when file logging is off.
func (c *Config) LogPath() (string, error) {
	if c.Logging.File == "" {
		return "", nil
	}
	if filepath.IsAbs(c.Logging.File) {
		return c.Logging.File, nil
	}
	return c.dataFile(c.Logging.File)
}

func (c *Config) dataFile(name string) (string, error) {
	dir, err := c.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// applyEnv loads a .env file from the working directory, if present, and
// copies FOCUSGUARD_* variables over the file configuration.
func applyEnv(cfg *Config) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	strs := map[string]*string{
		"DB_DRIVER":   &cfg.Database.Driver,
		"DB_HOST":     &cfg.Database.Host,
		"DB_USER":     &cfg.Database.User,
		"DB_PASSWORD": &cfg.Database.Password,
		"DB_NAME":     &cfg.Database.Name,
		"DB_FILE":     &cfg.Database.SQLiteFile,
		"HOSTS_PATH":  &cfg.Hosts.Path,
		"DATA_DIR":    &cfg.Storage.Path,
		"LOG_LEVEL":   &cfg.Logging.Level,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv(EnvPrefix + "DB_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sDB_PORT %q: %w", EnvPrefix, v, err)
		}
		cfg.Database.Port = port
	}

	return nil
}

// legacyMySQL is the mysql_config.json layout.
type legacyMySQL struct {
	Host     string `json:"host"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
	Port     int    `json:"port"`
}

// applyLegacyDatabase switches the backend to MySQL using the legacy JSON
// file. A missing file is not an error.
func applyLegacyDatabase(db *DatabaseConfig, path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading legacy database config: %w", err)
	}

	var legacy legacyMySQL
	if err := json.Unmarshal(data, &legacy); err != nil {
		return fmt.Errorf("parsing legacy database config: %w", err)
	}

	db.Driver = "mysql"
	if legacy.Host != "" {
		db.Host = legacy.Host
	}
	if legacy.User != "" {
		db.User = legacy.User
	}
	db.Password = legacy.Password
	if legacy.Database != "" {
		db.Name = legacy.Database
	}
	if legacy.Port != 0 {
		db.Port = legacy.Port
	}
	return nil
}

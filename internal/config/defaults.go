package config

import (
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:            "sqlite3",
			Host:              "localhost",
			Port:              0,
			User:              "root",
			Password:          "",
			Name:              "focus_app",
			SQLiteFile:        "focusguard.db",
			RetryAttempts:     3,
			RetryBackoff:      2 * time.Second,
			FallbackPasswords: []string{},
			LegacyConfig:      "",
		},
		Hosts: HostsConfig{
			Path:        DefaultHostsPath(),
			RedirectIP:  "0.0.0.0",
			BeginMarker: "# Focus Timer Blocked Sites - DO NOT EDIT",
			EndMarker:   "# End Focus Timer Blocked Sites",
		},
		Blocking: BlockingConfig{
			FlushDNS:            true,
			DisableDoH:          true,
			SelfTest:            true,
			CommandTimeout:      15 * time.Second,
			ServiceRestartPause: 2 * time.Second,
			Providers:           map[string][]string{},
		},
		Focus: FocusConfig{
			DefaultMinutes: 25,
			TickInterval:   time.Second,
		},
		Storage: StorageConfig{
			Path:      "~/.config/focusguard",
			StateFile: "state.db",
		},
		Logging: LoggingConfig{
			Level:      "info",
			File:       "focusguard.log",
			MaxSize:    10,
			MaxBackups: 3,
		},
		Schedule: []ScheduleEntry{},
	}
}

// DefaultHostsPath returns the platform hosts file location.
func DefaultHostsPath() string {
	if runtime.GOOS == "windows" {
		root := os.Getenv("SystemRoot")
		if root == "" {
			root = `C:\Windows`
		}
		return filepath.Join(root, "System32", "drivers", "etc", "hosts")
	}
	return "/etc/hosts"
}

// Package config defines the commitcat runtime configuration and the
// user-facing settings model.
//
// Runtime configuration is assembled from multiple sources with a strict
// precedence chain: built-in defaults < global config file < project config
// file < explicit config file < CLI flag overrides. Settings (thresholds,
// night window, feature toggles) are owned by the settings collaborator and
// persisted inside the snapshot; see Settings.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// WhitelistedVars lists every configuration variable name that may appear in
// config files. Variables not in this list are silently ignored during loading.
var WhitelistedVars = [9]string{
	"DATA_DIR",
	"STORE_BACKEND",
	"POLL_INTERVAL",
	"FLUSH_INTERVAL",
	"GIT_POLL_INTERVAL",
	"INTERACTION_SECONDS",
	"IDE_TABLE_FILE",
	"EVENT_LOG",
	"VERBOSE",
}

// Store backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Config holds every runtime configuration field for the commitcat CLI.
type Config struct {
	// Persistence.
	DataDir      string
	StoreBackend string

	// Loop cadence, in seconds.
	PollInterval    int
	FlushInterval   int
	GitPollInterval int

	// InteractionSeconds is how long the avatar stays in Interaction after a click.
	InteractionSeconds int

	// Optional files.
	IDETableFile string
	EventLog     string

	// Runtime flags.
	Verbose bool

	// CLI-only flags (not loaded from config files).
	ConfigFile string
}

// NewDefaultConfig returns a Config populated with all built-in default values.
func NewDefaultConfig() *Config {
	return &Config{
		DataDir:            DefaultDataDir(),
		StoreBackend:       BackendJSON,
		PollInterval:       10,
		FlushInterval:      60,
		GitPollInterval:    30,
		InteractionSeconds: 3,
	}
}

// DefaultDataDir returns the per-user data directory, falling back to a
// dot-directory in the working directory when no config dir is known.
func DefaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "commitcat")
	}
	return ".commitcat"
}

// GlobalConfigPath returns the path of the per-user config file.
func GlobalConfigPath() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "commitcat", "config")
	}
	return ""
}

// ProjectConfigPath is the project-local config file, relative to the
// working directory.
const ProjectConfigPath = ".commitcat"

// EventLogPath returns the event journal path, defaulting into DataDir.
func (c *Config) EventLogPath() string {
	if c.EventLog != "" {
		return c.EventLog
	}
	return filepath.Join(c.DataDir, "events.jsonl")
}

// InboxDir returns the directory watched for poke commands.
func (c *Config) InboxDir() string {
	return filepath.Join(c.DataDir, "inbox")
}

// Poll returns the sampler tick interval.
func (c *Config) Poll() time.Duration { return seconds(c.PollInterval, 10) }

// Flush returns the snapshot flush interval.
func (c *Config) Flush() time.Duration { return seconds(c.FlushInterval, 60) }

// GitPoll returns the git HEAD polling interval.
func (c *Config) GitPoll() time.Duration { return seconds(c.GitPollInterval, 30) }

// Interaction returns the Interaction state window.
func (c *Config) Interaction() time.Duration { return seconds(c.InteractionSeconds, 3) }

func seconds(v, fallback int) time.Duration {
	if v <= 0 {
		v = fallback
	}
	return time.Duration(v) * time.Second
}

// Package cli provides flag binding, validation and config loading for the
// commitcat CLI.
package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/commitcat/internal/config"
)

// BindFlags registers the runtime config flags as persistent flags on cmd so
// every subcommand accepts them. The flags write straight into cfg; Load
// later decides which of them override config files.
func BindFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.PersistentFlags()

	// Persistence
	flags.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Directory holding the snapshot, journal and inbox")
	flags.StringVar(&cfg.StoreBackend, "store", cfg.StoreBackend, "Snapshot backend: json or sqlite")

	// Cadence
	flags.IntVar(&cfg.PollInterval, "poll-interval", cfg.PollInterval, "Seconds between process samples")
	flags.IntVar(&cfg.FlushInterval, "flush-interval", cfg.FlushInterval, "Seconds between snapshot saves")
	flags.IntVar(&cfg.GitPollInterval, "git-poll-interval", cfg.GitPollInterval, "Seconds between git HEAD polls")
	flags.IntVar(&cfg.InteractionSeconds, "interaction-seconds", cfg.InteractionSeconds, "Seconds the cat reacts to a click")

	// Files
	flags.StringVar(&cfg.IDETableFile, "ide-table", "", "YAML file with extra IDE process patterns")
	flags.StringVar(&cfg.EventLog, "event-log", "", "JSON-lines event journal (default: <data-dir>/events.jsonl)")
	flags.StringVar(&cfg.ConfigFile, "config", "", "Path to additional config file")

	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Show debug output and periodic status")
}

// ValidateFlags checks flag values that can be rejected before any config
// file is read. Must be called after parsing.
func ValidateFlags(cmd *cobra.Command, cfg *config.Config) error {
	if cfg.ConfigFile != "" {
		if _, err := os.Stat(cfg.ConfigFile); err != nil {
			return fmt.Errorf("--config: %w", err)
		}
	}
	if cfg.IDETableFile != "" {
		if _, err := os.Stat(cfg.IDETableFile); err != nil {
			return fmt.Errorf("--ide-table: %w", err)
		}
	}
	if cmd.Flags().Changed("store") && cfg.StoreBackend != config.BackendJSON && cfg.StoreBackend != config.BackendSQLite {
		return fmt.Errorf("--store must be %q or %q, got: %s", config.BackendJSON, config.BackendSQLite, cfg.StoreBackend)
	}
	return nil
}

// BuildOverrides returns the config keys set explicitly on the command line.
// Uses Changed() so flag defaults never mask values from config files.
func BuildOverrides(cmd *cobra.Command, cfg *config.Config) map[string]string {
	overrides := make(map[string]string)

	stringFlags := map[string]struct {
		key string
		val string
	}{
		"data-dir":  {"DATA_DIR", cfg.DataDir},
		"store":     {"STORE_BACKEND", cfg.StoreBackend},
		"ide-table": {"IDE_TABLE_FILE", cfg.IDETableFile},
		"event-log": {"EVENT_LOG", cfg.EventLog},
	}
	for flag, mapping := range stringFlags {
		if cmd.Flags().Changed(flag) {
			overrides[mapping.key] = mapping.val
		}
	}

	intFlags := map[string]struct {
		key string
		val int
	}{
		"poll-interval":       {"POLL_INTERVAL", cfg.PollInterval},
		"flush-interval":      {"FLUSH_INTERVAL", cfg.FlushInterval},
		"git-poll-interval":   {"GIT_POLL_INTERVAL", cfg.GitPollInterval},
		"interaction-seconds": {"INTERACTION_SECONDS", cfg.InteractionSeconds},
	}
	for flag, mapping := range intFlags {
		if cmd.Flags().Changed(flag) {
			overrides[mapping.key] = strconv.Itoa(mapping.val)
		}
	}

	if cmd.Flags().Changed("verbose") {
		overrides["VERBOSE"] = strconv.FormatBool(cfg.Verbose)
	}
	return overrides
}

// Load assembles the final config: defaults, then the global, project and
// explicit config files, then flags the user actually passed.
func Load(cmd *cobra.Command, flagged *config.Config) (*config.Config, error) {
	if err := ValidateFlags(cmd, flagged); err != nil {
		return nil, err
	}
	cfg, err := config.LoadWithPrecedence(config.GlobalConfigPath(), config.ProjectConfigPath, flagged.ConfigFile, BuildOverrides(cmd, flagged))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.ConfigFile = flagged.ConfigFile
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

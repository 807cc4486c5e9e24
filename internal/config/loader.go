package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// whitelistSet is a precomputed lookup table for fast whitelist membership checks.
var whitelistSet map[string]bool

func init() {
	whitelistSet = make(map[string]bool, len(WhitelistedVars))
	for _, v := range WhitelistedVars {
		whitelistSet[v] = true
	}
}

// ParseKeyValues reads KEY=VALUE lines from sc.
//
// Lines are processed according to these rules:
//   - Empty lines and lines starting with # are skipped.
//   - Lines without an = sign are skipped.
//   - Leading and trailing whitespace is trimmed from both key and value.
//   - Keys for which allowed returns false are silently ignored.
func ParseKeyValues(sc *bufio.Scanner, allowed func(string) bool) (map[string]string, error) {
	result := make(map[string]string)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Split on first '=' only.
		idx := strings.Index(line, "=")
		if idx < 0 {
			continue
		}

		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		if !allowed(key) {
			continue
		}
		result[key] = value
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// LoadFile parses a KEY=VALUE config file at the given path. Keys not present
// in WhitelistedVars are ignored.
func LoadFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	m, err := ParseKeyValues(bufio.NewScanner(f), func(k string) bool { return whitelistSet[k] })
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return m, nil
}

// LoadWithPrecedence assembles a Config by merging sources in order of
// increasing priority:
//
//  1. Built-in defaults
//  2. Global config file (globalPath)
//  3. Project config file (projectPath)
//  4. Explicit config file (explicitPath)
//  5. CLI overrides (cliOverrides map)
//
// Any path that is empty is silently skipped. Missing global and project
// files are not errors; a missing explicit file is.
func LoadWithPrecedence(globalPath, projectPath, explicitPath string, cliOverrides map[string]string) (*Config, error) {
	cfg := NewDefaultConfig()

	optional := []struct {
		label string
		path  string
	}{
		{"global config", globalPath},
		{"project config", projectPath},
	}
	for _, src := range optional {
		if src.path == "" {
			continue
		}
		m, err := LoadFile(src.path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("%s: %w", src.label, err)
		}
		ApplyMapToConfig(cfg, m)
	}

	if explicitPath != "" {
		m, err := LoadFile(explicitPath)
		if err != nil {
			return nil, fmt.Errorf("explicit config: %w", err)
		}
		ApplyMapToConfig(cfg, m)
	}

	if len(cliOverrides) > 0 {
		ApplyMapToConfig(cfg, cliOverrides)
	}

	return cfg, nil
}

// ApplyMapToConfig sets fields on cfg from the key-value pairs in m.
// Unknown keys are silently ignored. Integer fields that fail to parse are
// silently ignored (the previous value is preserved).
func ApplyMapToConfig(cfg *Config, m map[string]string) {
	for key, value := range m {
		switch key {
		case "DATA_DIR":
			cfg.DataDir = value
		case "STORE_BACKEND":
			cfg.StoreBackend = strings.ToLower(value)
		case "POLL_INTERVAL":
			setInt(&cfg.PollInterval, value)
		case "FLUSH_INTERVAL":
			setInt(&cfg.FlushInterval, value)
		case "GIT_POLL_INTERVAL":
			setInt(&cfg.GitPollInterval, value)
		case "INTERACTION_SECONDS":
			setInt(&cfg.InteractionSeconds, value)
		case "IDE_TABLE_FILE":
			cfg.IDETableFile = value
		case "EVENT_LOG":
			cfg.EventLog = value
		case "VERBOSE":
			cfg.Verbose = parseBool(value)
		}
	}
}

// Validate checks the assembled config for values the daemon cannot run with.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR must not be empty")
	}
	if c.StoreBackend != BackendJSON && c.StoreBackend != BackendSQLite {
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got: %s", BackendJSON, BackendSQLite, c.StoreBackend)
	}
	if c.PollInterval < 1 || c.PollInterval > 300 {
		return fmt.Errorf("POLL_INTERVAL must be between 1 and 300 seconds, got: %d", c.PollInterval)
	}
	if c.FlushInterval < 1 {
		return fmt.Errorf("FLUSH_INTERVAL must be positive, got: %d", c.FlushInterval)
	}
	if c.GitPollInterval < 1 {
		return fmt.Errorf("GIT_POLL_INTERVAL must be positive, got: %d", c.GitPollInterval)
	}
	if c.InteractionSeconds < 1 {
		return fmt.Errorf("INTERACTION_SECONDS must be positive, got: %d", c.InteractionSeconds)
	}
	return nil
}

func setInt(dst *int, value string) {
	if v, err := strconv.Atoi(value); err == nil {
		*dst = v
	}
}

// parseBool interprets common boolean representations.
// "true", "1", "yes", "on" (case-insensitive) return true; everything else returns false.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return true
	default:
		return false
	}
}

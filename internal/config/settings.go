package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Settings are the user-owned knobs persisted inside the snapshot. The core
// reads them; only the settings command writes them.
type Settings struct {
	// Feature toggles. Disabling one suppresses its event class at the source.
	ActivityTracking bool `json:"activity_tracking"`
	IDEDetection     bool `json:"ide_detection"`
	GitIntegration   bool `json:"git_integration"`

	// PomodoroMinutes is the focused-session length.
	PomodoroMinutes int `json:"pomodoro_minutes"`

	// Idle thresholds, in seconds.
	IdleThresholdSeconds  int `json:"idle_threshold_seconds"`
	SleepThresholdSeconds int `json:"sleep_threshold_seconds"`

	// Night window, local 24h clock. Start > End wraps past midnight.
	NightHourStart int `json:"night_hour_start"`
	NightHourEnd   int `json:"night_hour_end"`

	// GitRepos are the registered repository roots.
	GitRepos []string `json:"git_repos"`
}

// Minimum thresholds, matching the state machine's idle-out guards.
const (
	MinIdleThresholdSeconds  = 180
	MinSleepThresholdSeconds = 600
)

// DefaultSettings returns the settings used on first run and after recovery
// from a corrupt snapshot.
func DefaultSettings() Settings {
	return Settings{
		ActivityTracking:      true,
		IDEDetection:          true,
		GitIntegration:        true,
		PomodoroMinutes:       25,
		IdleThresholdSeconds:  MinIdleThresholdSeconds,
		SleepThresholdSeconds: MinSleepThresholdSeconds,
		NightHourStart:        23,
		NightHourEnd:          6,
		GitRepos:              []string{},
	}
}

// IdleThreshold returns the coding-to-idle threshold.
func (s Settings) IdleThreshold() time.Duration {
	return time.Duration(s.IdleThresholdSeconds) * time.Second
}

// SleepThreshold returns the idle-to-sleeping threshold.
func (s Settings) SleepThreshold() time.Duration {
	return time.Duration(s.SleepThresholdSeconds) * time.Second
}

// Pomodoro returns the focused-session length.
func (s Settings) Pomodoro() time.Duration {
	return time.Duration(s.PomodoroMinutes) * time.Minute
}

// Validate reports the first out-of-range setting.
func (s Settings) Validate() error {
	if s.IdleThresholdSeconds < MinIdleThresholdSeconds {
		return fmt.Errorf("idle_threshold_seconds must be at least %d, got: %d", MinIdleThresholdSeconds, s.IdleThresholdSeconds)
	}
	if s.SleepThresholdSeconds < MinSleepThresholdSeconds {
		return fmt.Errorf("sleep_threshold_seconds must be at least %d, got: %d", MinSleepThresholdSeconds, s.SleepThresholdSeconds)
	}
	if s.SleepThresholdSeconds <= s.IdleThresholdSeconds {
		return fmt.Errorf("sleep_threshold_seconds (%d) must exceed idle_threshold_seconds (%d)", s.SleepThresholdSeconds, s.IdleThresholdSeconds)
	}
	if s.NightHourStart < 0 || s.NightHourStart > 23 {
		return fmt.Errorf("night_hour_start must be between 0 and 23, got: %d", s.NightHourStart)
	}
	if s.NightHourEnd < 0 || s.NightHourEnd > 23 {
		return fmt.Errorf("night_hour_end must be between 0 and 23, got: %d", s.NightHourEnd)
	}
	if s.PomodoroMinutes < 1 || s.PomodoroMinutes > 240 {
		return fmt.Errorf("pomodoro_minutes must be between 1 and 240, got: %d", s.PomodoroMinutes)
	}
	return nil
}

// Normalize replaces out-of-range values with defaults so a hand-edited or
// partially written snapshot never stops the daemon.
func (s Settings) Normalize() Settings {
	def := DefaultSettings()
	if s.IdleThresholdSeconds < MinIdleThresholdSeconds {
		s.IdleThresholdSeconds = def.IdleThresholdSeconds
	}
	if s.SleepThresholdSeconds < MinSleepThresholdSeconds || s.SleepThresholdSeconds <= s.IdleThresholdSeconds {
		s.SleepThresholdSeconds = max(def.SleepThresholdSeconds, s.IdleThresholdSeconds+1)
	}
	if s.NightHourStart < 0 || s.NightHourStart > 23 {
		s.NightHourStart = def.NightHourStart
	}
	if s.NightHourEnd < 0 || s.NightHourEnd > 23 {
		s.NightHourEnd = def.NightHourEnd
	}
	if s.PomodoroMinutes < 1 || s.PomodoroMinutes > 240 {
		s.PomodoroMinutes = def.PomodoroMinutes
	}
	if s.GitRepos == nil {
		s.GitRepos = []string{}
	}
	return s
}

// SettingKeys lists the keys accepted by ApplySetting, in display order.
var SettingKeys = []string{
	"activity_tracking",
	"ide_detection",
	"git_integration",
	"pomodoro_minutes",
	"idle_threshold_seconds",
	"sleep_threshold_seconds",
	"night_hour_start",
	"night_hour_end",
}

// ApplySetting sets one key on s. Unlike config files, unknown keys and
// unparseable values are errors here because the caller is a person at a
// terminal.
func ApplySetting(s *Settings, key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)

	intField := map[string]*int{
		"pomodoro_minutes":        &s.PomodoroMinutes,
		"idle_threshold_seconds":  &s.IdleThresholdSeconds,
		"sleep_threshold_seconds": &s.SleepThresholdSeconds,
		"night_hour_start":        &s.NightHourStart,
		"night_hour_end":          &s.NightHourEnd,
	}
	boolField := map[string]*bool{
		"activity_tracking": &s.ActivityTracking,
		"ide_detection":     &s.IDEDetection,
		"git_integration":   &s.GitIntegration,
	}

	if dst, ok := intField[key]; ok {
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: not an integer: %q", key, value)
		}
		*dst = v
		return nil
	}
	if dst, ok := boolField[key]; ok {
		*dst = parseBool(value)
		return nil
	}
	return fmt.Errorf("unknown setting %q (known: %s)", key, strings.Join(SettingKeys, ", "))
}

// Pairs renders s as sorted key=value strings for display.
func (s Settings) Pairs() []string {
	out := []string{
		fmt.Sprintf("activity_tracking=%t", s.ActivityTracking),
		fmt.Sprintf("ide_detection=%t", s.IDEDetection),
		fmt.Sprintf("git_integration=%t", s.GitIntegration),
		fmt.Sprintf("pomodoro_minutes=%d", s.PomodoroMinutes),
		fmt.Sprintf("idle_threshold_seconds=%d", s.IdleThresholdSeconds),
		fmt.Sprintf("sleep_threshold_seconds=%d", s.SleepThresholdSeconds),
		fmt.Sprintf("night_hour_start=%d", s.NightHourStart),
		fmt.Sprintf("night_hour_end=%d", s.NightHourEnd),
	}
	sort.Strings(out)
	return out
}

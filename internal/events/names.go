// Package events defines the named messages the core emits to the
// presentation layer, and the sinks that carry them.
//
// Emission is fire-and-forget: sinks never report failure back to the
// emitter and never block it for longer than a local write.
package events

import (
	"time"

	"github.com/CodexForgeBR/commitcat/internal/avatar"
	"github.com/CodexForgeBR/commitcat/internal/progression"
)

// Message names, "domain:action".
const (
	CatStateChanged = "cat:state-changed"
	CatLevelUp      = "cat:level-up"
	CatExpGained    = "cat:exp-gained"

	ActivityIDEDetected = "activity:ide-detected"
	ActivityIDEClosed   = "activity:ide-closed"
	ActivityIdle        = "activity:idle"
	ActivitySleeping    = "activity:sleeping"
	ActivityLateNight   = "activity:late-night-coding"
	ActivityStatus      = "activity:status"

	GitNewCommit = "git:new-commit"

	PomodoroTick      = "pomodoro:tick"
	PomodoroComplete  = "pomodoro:complete"
	PomodoroCancelled = "pomodoro:cancelled"

	SystemDayChanged = "system:day-changed"
)

// Experience sources carried by ExpGained.
const (
	SourceCoding = "coding"
	SourceCommit = "commit"
	SourceFocus  = "focus"
	SourceStreak = "streak"
)

// Message is one named notification with its minimal payload.
type Message struct {
	Name    string    `json:"name"`
	At      time.Time `json:"at"`
	Payload any       `json:"payload,omitempty"`
}

// StateChanged is the payload of CatStateChanged.
type StateChanged struct {
	From avatar.State `json:"from"`
	To   avatar.State `json:"to"`
	Mood avatar.Mood  `json:"mood"`
}

// LevelUp is the payload of CatLevelUp.
type LevelUp struct {
	Level uint32 `json:"level"`
}

// ExpGained is the payload of CatExpGained.
type ExpGained struct {
	Amount uint64 `json:"amount"`
	Source string `json:"source"`
}

// IDE is the payload of ActivityIDEDetected and ActivityIDEClosed.
type IDE struct {
	Name string `json:"name"`
}

// Elapsed is the payload of ActivityIdle and ActivitySleeping.
type Elapsed struct {
	Seconds uint64 `json:"seconds"`
}

// LateNight is the payload of ActivityLateNight.
type LateNight struct {
	Hour int `json:"hour"`
}

// NewCommit is the payload of GitNewCommit.
type NewCommit struct {
	Repo string `json:"repo"`
	Head string `json:"head"`
}

// FocusRemaining is the payload of PomodoroTick and PomodoroCancelled.
type FocusRemaining struct {
	RemainingSeconds uint64 `json:"remaining_seconds"`
}

// FocusComplete is the payload of PomodoroComplete.
type FocusComplete struct {
	SessionsToday uint32 `json:"sessions_today"`
}

// DayChanged is the payload of SystemDayChanged.
type DayChanged struct {
	Previous progression.Daily `json:"previous"`
	Current  string            `json:"current"`
}

// Focus describes the focused-session timer inside a Status.
type Focus struct {
	Active           bool   `json:"active"`
	RemainingSeconds uint64 `json:"remaining_seconds"`
	TotalSeconds     uint64 `json:"total_seconds"`
	SessionsToday    uint32 `json:"sessions_today"`
}

// Status is the full snapshot carried by ActivityStatus.
type Status struct {
	RunID          string                `json:"run_id"`
	State          avatar.State          `json:"state"`
	Mood           avatar.Mood           `json:"mood"`
	Level          uint32                `json:"level"`
	Exp            uint64                `json:"exp"`
	ExpToNext      uint64                `json:"exp_to_next"`
	TotalExp       uint64                `json:"total_exp"`
	StreakDays     uint32                `json:"streak_days"`
	ActiveIDE      string                `json:"active_ide,omitempty"`
	IdleSeconds    uint64                `json:"idle_seconds"`
	SessionMinutes uint32                `json:"session_minutes"`
	Night          bool                  `json:"night"`
	Today          progression.Daily     `json:"today"`
	Breakdown      progression.Breakdown `json:"breakdown"`
	Focus          Focus                 `json:"focus"`
}

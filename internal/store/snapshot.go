// Package store persists the commitcat snapshot: settings, cumulative
// totals, today's counters and a bounded daily history.
package store

import (
	"time"

	"github.com/CodexForgeBR/commitcat/internal/config"
	"github.com/CodexForgeBR/commitcat/internal/progression"
)

// SchemaVersion is the snapshot layout written by this build.
const SchemaVersion = 1

// HistoryRetention is how many daily summaries are kept.
const HistoryRetention = 90

// Cat is the persisted avatar progress.
type Cat struct {
	progression.Totals

	TotalCodingMinutes uint64 `json:"total_coding_minutes"`
	TotalCommits       uint64 `json:"total_commits"`
	TotalFocusSessions uint64 `json:"total_focus_sessions"`
	StreakDays         uint32 `json:"streak_days"`
	LastActiveDate     string `json:"last_active_date,omitempty"`
}

// Snapshot is everything that survives a restart.
type Snapshot struct {
	Version  int                 `json:"version"`
	Settings config.Settings     `json:"settings"`
	Cat      Cat                 `json:"cat"`
	Today    progression.Daily   `json:"today"`
	History  []progression.Daily `json:"history"`
	SavedAt  time.Time           `json:"saved_at,omitzero"`
}

// NewSnapshot returns the first-run snapshot for the day containing now.
func NewSnapshot(now time.Time) Snapshot {
	return Snapshot{
		Version:  SchemaVersion,
		Settings: config.DefaultSettings(),
		Cat:      Cat{Totals: progression.NewTotals()},
		Today:    progression.NewDaily(now),
		History:  []progression.Daily{},
	}
}

// Normalize repairs a loaded snapshot: out-of-range settings fall back to
// defaults, unsettled totals are levelled up, and history is pruned.
func (s Snapshot) Normalize(now time.Time) Snapshot {
	s.Version = SchemaVersion
	s.Settings = s.Settings.Normalize()
	s.Cat.Totals, _ = progression.ApplyExp(s.Cat.Totals, 0)
	if s.Today.Date == "" {
		s.Today = progression.NewDaily(now)
	}
	s.History = PruneHistory(s.History, HistoryRetention)
	return s
}

// Rollover moves Today into History when now falls on a later calendar day.
// It returns the finished day and whether a rollover happened.
func (s *Snapshot) Rollover(now time.Time) (progression.Daily, bool) {
	date := now.Format(progression.DateLayout)
	if s.Today.Date == date {
		return progression.Daily{}, false
	}
	prev := s.Today
	if prev.Date != "" {
		s.History = PruneHistory(append(s.History, prev), HistoryRetention)
	}
	s.Today = progression.NewDaily(now)
	return prev, true
}

// PruneHistory keeps the newest keep entries. History is ordered oldest first.
func PruneHistory(h []progression.Daily, keep int) []progression.Daily {
	if h == nil {
		return []progression.Daily{}
	}
	if keep < 0 {
		keep = 0
	}
	if len(h) <= keep {
		return h
	}
	out := make([]progression.Daily, keep)
	copy(out, h[len(h)-keep:])
	return out
}

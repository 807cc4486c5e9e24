package banner

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/CodexForgeBR/commitcat/internal/avatar"
	"github.com/CodexForgeBR/commitcat/internal/config"
	"github.com/CodexForgeBR/commitcat/internal/events"
	"github.com/CodexForgeBR/commitcat/internal/progression"
	"github.com/CodexForgeBR/commitcat/internal/store"
)

func init() {
	color.NoColor = true
}

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)

func TestPrintStartupBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintStartupBanner(&buf, StartupInfo{
		RunID:   "run-42",
		Version: "1.2.3",
		DataDir: "/data/cat",
		Backend: "sqlite",
		Poll:    10 * time.Second,
		Repos:   []string{"/src/a", "/src/b"},
	})

	out := buf.String()
	for _, want := range []string{"commitcat", "run-42", "1.2.3", "/data/cat (sqlite)", "every 10s", "2 watched", "- /src/a", "- /src/b"} {
		assert.Contains(t, out, want)
	}
}

func TestPrintShutdownBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintShutdownBanner(&buf, events.Status{
		State:     avatar.Idle,
		Level:     4,
		Exp:       1200,
		ExpToNext: 300,
		Today:     progression.Daily{CodingMinutes: 75, Commits: 2, ExpGained: 115},
	}, "interrupt")

	out := buf.String()
	assert.Contains(t, out, "stopped (interrupt)")
	assert.Contains(t, out, "Level:      4 (1,200/1,500 exp)")
	assert.Contains(t, out, "1h 15m coding, 2 commits, +115 exp")
}

func TestExpBar(t *testing.T) {
	tests := []struct {
		name    string
		current uint64
		need    uint64
		width   int
		want    string
	}{
		{"empty", 0, 60, 4, "[░░░░]"},
		{"half", 30, 60, 4, "[██░░]"},
		{"rounds down", 59, 60, 4, "[███░]"},
		{"full", 60, 60, 4, "[████]"},
		{"overflow clamps", 90, 60, 4, "[████]"},
		{"zero need", 5, 0, 3, "[░░░]"},
		{"zero width", 5, 10, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpBar(tt.current, tt.need, tt.width))
		})
	}
}

func TestPrintStatus(t *testing.T) {
	snap := store.NewSnapshot(now)
	snap.Cat.Totals = progression.Totals{Level: 3, CurrentExp: 61, TotalExp: 1204}
	snap.Cat.StreakDays = 7
	snap.Cat.LastActiveDate = "2026-03-09"
	snap.Today = progression.Daily{Date: "2026-03-10", CodingMinutes: 72, Commits: 3, FocusSessions: 1, ExpGained: 147}
	snap.SavedAt = now.Add(-2 * time.Minute)

	var buf bytes.Buffer
	PrintStatus(&buf, StatusView{
		Snapshot: snap,
		Now:      now,
		Repos: []RepoCount{
			{Path: "/src/app", Commits: 3},
			{Path: "/src/gone", Err: errors.New("not a git repository")},
		},
	})

	out := buf.String()
	for _, want := range []string{
		"Level 3",
		"61/250 exp",
		"Total:    1,204 exp",
		"Streak:   7 days (7th in a row)",
		"Today:    1h 12m coding, 3 commits, 1 focus, +147 exp",
		"Saved:    2 minutes ago",
		"/src/app: 3 commits today",
		"/src/gone: not a git repository",
	} {
		assert.Contains(t, out, want)
	}
}

func TestPrintStatus_FreshSnapshot(t *testing.T) {
	var buf bytes.Buffer
	PrintStatus(&buf, StatusView{Snapshot: store.NewSnapshot(now), Now: now})

	out := buf.String()
	assert.Contains(t, out, "Level 1")
	assert.Contains(t, out, "0/60 exp")
	assert.Contains(t, out, "Streak:   none")
	assert.Contains(t, out, "Saved:    never")
	assert.NotContains(t, out, "Repos:")
}

func TestPrintStatus_BrokenStreak(t *testing.T) {
	snap := store.NewSnapshot(now)
	snap.Cat.StreakDays = 12
	snap.Cat.LastActiveDate = "2026-03-01"

	var buf bytes.Buffer
	PrintStatus(&buf, StatusView{Snapshot: snap, Now: now})
	assert.Contains(t, buf.String(), "Streak:   none")
}

func TestPrintBreakdown(t *testing.T) {
	var buf bytes.Buffer
	PrintBreakdown(&buf, "2026-03-10", progression.Breakdown{Coding: 72, Commits: 60, Focus: 30, Streak: 15, Total: 177})

	lines := strings.Split(buf.String(), "\n")
	assert.Contains(t, buf.String(), "Exp breakdown for 2026-03-10")
	assert.Contains(t, lines, "  Coding:       72")
	assert.Contains(t, lines, "  Commits:      60")
	assert.Contains(t, lines, "  Focus:        30")
	assert.Contains(t, lines, "  Streak:       15")
	assert.Contains(t, lines, "  Total:       177")
}

func TestPrintSettings(t *testing.T) {
	var buf bytes.Buffer
	s := config.DefaultSettings()
	PrintSettings(&buf, s)
	assert.Contains(t, buf.String(), "idle_threshold_seconds=180")
	assert.Contains(t, buf.String(), "git_repos: none")

	buf.Reset()
	s.GitRepos = []string{"/src/app"}
	PrintSettings(&buf, s)
	assert.Contains(t, buf.String(), "git_repos:\n    - /src/app")
}

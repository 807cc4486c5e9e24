package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/commitcat/internal/config"
	"github.com/CodexForgeBR/commitcat/internal/exitcode"
	"github.com/CodexForgeBR/commitcat/internal/gitwatch"
	"github.com/CodexForgeBR/commitcat/internal/inbox"
	"github.com/CodexForgeBR/commitcat/internal/progression"
	"github.com/CodexForgeBR/commitcat/internal/store"
)

func init() {
	color.NoColor = true
}

// env isolates config lookups and returns a fresh data dir.
func env(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)
	old := timeNow
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = old })
	return filepath.Join(home, "data")
}

func execute(t *testing.T, data string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--data-dir", data))
	err := root.Execute()
	return out.String(), err
}

func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	if err != nil {
		return exitcode.Error
	}
	return exitcode.Success
}

func saved(t *testing.T, data string) store.Snapshot {
	t.Helper()
	snap, err := store.NewFileStore(filepath.Join(data, store.JSONFileName)).Load()
	require.NoError(t, err)
	return snap
}

func pending(t *testing.T, data string) []inbox.Command {
	t.Helper()
	return inbox.New(filepath.Join(data, "inbox"), nil).Drain()
}

func TestSettingsShowsDefaults(t *testing.T) {
	data := env(t)

	out, err := execute(t, data, "settings")
	require.NoError(t, err)
	assert.Contains(t, out, "idle_threshold_seconds=180")
	assert.Contains(t, out, "pomodoro_minutes=25")
	assert.Contains(t, out, "git_repos: none")
}

func TestSettingsUpdateSavesAndNotifiesDaemon(t *testing.T) {
	data := env(t)

	out, err := execute(t, data, "settings", "idle_threshold_seconds=300", "activity_tracking=false")
	require.NoError(t, err)
	assert.Contains(t, out, "idle_threshold_seconds=300")

	snap := saved(t, data)
	assert.Equal(t, 300, snap.Settings.IdleThresholdSeconds)
	assert.False(t, snap.Settings.ActivityTracking)

	cmds := pending(t, data)
	require.Len(t, cmds, 1)
	assert.Equal(t, inbox.Reload, cmds[0].Kind)
	var s config.Settings
	require.NoError(t, json.Unmarshal(cmds[0].Payload, &s))
	assert.Equal(t, snap.Settings, s)
}

func TestSettingsRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		arg  string
		want string
	}{
		{"unknown key", "colour=orange", "unknown setting"},
		{"not a pair", "idle_threshold_seconds", "KEY=VALUE"},
		{"not a number", "pomodoro_minutes=lots", "not an integer"},
		{"below minimum", "idle_threshold_seconds=60", "at least 180"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := env(t)
			_, err := execute(t, data, "settings", tt.arg)
			require.Error(t, err)
			assert.Equal(t, exitcode.Usage, exitCode(err))
			assert.Contains(t, err.Error(), tt.want)

			_, statErr := os.Stat(filepath.Join(data, store.JSONFileName))
			assert.True(t, os.IsNotExist(statErr), "nothing is saved")
		})
	}
}

func TestRepoAddListRemove(t *testing.T) {
	data := env(t)
	repo := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0755))

	out, err := execute(t, data, "repo", "add", repo)
	require.NoError(t, err)
	assert.Contains(t, out, "watching "+repo)

	_, err = execute(t, data, "repo", "add", repo)
	require.NoError(t, err)
	assert.Equal(t, []string{repo}, saved(t, data).Settings.GitRepos, "adding twice keeps one entry")

	out, err = execute(t, data, "repo", "list")
	require.NoError(t, err)
	assert.Equal(t, repo+"\n", out)

	_, err = execute(t, data, "repo", "remove", repo)
	require.NoError(t, err)
	assert.Empty(t, saved(t, data).Settings.GitRepos)

	_, err = execute(t, data, "repo", "remove", repo)
	assert.Equal(t, exitcode.Usage, exitCode(err))
}

func TestRepoAddRejectsNonRepository(t *testing.T) {
	data := env(t)
	_, err := execute(t, data, "repo", "add", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, exitcode.Usage, exitCode(err))
	assert.ErrorIs(t, err, gitwatch.ErrNotRepo)
}

func TestPoke(t *testing.T) {
	data := env(t)

	out, err := execute(t, data, "poke", "focus-start")
	require.NoError(t, err)
	assert.Equal(t, "sent focus-start\n", out)

	cmds := pending(t, data)
	require.Len(t, cmds, 1)
	assert.Equal(t, inbox.FocusStart, cmds[0].Kind)

	_, err = execute(t, data, "poke", "dance")
	require.Error(t, err)
	assert.Equal(t, exitcode.Usage, exitCode(err))
}

func TestStatusAndBreakdown(t *testing.T) {
	data := env(t)
	snap := store.NewSnapshot(timeNow())
	snap.Cat.Totals = progression.Totals{Level: 2, CurrentExp: 40, TotalExp: 100}
	snap.Cat.StreakDays = 3
	snap.Cat.LastActiveDate = "2026-03-10"
	snap.Today = progression.Daily{Date: "2026-03-10", CodingMinutes: 30, Commits: 2, ExpGained: 75, StreakAwarded: true}
	snap.History = []progression.Daily{{Date: "2026-03-08", CodingMinutes: 10, ExpGained: 10}}
	snap.SavedAt = timeNow().Add(-time.Hour)
	require.NoError(t, store.NewFileStore(filepath.Join(data, store.JSONFileName)).Save(snap))

	out, err := execute(t, data, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Level 2")
	assert.Contains(t, out, "Streak:   3 days")
	assert.Contains(t, out, "30m coding, 2 commits")
	assert.Contains(t, out, "Saved:    1 hour ago")

	out, err = execute(t, data, "breakdown")
	require.NoError(t, err)
	assert.Contains(t, out, "Exp breakdown for 2026-03-10")
	lines := strings.Split(out, "\n")
	assert.Contains(t, lines, "  Commits:      40")
	assert.Contains(t, lines, "  Streak:        5")
	assert.Contains(t, lines, "  Total:        75")

	out, err = execute(t, data, "breakdown", "2026-03-08")
	require.NoError(t, err)
	assert.Contains(t, out, "Exp breakdown for 2026-03-08")

	_, err = execute(t, data, "breakdown", "2026-03-01")
	assert.Equal(t, exitcode.Usage, exitCode(err))
	_, err = execute(t, data, "breakdown", "yesterday")
	assert.Equal(t, exitcode.Usage, exitCode(err))
}

func TestStatusRollsOverStaleDay(t *testing.T) {
	data := env(t)
	snap := store.NewSnapshot(timeNow())
	snap.Today = progression.Daily{Date: "2026-03-09", CodingMinutes: 99}
	require.NoError(t, store.NewFileStore(filepath.Join(data, store.JSONFileName)).Save(snap))

	out, err := execute(t, data, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "0m coding, 0 commits")
}

func TestInvalidFlagValue(t *testing.T) {
	data := env(t)
	_, err := execute(t, data, "status", "--store", "postgres")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--store")
}

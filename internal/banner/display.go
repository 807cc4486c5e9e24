// Package banner renders the commitcat CLI's framed, color-coded output:
// the daemon's startup and shutdown banners and the status, breakdown and
// settings reports.
package banner

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/CodexForgeBR/commitcat/internal/config"
	"github.com/CodexForgeBR/commitcat/internal/events"
	"github.com/CodexForgeBR/commitcat/internal/progression"
	"github.com/CodexForgeBR/commitcat/internal/store"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold).SprintFunc()
	successColor = color.New(color.FgGreen, color.Bold).SprintFunc()
	warnColor    = color.New(color.FgYellow, color.Bold).SprintFunc()
	dimColor     = color.New(color.Faint).SprintFunc()
)

const rule = "═══════════════════════════════════════════════════"

// StartupInfo describes a daemon run.
type StartupInfo struct {
	RunID   string
	Version string
	DataDir string
	Backend string
	Poll    time.Duration
	Repos   []string
}

// PrintStartupBanner displays the daemon's startup banner.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  commitcat - your coding companion
//	═══════════════════════════════════════════════════
//	  Run:        3f2c9a1e-...
//	  Version:    dev
//	  Data:       /home/me/.config/commitcat (json)
//	  Sampling:   every 10s
//	  Repos:      2 watched
//	═══════════════════════════════════════════════════
func PrintStartupBanner(w io.Writer, info StartupInfo) {
	sep := headerColor(rule)
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, headerColor("  commitcat - your coding companion"))
	fmt.Fprintln(w, sep)
	fmt.Fprintf(w, "  Run:        %s\n", info.RunID)
	fmt.Fprintf(w, "  Version:    %s\n", info.Version)
	fmt.Fprintf(w, "  Data:       %s (%s)\n", info.DataDir, info.Backend)
	fmt.Fprintf(w, "  Sampling:   every %s\n", info.Poll)
	fmt.Fprintf(w, "  Repos:      %d watched\n", len(info.Repos))
	for _, r := range info.Repos {
		fmt.Fprintf(w, "    - %s\n", r)
	}
	fmt.Fprintln(w, sep)
}

// PrintShutdownBanner displays the final status after the snapshot was
// saved. reason names what stopped the daemon.
func PrintShutdownBanner(w io.Writer, st events.Status, reason string) {
	sep := warnColor(rule)
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, warnColor("  ⚠ commitcat stopped ("+reason+")"))
	fmt.Fprintf(w, "  Level:      %d (%s/%s exp)\n", st.Level, humanize.Comma(int64(st.Exp)), humanize.Comma(int64(st.Exp+st.ExpToNext)))
	fmt.Fprintf(w, "  Today:      %s coding, %d commits, +%d exp\n",
		progression.FormatMinutes(st.Today.CodingMinutes), st.Today.Commits, st.Today.ExpGained)
	fmt.Fprintln(w, sep)
}

// ExpBar draws progress toward the next level in width cells.
func ExpBar(current, need uint64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if need > 0 {
		filled = int(min(current, need) * uint64(width) / need)
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

// RepoCount is today's commit count for one watched repository.
type RepoCount struct {
	Path    string
	Commits uint32
	Err     error
}

// StatusView is everything the status report shows.
type StatusView struct {
	Snapshot store.Snapshot
	Now      time.Time
	Repos    []RepoCount
}

// PrintStatus displays the saved progress. The snapshot should already be
// rolled over to Now so "today" means today.
//
// Example output:
//
//	──────────────────────────────────────────────────
//	  Level 3   [████░░░░░░░░░░░░░░░░] 61/250 exp
//	  Total:    1,204 exp
//	  Streak:   7 days (7th in a row)
//	  Today:    1h 12m coding, 3 commits, 1 focus, +147 exp
//	  Saved:    2 minutes ago
//	  Repos:
//	    /src/app: 3 commits today
//	──────────────────────────────────────────────────
func PrintStatus(w io.Writer, v StatusView) {
	snap := v.Snapshot
	cat := snap.Cat
	need := progression.ExpRequired(cat.Level)
	sep := strings.Repeat("─", 50)

	fmt.Fprintln(w, sep)
	fmt.Fprintf(w, "  %s   %s %d/%d exp\n", successColor(fmt.Sprintf("Level %d", cat.Level)), ExpBar(cat.CurrentExp, need, 20), cat.CurrentExp, need)
	fmt.Fprintf(w, "  Total:    %s exp\n", humanize.Comma(int64(cat.TotalExp)))

	streak := cat.StreakDays
	if !progression.StreakAlive(cat.LastActiveDate, snap.Today.Date) {
		streak = 0
	}
	switch streak {
	case 0:
		fmt.Fprintln(w, "  Streak:   none")
	case 1:
		fmt.Fprintln(w, "  Streak:   1 day")
	default:
		fmt.Fprintf(w, "  Streak:   %d days (%s in a row)\n", streak, humanize.Ordinal(int(streak)))
	}

	d := snap.Today
	fmt.Fprintf(w, "  Today:    %s coding, %d commits, %d focus, +%d exp\n",
		progression.FormatMinutes(d.CodingMinutes), d.Commits, d.FocusSessions, d.ExpGained)

	if snap.SavedAt.IsZero() {
		fmt.Fprintln(w, "  Saved:    never")
	} else {
		fmt.Fprintf(w, "  Saved:    %s\n", humanize.RelTime(snap.SavedAt, v.Now, "ago", "from now"))
	}

	if len(v.Repos) > 0 {
		fmt.Fprintln(w, "  Repos:")
		for _, r := range v.Repos {
			if r.Err != nil {
				fmt.Fprintf(w, "    %s: %s\n", r.Path, dimColor(r.Err.Error()))
				continue
			}
			fmt.Fprintf(w, "    %s: %d commits today\n", r.Path, r.Commits)
		}
	}
	fmt.Fprintln(w, sep)
}

// PrintBreakdown displays a day's exp by source.
func PrintBreakdown(w io.Writer, date string, b progression.Breakdown) {
	sep := strings.Repeat("─", 50)
	fmt.Fprintln(w, sep)
	fmt.Fprintf(w, "  %s\n", headerColor("Exp breakdown for "+date))
	rows := []struct {
		label string
		exp   uint64
	}{
		{"Coding", b.Coding},
		{"Commits", b.Commits},
		{"Focus", b.Focus},
		{"Streak", b.Streak},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "  %-9s %6s\n", r.label+":", humanize.Comma(int64(r.exp)))
	}
	fmt.Fprintf(w, "  %-9s %6s\n", "Total:", successColor(humanize.Comma(int64(b.Total))))
	fmt.Fprintln(w, sep)
}

// PrintSettings lists every setting and the registered repositories.
func PrintSettings(w io.Writer, s config.Settings) {
	for _, p := range s.Pairs() {
		fmt.Fprintf(w, "  %s\n", p)
	}
	if len(s.GitRepos) == 0 {
		fmt.Fprintln(w, "  git_repos: "+dimColor("none"))
		return
	}
	fmt.Fprintln(w, "  git_repos:")
	for _, r := range s.GitRepos {
		fmt.Fprintf(w, "    - %s\n", r)
	}
}

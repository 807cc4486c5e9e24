package progression

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-day key used for daily summaries.
const DateLayout = "2006-01-02"

// Daily is one calendar day's activity counters.
type Daily struct {
	Date          string `json:"date"`
	CodingMinutes uint32 `json:"coding_minutes"`
	Commits       uint32 `json:"commits"`
	FocusSessions uint32 `json:"focused_sessions"`
	ExpGained     uint64 `json:"exp_gained"`
	StreakAwarded bool   `json:"streak_awarded"`
}

// NewDaily returns empty counters for the calendar day containing t.
func NewDaily(t time.Time) Daily {
	return Daily{Date: t.Format(DateLayout)}
}

// Active reports whether the day had any qualifying activity.
func (d Daily) Active() bool {
	return d.CodingMinutes > 0 || d.Commits > 0 || d.FocusSessions > 0
}

// Breakdown is a day's experience split by source.
type Breakdown struct {
	Coding  uint64 `json:"coding"`
	Commits uint64 `json:"commits"`
	Focus   uint64 `json:"focus"`
	Streak  uint64 `json:"streak"`
	Total   uint64 `json:"total"`
}

// BreakdownFor computes each source independently from the day's counters and
// sums them. The streak bonus counts only once the day has been awarded it.
func BreakdownFor(d Daily, streakDays uint32) Breakdown {
	b := Breakdown{
		Coding:  CodingMinuteExp(d.CodingMinutes),
		Commits: CommitExp(d.Commits),
		Focus:   FocusSessionExp(d.FocusSessions),
	}
	if d.StreakAwarded {
		b.Streak = StreakBonus(streakDays)
	}
	b.Total = b.Coding + b.Commits + b.Focus + b.Streak
	return b
}

// AdvanceStreak returns the streak after activity on today, given the last
// active date. Activity on the day after lastActive extends the streak; a gap
// restarts it at 1; repeated activity on the same day leaves it unchanged.
// Dates use DateLayout; an unparseable lastActive restarts the streak.
func AdvanceStreak(lastActive, today string, streak uint32) uint32 {
	if lastActive == today {
		if streak == 0 {
			return 1
		}
		return streak
	}
	last, err := time.Parse(DateLayout, lastActive)
	if err != nil {
		return 1
	}
	now, err := time.Parse(DateLayout, today)
	if err != nil {
		return 1
	}
	if now.Sub(last) == 24*time.Hour {
		return streak + 1
	}
	return 1
}

// StreakAlive reports whether a streak last extended on lastActive still
// counts on today: activity happened today or yesterday.
func StreakAlive(lastActive, today string) bool {
	if lastActive == "" {
		return false
	}
	return lastActive == today || AdvanceStreak(lastActive, today, 1) == 2
}

// FormatMinutes renders a minute count as "Xm" or "Xh Ym".
func FormatMinutes(minutes uint32) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

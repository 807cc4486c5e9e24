// Package progression converts activity counts into experience and levels.
//
// Every function here is pure. Callers decide when experience is awarded;
// nothing in this package runs on its own schedule.
package progression

import "math"

// Experience rates.
const (
	ExpPerCodingMinute = 1
	ExpPerCommit       = 20
	ExpPerFocusSession = 30

	// DailyCommitCap is the number of commits per day earning the full rate.
	DailyCommitCap = 20
	// CommitDecayPercent is the share of ExpPerCommit earned past the cap.
	CommitDecayPercent = 20
)

const (
	levelBase     = 60.0
	levelExponent = 1.3
)

// ExpRequired returns the experience needed to advance past level:
// round(60 * level^1.3). Level 0 is treated as level 1.
func ExpRequired(level uint32) uint64 {
	if level == 0 {
		level = 1
	}
	return uint64(math.Round(levelBase * math.Pow(float64(level), levelExponent)))
}

// CommitExp returns the experience earned for a day's worth of commits. The
// first DailyCommitCap commits earn ExpPerCommit each; every commit after
// that earns CommitDecayPercent of the base rate.
func CommitExp(dailyCommits uint32) uint64 {
	n := uint64(dailyCommits)
	if n <= DailyCommitCap {
		return n * ExpPerCommit
	}
	extra := n - DailyCommitCap
	// integer rounding of extra * ExpPerCommit * CommitDecayPercent / 100
	return DailyCommitCap*ExpPerCommit + (extra*ExpPerCommit*CommitDecayPercent+50)/100
}

// MarginalCommitExp returns the experience added by the nth commit of the
// day, so that summing it over a day equals CommitExp of the day's count.
func MarginalCommitExp(nth uint32) uint64 {
	if nth == 0 {
		return 0
	}
	return CommitExp(nth) - CommitExp(nth-1)
}

// StreakBonus returns the daily bonus for a streak of consecutive active days.
func StreakBonus(streakDays uint32) uint64 {
	switch {
	case streakDays <= 1:
		return 0
	case streakDays <= 6:
		return 5
	case streakDays <= 13:
		return 15
	case streakDays <= 29:
		return 30
	default:
		return 50
	}
}

// CodingMinuteExp returns the experience for minutes of coding.
func CodingMinuteExp(minutes uint32) uint64 {
	return uint64(minutes) * ExpPerCodingMinute
}

// FocusSessionExp returns the experience for completed focused sessions.
func FocusSessionExp(sessions uint32) uint64 {
	return uint64(sessions) * ExpPerFocusSession
}

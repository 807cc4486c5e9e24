package events

import (
	"fmt"

	"github.com/CodexForgeBR/commitcat/internal/progression"
)

// Format renders a one-line, human-readable description of msg for console
// echo. Unknown names or payloads fall back to a generic line.
func Format(msg Message) string {
	switch p := msg.Payload.(type) {
	case StateChanged:
		return fmt.Sprintf("🐱 %s → %s (%s)", p.From, p.To, p.Mood)
	case LevelUp:
		return fmt.Sprintf("🎉 level up! now level %d", p.Level)
	case ExpGained:
		return fmt.Sprintf("✨ +%d exp from %s", p.Amount, p.Source)
	case IDE:
		if msg.Name == ActivityIDEClosed {
			return fmt.Sprintf("💤 %s closed", p.Name)
		}
		return fmt.Sprintf("💻 %s detected", p.Name)
	case Elapsed:
		if msg.Name == ActivitySleeping {
			return fmt.Sprintf("😴 asleep after %ds without activity", p.Seconds)
		}
		return fmt.Sprintf("⏸️ idle for %ds", p.Seconds)
	case LateNight:
		return fmt.Sprintf("🌙 still coding at %02d:00", p.Hour)
	case NewCommit:
		return fmt.Sprintf("✅ new commit %s in %s", shortHead(p.Head), p.Repo)
	case FocusRemaining:
		if msg.Name == PomodoroCancelled {
			return fmt.Sprintf("⏹️ focus session cancelled with %ds left", p.RemainingSeconds)
		}
		return fmt.Sprintf("🍅 %ds of focus left", p.RemainingSeconds)
	case FocusComplete:
		return fmt.Sprintf("🍅 focus session complete (%d today)", p.SessionsToday)
	case DayChanged:
		return fmt.Sprintf("📅 %s closed: %s coding, %d commits, %d focus, +%d exp; now %s",
			p.Previous.Date, progression.FormatMinutes(p.Previous.CodingMinutes),
			p.Previous.Commits, p.Previous.FocusSessions, p.Previous.ExpGained, p.Current)
	case Status:
		return fmt.Sprintf("📊 %s lv%d %d/%d exp, idle %ds", p.State, p.Level, p.Exp, p.Exp+p.ExpToNext, p.IdleSeconds)
	default:
		return fmt.Sprintf("ℹ️ event: %s", msg.Name)
	}
}

func shortHead(head string) string {
	if len(head) > 8 {
		return head[:8]
	}
	return head
}

// Package focus implements the focused-work (pomodoro) session timer.
//
// A Session is a plain value owned by one goroutine; callers pass the current
// time in, so the timer never reads the clock itself.
package focus

import "time"

// DefaultLength is the session length when none is configured.
const DefaultLength = 25 * time.Minute

// Session tracks at most one running focused-work session.
type Session struct {
	length    time.Duration
	total     time.Duration
	startedAt time.Time
	active    bool
}

// Status is a point-in-time view of the session.
type Status struct {
	Active    bool
	Remaining time.Duration
	Total     time.Duration
}

// New returns an idle session of the given length.
func New(length time.Duration) *Session {
	s := &Session{}
	s.SetLength(length)
	return s
}

// SetLength changes the length used by the next Start. A running session
// keeps the length it started with.
func (s *Session) SetLength(length time.Duration) {
	if length <= 0 {
		length = DefaultLength
	}
	s.length = length
}

// Length returns the configured length.
func (s *Session) Length() time.Duration { return s.length }

// Active reports whether a session is running.
func (s *Session) Active() bool { return s.active }

// Start begins a session at now. It returns false if one is already running.
func (s *Session) Start(now time.Time) bool {
	if s.active {
		return false
	}
	s.active = true
	s.startedAt = now
	s.total = s.length
	return true
}

// Stop cancels a running session and returns the time that was left. ok is
// false when no session was running.
func (s *Session) Stop(now time.Time) (remaining time.Duration, ok bool) {
	if !s.active {
		return 0, false
	}
	remaining = s.Remaining(now)
	s.active = false
	return remaining, true
}

// Remaining returns the time left, or zero when idle or overdue.
func (s *Session) Remaining(now time.Time) time.Duration {
	if !s.active {
		return 0
	}
	left := s.total - now.Sub(s.startedAt)
	if left < 0 {
		return 0
	}
	return left
}

// Due reports whether a running session has reached its end.
func (s *Session) Due(now time.Time) bool {
	return s.active && s.Remaining(now) == 0
}

// Complete ends the session if it is due and reports whether it did.
func (s *Session) Complete(now time.Time) bool {
	if !s.Due(now) {
		return false
	}
	s.active = false
	return true
}

// Status returns the session state at now. Total is the running session's
// length, or the configured length when idle.
func (s *Session) Status(now time.Time) Status {
	st := Status{Active: s.active, Remaining: s.Remaining(now), Total: s.length}
	if s.active {
		st.Total = s.total
	}
	return st
}

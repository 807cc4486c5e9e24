// Package sampler turns OS process listings into activity samples and derives
// the discrete avatar events implied by consecutive samples.
package sampler

import (
	"context"
	"fmt"
	"time"

	"github.com/CodexForgeBR/commitcat/internal/avatar"
	"github.com/CodexForgeBR/commitcat/internal/config"
	"github.com/CodexForgeBR/commitcat/internal/logging"
)

// ActivitySample is the result of one poll tick.
type ActivitySample struct {
	RecognizedIDE string
	SampledAt     time.Time
}

// Detected reports whether a known IDE was seen.
func (s ActivitySample) Detected() bool { return s.RecognizedIDE != "" }

// Sampler queries a ProcessLister and matches the result against an IDE table.
type Sampler struct {
	Lister ProcessLister
	Table  Table
	Now    func() time.Time
}

// New returns a Sampler using the wall clock.
func New(lister ProcessLister, table Table) *Sampler {
	return &Sampler{Lister: lister, Table: table, Now: time.Now}
}

// Sample lists processes once. A failed query counts as no IDE for this tick.
func (s *Sampler) Sample(ctx context.Context) ActivitySample {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	processes, err := s.Lister.ListActiveProcesses(ctx)
	sample := ActivitySample{SampledAt: now()}
	if err != nil {
		logging.Debug(fmt.Sprintf("process listing failed: %v", err))
		return sample
	}
	sample.RecognizedIDE = s.Table.Recognize(processes)
	return sample
}

// IsNight reports whether hour falls in the window [start, end). A window
// with start > end wraps midnight; start == end is never night.
func IsNight(hour, start, end int) bool {
	switch {
	case start == end:
		return false
	case start < end:
		return hour >= start && hour < end
	default:
		return hour >= start || hour < end
	}
}

// Cycle is everything derived from one sample.
type Cycle struct {
	Sample      ActivitySample
	IdleSeconds uint64
	Night       bool

	// Opened and Closed name the IDE that appeared or disappeared this tick.
	Opened string
	Closed string

	// Events are fed to the state machine in order.
	Events []avatar.Event

	IdleCrossed      bool
	SleepCrossed     bool
	LateNightStarted bool
}

// Tracker holds the state that survives between samples: when activity was
// last seen and which thresholds have already fired since then.
type Tracker struct {
	IdleAfter  uint64
	SleepAfter uint64
	NightStart int
	NightEnd   int

	ActivityTracking bool
	IDEDetection     bool

	lastActiveAt time.Time
	idleEmitted  bool
	sleepEmitted bool
	lateNight    bool
}

// NewTracker starts the idle clock at now.
func NewTracker(s config.Settings, now time.Time) *Tracker {
	t := &Tracker{lastActiveAt: now}
	t.Apply(s)
	return t
}

// Apply updates thresholds, night window and feature toggles. Edge flags are
// kept so a settings change does not re-fire an emitted threshold.
func (t *Tracker) Apply(s config.Settings) {
	t.IdleAfter = uint64(s.IdleThreshold().Seconds())
	t.SleepAfter = uint64(s.SleepThreshold().Seconds())
	t.NightStart = s.NightHourStart
	t.NightEnd = s.NightHourEnd
	t.ActivityTracking = s.ActivityTracking
	t.IDEDetection = s.IDEDetection
}

// LastActiveAt returns the last time a recognized IDE was seen.
func (t *Tracker) LastActiveAt() time.Time { return t.lastActiveAt }

// IdleSeconds returns whole seconds since the last sighting.
func (t *Tracker) IdleSeconds(now time.Time) uint64 {
	if now.Before(t.lastActiveAt) {
		return 0
	}
	return uint64(now.Sub(t.lastActiveAt) / time.Second)
}

// Derive compares cur with prev and returns the events for this tick. Each
// threshold fires once until activity resumes. A disabled feature suppresses
// its own event class: IDE detection gates ActivityDetected and open/close,
// activity tracking gates idle timeouts and the late-night flag.
func (t *Tracker) Derive(prev, cur ActivitySample, now time.Time) Cycle {
	c := Cycle{Sample: cur, Night: IsNight(now.Hour(), t.NightStart, t.NightEnd)}

	if !t.IDEDetection {
		cur.RecognizedIDE = ""
		prev.RecognizedIDE = ""
		c.Sample.RecognizedIDE = ""
	}

	if cur.Detected() {
		t.lastActiveAt = now
		t.idleEmitted = false
		t.sleepEmitted = false

		if !prev.Detected() {
			c.Events = append(c.Events, avatar.Activity())
			c.Opened = cur.RecognizedIDE
		} else if prev.RecognizedIDE != cur.RecognizedIDE {
			c.Closed = prev.RecognizedIDE
			c.Opened = cur.RecognizedIDE
		}
	} else if prev.Detected() {
		c.Closed = prev.RecognizedIDE
	}

	c.IdleSeconds = t.IdleSeconds(now)

	if !t.ActivityTracking {
		t.lateNight = false
		return c
	}

	if !cur.Detected() {
		if c.IdleSeconds >= t.IdleAfter && !t.idleEmitted {
			t.idleEmitted = true
			c.IdleCrossed = true
			c.Events = append(c.Events, avatar.Idled(c.IdleSeconds))
		}
		if c.IdleSeconds >= t.SleepAfter && !t.sleepEmitted {
			t.sleepEmitted = true
			c.SleepCrossed = true
			c.Events = append(c.Events, avatar.Idled(c.IdleSeconds))
		}
	}

	switch {
	case !c.Night:
		t.lateNight = false
	case cur.Detected() && !t.lateNight:
		t.lateNight = true
		c.LateNightStarted = true
	}
	return c
}

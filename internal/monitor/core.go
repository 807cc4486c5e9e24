// Package monitor owns the avatar state and the progression totals. Every
// mutation goes through Core, and Core is only ever touched by the Monitor's
// actor goroutine.
package monitor

import (
	"time"

	"github.com/CodexForgeBR/commitcat/internal/avatar"
	"github.com/CodexForgeBR/commitcat/internal/config"
	"github.com/CodexForgeBR/commitcat/internal/events"
	"github.com/CodexForgeBR/commitcat/internal/focus"
	"github.com/CodexForgeBR/commitcat/internal/gitwatch"
	"github.com/CodexForgeBR/commitcat/internal/progression"
	"github.com/CodexForgeBR/commitcat/internal/sampler"
	"github.com/CodexForgeBR/commitcat/internal/store"
)

// Options tune a Core.
type Options struct {
	// Poll is the sampling interval. Coding time credited per tick is capped
	// at twice this, so a suspended laptop does not earn hours of exp.
	Poll time.Duration

	// Interaction is how long the Interaction state lasts.
	Interaction time.Duration

	RunID string
}

// Core is the single-writer state of a running daemon. It is not safe for
// concurrent use; every method takes the current time explicitly.
type Core struct {
	opts Options
	emit events.Emitter
	snap store.Snapshot

	state     avatar.State
	enteredAt time.Time
	deadline  time.Time
	gen       uint64

	tracker      *sampler.Tracker
	prev         sampler.ActivitySample
	lastTick     time.Time
	codingCarry  time.Duration
	sessionStart time.Time

	focus *focus.Session
	dirty bool

	// schedule arms a one-shot expiry for the transient state entered with
	// generation gen.
	schedule func(d time.Duration, gen uint64)
}

// NewCore starts in Idle from a loaded snapshot.
func NewCore(opts Options, snap store.Snapshot, emit events.Emitter, now time.Time) *Core {
	if opts.Poll <= 0 {
		opts.Poll = 10 * time.Second
	}
	if opts.Interaction <= 0 {
		opts.Interaction = avatar.DefaultInteractionDuration
	}
	if emit == nil {
		emit = events.Discard
	}
	snap = snap.Normalize(now)
	return &Core{
		opts:      opts,
		emit:      emit,
		snap:      snap,
		state:     avatar.Idle,
		enteredAt: now,
		tracker:   sampler.NewTracker(snap.Settings, now),
		focus:     focus.New(snap.Settings.Pomodoro()),
	}
}

// State returns the current avatar state.
func (c *Core) State() avatar.State { return c.state }

// Dirty reports whether anything changed since the last MarkSaved.
func (c *Core) Dirty() bool { return c.dirty }

// MarkSaved clears the dirty flag.
func (c *Core) MarkSaved() { c.dirty = false }

// Settings returns the active settings.
func (c *Core) Settings() config.Settings { return c.snap.Settings }

// Snapshot returns a copy of the persisted state stamped with now.
func (c *Core) Snapshot(now time.Time) store.Snapshot {
	s := c.snap
	s.History = append([]progression.Daily(nil), c.snap.History...)
	s.Settings.GitRepos = append([]string{}, c.snap.Settings.GitRepos...)
	s.SavedAt = now
	return s
}

func (c *Core) send(now time.Time, name string, payload any) {
	c.emit.Emit(events.Message{Name: name, At: now, Payload: payload})
}

func (c *Core) night(now time.Time) bool {
	return sampler.IsNight(now.Hour(), c.snap.Settings.NightHourStart, c.snap.Settings.NightHourEnd)
}

// prepare runs before any input: it rolls the day over and applies a due
// transient expiry, which takes precedence over the input that follows.
func (c *Core) prepare(now time.Time) {
	c.rollover(now)
	c.ExpireDue(now)
}

func (c *Core) rollover(now time.Time) {
	prev, rolled := c.snap.Rollover(now)
	if !rolled {
		return
	}
	c.dirty = true
	c.send(now, events.SystemDayChanged, events.DayChanged{Previous: prev, Current: c.snap.Today.Date})
}

// Dispatch feeds one event through the transition table. It reports whether
// the state changed.
func (c *Core) Dispatch(ev avatar.Event, now time.Time) bool {
	next, ok := avatar.Transition(c.state, ev, c.night(now))
	if !ok {
		return false
	}
	from := c.state
	c.state = next
	c.enteredAt = now
	c.gen++
	c.deadline = time.Time{}
	c.send(now, events.CatStateChanged, events.StateChanged{From: from, To: next, Mood: next.Mood()})

	if next.Transient() {
		d := next.Lifetime(c.opts.Interaction)
		c.deadline = now.Add(d)
		if c.schedule != nil {
			c.schedule(d, c.gen)
		}
	}
	return true
}

// Expire applies the expiry scheduled under gen. Stale expiries, from a
// transient state that has since been left, are ignored.
func (c *Core) Expire(gen uint64, now time.Time) bool {
	if gen != c.gen || !c.state.Transient() {
		return false
	}
	lifetime := c.state.Lifetime(c.opts.Interaction)
	held := max(now.Sub(c.enteredAt), lifetime)
	return c.Dispatch(avatar.Expired(uint64(held/time.Second)), now)
}

// ExpireDue expires the current transient state if its deadline has passed.
func (c *Core) ExpireDue(now time.Time) bool {
	if !c.state.Transient() || c.deadline.IsZero() || now.Before(c.deadline) {
		return false
	}
	return c.Expire(c.gen, now)
}

// award adds exp from one source and announces the gain and any level-ups.
func (c *Core) award(amount uint64, source string, now time.Time) {
	if amount == 0 {
		return
	}
	var gained int
	c.snap.Cat.Totals, gained = progression.ApplyExp(c.snap.Cat.Totals, amount)
	c.snap.Today.ExpGained += amount
	c.dirty = true
	c.send(now, events.CatExpGained, events.ExpGained{Amount: amount, Source: source})
	for i := gained - 1; i >= 0; i-- {
		c.send(now, events.CatLevelUp, events.LevelUp{Level: c.snap.Cat.Level - uint32(i)})
	}
}

// qualify records qualifying activity for today: the first one of the day
// advances the streak and awards the streak bonus.
func (c *Core) qualify(now time.Time) {
	if c.snap.Today.StreakAwarded {
		return
	}
	today := c.snap.Today.Date
	c.snap.Cat.StreakDays = progression.AdvanceStreak(c.snap.Cat.LastActiveDate, today, c.snap.Cat.StreakDays)
	c.snap.Cat.LastActiveDate = today
	c.snap.Today.StreakAwarded = true
	c.dirty = true
	c.award(progression.StreakBonus(c.snap.Cat.StreakDays), events.SourceStreak, now)
}

// HandleSample processes one poll tick.
func (c *Core) HandleSample(cur sampler.ActivitySample, now time.Time) sampler.Cycle {
	c.prepare(now)

	cycle := c.tracker.Derive(c.prev, cur, now)
	prevTick := c.lastTick
	prevDetected := c.prev.Detected() && c.snap.Settings.IDEDetection
	c.prev = cur
	c.lastTick = now

	if cycle.Closed != "" {
		c.send(now, events.ActivityIDEClosed, events.IDE{Name: cycle.Closed})
		if cycle.Opened == "" {
			c.sessionStart = time.Time{}
		}
	}
	if cycle.Opened != "" {
		c.send(now, events.ActivityIDEDetected, events.IDE{Name: cycle.Opened})
		if c.sessionStart.IsZero() {
			c.sessionStart = now
		}
	}
	if cycle.IdleCrossed {
		c.send(now, events.ActivityIdle, events.Elapsed{Seconds: cycle.IdleSeconds})
	}
	if cycle.SleepCrossed {
		c.send(now, events.ActivitySleeping, events.Elapsed{Seconds: cycle.IdleSeconds})
	}
	for _, ev := range cycle.Events {
		c.Dispatch(ev, now)
	}
	// A transient state that expired while the IDE stayed in use lands in
	// Idle with no fresh none-to-some edge; resume coding from the sample.
	if c.state == avatar.Idle && cycle.Sample.Detected() {
		c.Dispatch(avatar.Activity(), now)
	}
	if cycle.LateNightStarted {
		c.send(now, events.ActivityLateNight, events.LateNight{Hour: now.Hour()})
	}

	if cycle.Sample.Detected() && prevDetected && c.snap.Settings.ActivityTracking && !prevTick.IsZero() {
		c.accrueCoding(min(now.Sub(prevTick), 2*c.opts.Poll), now)
	}

	c.tickFocus(now)
	c.send(now, events.ActivityStatus, c.status(now, cycle))
	return cycle
}

func (c *Core) accrueCoding(elapsed time.Duration, now time.Time) {
	if elapsed <= 0 {
		return
	}
	c.codingCarry += elapsed
	minutes := uint32(c.codingCarry / time.Minute)
	if minutes == 0 {
		return
	}
	c.codingCarry -= time.Duration(minutes) * time.Minute
	c.snap.Today.CodingMinutes += minutes
	c.snap.Cat.TotalCodingMinutes += uint64(minutes)
	c.dirty = true
	c.award(progression.CodingMinuteExp(minutes), events.SourceCoding, now)
	c.qualify(now)
}

func (c *Core) tickFocus(now time.Time) {
	if !c.focus.Active() {
		return
	}
	if c.focus.Complete(now) {
		c.snap.Today.FocusSessions++
		c.snap.Cat.TotalFocusSessions++
		c.dirty = true
		c.send(now, events.PomodoroComplete, events.FocusComplete{SessionsToday: c.snap.Today.FocusSessions})
		c.award(progression.FocusSessionExp(1), events.SourceFocus, now)
		c.qualify(now)
		return
	}
	c.send(now, events.PomodoroTick, events.FocusRemaining{RemainingSeconds: seconds(c.focus.Remaining(now))})
}

// Commit records a new commit: it counts toward today, celebrates when the
// avatar is coding, and awards the marginal commit exp.
func (c *Core) Commit(commit gitwatch.Commit, now time.Time) {
	if !c.snap.Settings.GitIntegration {
		return
	}
	c.prepare(now)

	c.snap.Today.Commits++
	c.snap.Cat.TotalCommits++
	c.dirty = true
	c.send(now, events.GitNewCommit, events.NewCommit{Repo: commit.Repo, Head: commit.Head})
	c.Dispatch(avatar.Commit(), now)
	c.award(progression.MarginalCommitExp(c.snap.Today.Commits), events.SourceCommit, now)
	c.qualify(now)
}

// Click handles the user clicking the avatar.
func (c *Core) Click(now time.Time) bool {
	c.prepare(now)
	return c.Dispatch(avatar.Click(), now)
}

// ReportError handles an external error signal, such as a failed build.
func (c *Core) ReportError(now time.Time) bool {
	c.prepare(now)
	return c.Dispatch(avatar.Failure(), now)
}

// StartFocus begins a focused-work session. It reports false if one is
// already running.
func (c *Core) StartFocus(now time.Time) bool {
	c.prepare(now)
	c.focus.SetLength(c.snap.Settings.Pomodoro())
	if !c.focus.Start(now) {
		return false
	}
	c.send(now, events.PomodoroTick, events.FocusRemaining{RemainingSeconds: seconds(c.focus.Remaining(now))})
	return true
}

// StopFocus cancels the running session.
func (c *Core) StopFocus(now time.Time) bool {
	c.prepare(now)
	left, ok := c.focus.Stop(now)
	if ok {
		c.send(now, events.PomodoroCancelled, events.FocusRemaining{RemainingSeconds: seconds(left)})
	}
	return ok
}

// ApplySettings replaces the active settings.
func (c *Core) ApplySettings(s config.Settings) {
	s = s.Normalize()
	c.snap.Settings = s
	c.tracker.Apply(s)
	c.focus.SetLength(s.Pomodoro())
	c.dirty = true
}

// Status returns the full status at now.
func (c *Core) Status(now time.Time) events.Status {
	c.prepare(now)
	return c.status(now, sampler.Cycle{
		Sample:      c.prev,
		IdleSeconds: c.tracker.IdleSeconds(now),
		Night:       c.night(now),
	})
}

func (c *Core) status(now time.Time, cycle sampler.Cycle) events.Status {
	cat := c.snap.Cat
	streak := cat.StreakDays
	if !progression.StreakAlive(cat.LastActiveDate, c.snap.Today.Date) {
		streak = 0
	}
	st := events.Status{
		RunID:       c.opts.RunID,
		State:       c.state,
		Mood:        c.state.Mood(),
		Level:       cat.Level,
		Exp:         cat.CurrentExp,
		ExpToNext:   cat.ExpToNext(),
		TotalExp:    cat.TotalExp,
		StreakDays:  streak,
		IdleSeconds: cycle.IdleSeconds,
		Night:       cycle.Night,
		Today:       c.snap.Today,
		Breakdown:   progression.BreakdownFor(c.snap.Today, cat.StreakDays),
	}
	if c.snap.Settings.IDEDetection {
		st.ActiveIDE = cycle.Sample.RecognizedIDE
	}
	if st.ActiveIDE != "" && !c.sessionStart.IsZero() {
		st.SessionMinutes = uint32(now.Sub(c.sessionStart) / time.Minute)
	}
	fs := c.focus.Status(now)
	st.Focus = events.Focus{
		Active:           fs.Active,
		RemainingSeconds: seconds(fs.Remaining),
		TotalSeconds:     seconds(fs.Total),
		SessionsToday:    c.snap.Today.FocusSessions,
	}
	return st
}

func seconds(d time.Duration) uint64 {
	if d <= 0 {
		return 0
	}
	return uint64(d / time.Second)
}

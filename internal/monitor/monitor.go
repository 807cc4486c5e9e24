package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/CodexForgeBR/commitcat/internal/config"
	"github.com/CodexForgeBR/commitcat/internal/events"
	"github.com/CodexForgeBR/commitcat/internal/gitwatch"
	"github.com/CodexForgeBR/commitcat/internal/logging"
	"github.com/CodexForgeBR/commitcat/internal/sampler"
	"github.com/CodexForgeBR/commitcat/internal/store"
)

// ErrStopped is returned by requests made after Run has exited.
var ErrStopped = errors.New("monitor stopped")

// Config configures a Monitor.
type Config struct {
	PollInterval  time.Duration // time between samples (default 10s)
	FlushInterval time.Duration // time between saves of a changed snapshot (default 60s)
	Interaction   time.Duration // Interaction state lifetime (default 3s)
	RunID         string
	Now           func() time.Time // clock, configurable for testing
}

type op func(now time.Time)

type tick struct {
	sample sampler.ActivitySample
	done   chan struct{}
}

// Monitor runs the sampling loop and serializes every mutation of its Core
// through one goroutine. Process listing runs on a separate goroutine so a
// slow subprocess never delays clicks or status requests, and the next
// sample is not taken until the previous one has been fully handled.
type Monitor struct {
	cfg     Config
	core    *Core
	sampler *sampler.Sampler
	store   store.Store

	ops   chan op
	done  chan struct{}
	timer *time.Timer

	onSettings func(config.Settings)
	final      events.Status
}

// New builds a monitor over a loaded snapshot.
func New(cfg Config, snap store.Snapshot, smp *sampler.Sampler, st store.Store, emit events.Emitter) *Monitor {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 10 * time.Second
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 60 * time.Second
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	m := &Monitor{
		cfg:     cfg,
		sampler: smp,
		store:   st,
		ops:     make(chan op, 64),
		done:    make(chan struct{}),
	}
	m.core = NewCore(Options{Poll: cfg.PollInterval, Interaction: cfg.Interaction, RunID: cfg.RunID}, snap, emit, cfg.Now())
	m.core.schedule = m.arm
	return m
}

// OnSettings registers fn to be called, on the actor goroutine, whenever
// settings are reloaded.
func (m *Monitor) OnSettings(fn func(config.Settings)) { m.onSettings = fn }

// arm replaces the pending transient expiry. It runs on the actor goroutine.
func (m *Monitor) arm(d time.Duration, gen uint64) {
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = time.AfterFunc(d, func() {
		m.post(func(now time.Time) { m.core.Expire(gen, now) })
	})
}

func (m *Monitor) post(fn op) bool {
	select {
	case m.ops <- fn:
		return true
	case <-m.done:
		return false
	}
}

// Run samples and serves requests until ctx is cancelled, then saves the
// snapshot one last time.
func (m *Monitor) Run(ctx context.Context) error {
	defer close(m.done)

	ticks := make(chan tick)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return m.sampleLoop(gctx, ticks) })
	g.Go(func() error { return m.loop(gctx, ticks) })
	err := g.Wait()

	if m.timer != nil {
		m.timer.Stop()
	}
	m.flush(true)
	m.final = m.core.Status(m.cfg.Now())
	return err
}

// FinalStatus returns the status captured when Run exited. It must not be
// called before Run returns.
func (m *Monitor) FinalStatus() events.Status { return m.final }

func (m *Monitor) sampleLoop(ctx context.Context, ticks chan<- tick) error {
	ticker := time.NewTicker(m.cfg.PollInterval)
	defer ticker.Stop()

	for {
		t := tick{sample: m.sampler.Sample(ctx), done: make(chan struct{})}
		select {
		case ticks <- t:
		case <-ctx.Done():
			return nil
		}
		select {
		case <-t.done:
		case <-ctx.Done():
			return nil
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil
		}
	}
}

func (m *Monitor) loop(ctx context.Context, ticks <-chan tick) error {
	flush := time.NewTicker(m.cfg.FlushInterval)
	defer flush.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case t := <-ticks:
			m.core.HandleSample(t.sample, m.cfg.Now())
			close(t.done)
		case fn := <-m.ops:
			fn(m.cfg.Now())
		case <-flush.C:
			m.flush(false)
		}
	}
}

func (m *Monitor) flush(force bool) {
	if m.store == nil || (!force && !m.core.Dirty()) {
		return
	}
	if err := m.store.Save(m.core.Snapshot(m.cfg.Now())); err != nil {
		logging.Warn(fmt.Sprintf("save snapshot: %v", err))
		return
	}
	m.core.MarkSaved()
	logging.Debug("snapshot saved")
}

// Click reports a click on the avatar.
func (m *Monitor) Click() { m.post(func(now time.Time) { m.core.Click(now) }) }

// ReportError reports an external error, such as a failed build.
func (m *Monitor) ReportError() { m.post(func(now time.Time) { m.core.ReportError(now) }) }

// StartFocus starts a focused-work session.
func (m *Monitor) StartFocus() { m.post(func(now time.Time) { m.core.StartFocus(now) }) }

// StopFocus cancels the focused-work session.
func (m *Monitor) StopFocus() { m.post(func(now time.Time) { m.core.StopFocus(now) }) }

// Commit reports a commit found by the git watcher.
func (m *Monitor) Commit(c gitwatch.Commit) {
	m.post(func(now time.Time) { m.core.Commit(c, now) })
}

// UpdateSettings replaces the active settings.
func (m *Monitor) UpdateSettings(s config.Settings) {
	m.post(func(time.Time) { m.applySettings(s) })
}

// Reload re-reads settings from the store, picking up edits made while the
// daemon runs.
func (m *Monitor) Reload() {
	m.post(func(time.Time) {
		if m.store == nil {
			return
		}
		snap, err := m.store.Load()
		if err != nil {
			logging.Warn(fmt.Sprintf("reload settings: %v", err))
			return
		}
		m.applySettings(snap.Settings)
	})
}

func (m *Monitor) applySettings(s config.Settings) {
	m.core.ApplySettings(s)
	logging.Info("settings reloaded")
	if m.onSettings != nil {
		m.onSettings(m.core.Settings())
	}
}

// Status returns the current status.
func (m *Monitor) Status(ctx context.Context) (events.Status, error) {
	reply := make(chan events.Status, 1)
	if !m.post(func(now time.Time) { reply <- m.core.Status(now) }) {
		return events.Status{}, ErrStopped
	}
	select {
	case st := <-reply:
		return st, nil
	case <-ctx.Done():
		return events.Status{}, ctx.Err()
	case <-m.done:
		return events.Status{}, ErrStopped
	}
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/CodexForgeBR/commitcat/internal/banner"
	"github.com/CodexForgeBR/commitcat/internal/config"
	"github.com/CodexForgeBR/commitcat/internal/events"
	"github.com/CodexForgeBR/commitcat/internal/exitcode"
	"github.com/CodexForgeBR/commitcat/internal/gitwatch"
	"github.com/CodexForgeBR/commitcat/internal/inbox"
	"github.com/CodexForgeBR/commitcat/internal/logging"
	"github.com/CodexForgeBR/commitcat/internal/monitor"
	"github.com/CodexForgeBR/commitcat/internal/sampler"
	sighandler "github.com/CodexForgeBR/commitcat/internal/signal"
	"github.com/CodexForgeBR/commitcat/internal/store"
)

// ideTable returns the platform table, extended by the configured YAML file.
func ideTable(cfg *config.Config) (sampler.Table, error) {
	table := sampler.DefaultTable(runtime.GOOS)
	if cfg.IDETableFile == "" {
		return table, nil
	}
	return sampler.LoadTable(cfg.IDETableFile, table)
}

// handleCommand routes an inbox command to the monitor.
func handleCommand(mon *monitor.Monitor, c inbox.Command) {
	logging.Debug(fmt.Sprintf("inbox: %s (%s)", c.Kind, c.ID))
	switch c.Kind {
	case inbox.Click:
		mon.Click()
	case inbox.Error:
		mon.ReportError()
	case inbox.FocusStart:
		mon.StartFocus()
	case inbox.FocusStop:
		mon.StopFocus()
	case inbox.Reload:
		if len(c.Payload) == 0 {
			mon.Reload()
			return
		}
		var s config.Settings
		if err := json.Unmarshal(c.Payload, &s); err != nil {
			logging.Warn(fmt.Sprintf("inbox: bad settings payload: %v", err))
			mon.Reload()
			return
		}
		mon.UpdateSettings(s)
	}
}

func runDaemon(cfg *config.Config) error {
	table, err := ideTable(cfg)
	if err != nil {
		return &exitError{code: exitcode.Usage, err: err}
	}
	for tool, ok := range sampler.CheckAvailability(sampler.RequiredTools(runtime.GOOS)...) {
		if !ok {
			logging.Warn(tool + " not found in PATH; IDE detection will see nothing")
		}
	}

	st, err := store.Open(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	sinks := events.Multi{events.Console{}}
	journal, err := events.OpenJournal(cfg.EventLogPath())
	if err != nil {
		logging.Warn(fmt.Sprintf("event journal disabled: %v", err))
	} else {
		defer journal.Close()
		sinks = append(sinks, journal)
	}

	snap := store.LoadOrDefault(st, timeNow())
	runID := uuid.NewString()

	mon := monitor.New(monitor.Config{
		PollInterval:  cfg.Poll(),
		FlushInterval: cfg.Flush(),
		Interaction:   cfg.Interaction(),
		RunID:         runID,
	}, snap, sampler.New(sampler.DefaultLister(runtime.GOOS), table), st, sinks)

	watcher := gitwatch.New(snap.Settings.GitRepos, cfg.GitPoll(), mon.Commit)
	watcher.SetEnabled(snap.Settings.GitIntegration)
	mon.OnSettings(func(s config.Settings) {
		watcher.SetRepos(s.GitRepos)
		watcher.SetEnabled(s.GitIntegration)
	})

	box := inbox.New(cfg.InboxDir(), func(c inbox.Command) { handleCommand(mon, c) })

	h := sighandler.Setup(context.Background(), func(s os.Signal) {
		logging.Warn("Received " + s.String() + ", saving progress...")
	})
	defer h.Stop()

	banner.PrintStartupBanner(os.Stdout, banner.StartupInfo{
		RunID:   runID,
		Version: version,
		DataDir: cfg.DataDir,
		Backend: cfg.StoreBackend,
		Poll:    cfg.Poll(),
		Repos:   watcher.Repos(),
	})

	g, ctx := errgroup.WithContext(h.Context())
	g.Go(func() error { return mon.Run(ctx) })
	g.Go(func() error { return watcher.Run(ctx) })
	g.Go(func() error { return box.Run(ctx) })
	err = g.Wait()

	reason := "stopped"
	if s := h.Received(); s != nil {
		reason = s.String()
	}
	banner.PrintShutdownBanner(os.Stdout, mon.FinalStatus(), reason)

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if h.Received() != nil {
		return &exitError{code: exitcode.Interrupted}
	}
	return nil
}

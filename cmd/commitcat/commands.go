package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/commitcat/internal/banner"
	"github.com/CodexForgeBR/commitcat/internal/config"
	"github.com/CodexForgeBR/commitcat/internal/exitcode"
	"github.com/CodexForgeBR/commitcat/internal/gitwatch"
	"github.com/CodexForgeBR/commitcat/internal/inbox"
	"github.com/CodexForgeBR/commitcat/internal/logging"
	"github.com/CodexForgeBR/commitcat/internal/progression"
	"github.com/CodexForgeBR/commitcat/internal/store"
)

// timeNow is the clock used by every command.
var timeNow = time.Now

// loadSnapshot opens the configured store and returns the saved snapshot,
// rolled over to today.
func loadSnapshot(cfg *config.Config) (store.Snapshot, error) {
	st, err := store.Open(cfg)
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	now := timeNow()
	snap := store.LoadOrDefault(st, now)
	snap.Rollover(now)
	return snap, nil
}

// updateSettings applies edit to the saved settings, validates and saves the
// result, then hands it to a running daemon through the inbox.
func updateSettings(cfg *config.Config, edit func(*config.Settings) error) (config.Settings, error) {
	st, err := store.Open(cfg)
	if err != nil {
		return config.Settings{}, fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	now := timeNow()
	snap := store.LoadOrDefault(st, now)
	s := snap.Settings
	s.GitRepos = slices.Clone(s.GitRepos)
	if err := edit(&s); err != nil {
		return config.Settings{}, &exitError{code: exitcode.Usage, err: err}
	}
	if err := s.Validate(); err != nil {
		return config.Settings{}, &exitError{code: exitcode.Usage, err: err}
	}

	snap.Settings = s
	snap.SavedAt = now
	if err := st.Save(snap); err != nil {
		return config.Settings{}, fmt.Errorf("save settings: %w", err)
	}

	payload, err := json.Marshal(s)
	if err != nil {
		return s, fmt.Errorf("encode settings: %w", err)
	}
	if _, err := inbox.Poke(cfg.InboxDir(), inbox.Reload, payload); err != nil {
		logging.Debug(fmt.Sprintf("notify daemon: %v", err))
	}
	return s, nil
}

func newStatusCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show level, streak and today's activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			snap, err := loadSnapshot(cfg)
			if err != nil {
				return err
			}

			view := banner.StatusView{Snapshot: snap, Now: timeNow()}
			if snap.Settings.GitIntegration {
				for _, repo := range snap.Settings.GitRepos {
					n, err := gitwatch.CountTodayCommits(cmd.Context(), repo)
					view.Repos = append(view.Repos, banner.RepoCount{Path: repo, Commits: n, Err: err})
				}
			}
			banner.PrintStatus(cmd.OutOrStdout(), view)
			return nil
		},
	}
}

func newBreakdownCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "breakdown [YYYY-MM-DD]",
		Short: "Show a day's exp by source (default: today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			snap, err := loadSnapshot(cfg)
			if err != nil {
				return err
			}

			day := snap.Today
			if len(args) == 1 && args[0] != day.Date {
				if _, err := time.Parse(progression.DateLayout, args[0]); err != nil {
					return usageError("date must be YYYY-MM-DD, got: %s", args[0])
				}
				i := slices.IndexFunc(snap.History, func(d progression.Daily) bool { return d.Date == args[0] })
				if i < 0 {
					return usageError("no history for %s", args[0])
				}
				day = snap.History[i]
			}
			// Streak bonuses are not stored per day; past days show the
			// bonus for the current streak length.
			banner.PrintBreakdown(cmd.OutOrStdout(), day.Date, progression.BreakdownFor(day, snap.Cat.StreakDays))
			return nil
		},
	}
}

func newSettingsCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "settings [KEY=VALUE...]",
		Short: "Show or change settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				snap, err := loadSnapshot(cfg)
				if err != nil {
					return err
				}
				banner.PrintSettings(cmd.OutOrStdout(), snap.Settings)
				return nil
			}

			s, err := updateSettings(cfg, func(s *config.Settings) error {
				for _, arg := range args {
					key, value, ok := strings.Cut(arg, "=")
					if !ok {
						return fmt.Errorf("expected KEY=VALUE, got: %s", arg)
					}
					if err := config.ApplySetting(s, key, value); err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				return err
			}
			banner.PrintSettings(cmd.OutOrStdout(), s)
			return nil
		},
	}
}

func newRepoCmd(load loader) *cobra.Command {
	repo := &cobra.Command{
		Use:   "repo",
		Short: "Manage watched git repositories",
	}

	repo.AddCommand(&cobra.Command{
		Use:   "add <path>",
		Short: "Watch a git repository for commits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			abs, err := gitwatch.ValidateRepo(args[0])
			if err != nil {
				return usageError("%w", err)
			}
			_, err = updateSettings(cfg, func(s *config.Settings) error {
				if !slices.Contains(s.GitRepos, abs) {
					s.GitRepos = append(s.GitRepos, abs)
				}
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "watching %s\n", abs)
			return nil
		},
	})

	repo.AddCommand(&cobra.Command{
		Use:   "remove <path>",
		Short: "Stop watching a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			_, err = updateSettings(cfg, func(s *config.Settings) error {
				n := len(s.GitRepos)
				s.GitRepos = slices.DeleteFunc(s.GitRepos, func(r string) bool { return sameRepo(r, args[0]) })
				if len(s.GitRepos) == n {
					return fmt.Errorf("not watching %s", args[0])
				}
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stopped watching %s\n", args[0])
			return nil
		},
	})

	repo.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List watched repositories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			snap, err := loadSnapshot(cfg)
			if err != nil {
				return err
			}
			for _, r := range snap.Settings.GitRepos {
				fmt.Fprintln(cmd.OutOrStdout(), r)
			}
			return nil
		},
	})
	return repo
}

// sameRepo matches a stored repository against a user-typed path, which may
// be relative.
func sameRepo(stored, typed string) bool {
	if stored == typed {
		return true
	}
	abs, err := filepath.Abs(typed)
	return err == nil && abs == stored
}

func newPokeCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "poke <click|error|focus-start|focus-stop|reload>",
		Short: "Send a command to the running daemon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			kind, err := inbox.ParseKind(args[0])
			if err != nil {
				return usageError("%w", err)
			}
			id, err := inbox.Poke(cfg.InboxDir(), kind, nil)
			if err != nil {
				return err
			}
			logging.Debug("queued " + id)
			fmt.Fprintf(cmd.OutOrStdout(), "sent %s\n", kind)
			return nil
		},
	}
}

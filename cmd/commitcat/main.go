package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/commitcat/internal/cli"
	"github.com/CodexForgeBR/commitcat/internal/config"
	"github.com/CodexForgeBR/commitcat/internal/exitcode"
	"github.com/CodexForgeBR/commitcat/internal/logging"
)

// version vars injected via ldflags at build time
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// exitError carries a specific exit code out of a command. A nil err exits
// quietly.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return exitcode.Name(e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func usageError(format string, args ...any) error {
	return &exitError{code: exitcode.Usage, err: fmt.Errorf(format, args...)}
}

func main() {
	root := newRootCmd()
	err := root.Execute()
	if err == nil {
		return
	}

	code := exitcode.Error
	var ee *exitError
	if errors.As(err, &ee) {
		code = ee.code
		if ee.err == nil {
			os.Exit(code)
		}
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(code)
}

func newRootCmd() *cobra.Command {
	flagged := config.NewDefaultConfig()

	// load resolves the final config for whichever command is running.
	load := func(cmd *cobra.Command) (*config.Config, error) {
		cfg, err := cli.Load(cmd, flagged)
		if err != nil {
			return nil, err
		}
		logging.SetVerbose(cfg.Verbose)
		return cfg, nil
	}

	root := &cobra.Command{
		Use:     "commitcat",
		Short:   "A desktop cat that levels up while you code",
		Long:    "commitcat watches for running IDEs and new commits, drives a cat's mood from your activity and turns coding time, commits and focus sessions into experience.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			return runDaemon(cfg)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cli.BindFlags(root, flagged)
	cli.SetCustomHelp(root)

	root.AddCommand(
		newRunCmd(load),
		newStatusCmd(load),
		newBreakdownCmd(load),
		newSettingsCmd(load),
		newRepoCmd(load),
		newPokeCmd(load),
	)
	return root
}

type loader func(cmd *cobra.Command) (*config.Config, error)

func newRunCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			return runDaemon(cfg)
		},
	}
}

package cli

import (
	"github.com/spf13/cobra"
)

const helpTemplate = `commitcat - a cat that levels up while you code

USAGE
  commitcat [command] [flags]

COMMANDS
  run                          Start the daemon (default when no command is given)
  status                       Show level, streak and today's activity
  breakdown                    Show today's exp by source
  settings [KEY=VALUE...]      Show or change settings
  repo add <path>              Watch a git repository for commits
  poke <command>               Send click, error, focus-start, focus-stop or reload to the daemon

FLAGS
  Persistence:
    --data-dir <dir>                 Snapshot, journal and inbox directory (default: user config dir)
    --store <json|sqlite>            Snapshot backend (default: json)

  Cadence:
    --poll-interval <sec>            Seconds between process samples (default: 10)
    --flush-interval <sec>           Seconds between snapshot saves (default: 60)
    --git-poll-interval <sec>        Seconds between git HEAD polls (default: 30)
    --interaction-seconds <sec>      Seconds the cat reacts to a click (default: 3)

  Files:
    --ide-table <path>               YAML file with extra IDE process patterns
    --event-log <path>               JSON-lines event journal (default: <data-dir>/events.jsonl)
    --config <path>                  Path to additional config file

  Output:
    -v, --verbose                    Show debug output and periodic status

  Help & Version:
    -h, --help                       Show this help text
    --version                        Show version, commit, build date

SETTINGS
  activity_tracking=<bool>           Track idle time, late nights and coding minutes
  ide_detection=<bool>               Recognize running IDEs
  git_integration=<bool>             Watch registered repositories for commits
  pomodoro_minutes=<1-240>           Focus session length (default: 25)
  idle_threshold_seconds=<n>         Coding to idle, at least 180 (default: 180)
  sleep_threshold_seconds=<n>        Idle to sleeping, above the idle threshold (default: 600)
  night_hour_start=<0-23>            Night window start (default: 23)
  night_hour_end=<0-23>              Night window end (default: 6)

EXIT CODES
  0   Success              Command completed
  1   Error                Store, config or filesystem failure
  2   Usage                Unknown setting, command or repository
  130 Interrupted          Daemon stopped by SIGINT or SIGTERM

EXAMPLES
  # Start the daemon with a SQLite store
  commitcat run --store sqlite

  # Watch the current repository
  commitcat repo add .

  # Start a focus session in the running daemon
  commitcat poke focus-start

  # Raise the idle threshold to five minutes
  commitcat settings idle_threshold_seconds=300
`

// SetCustomHelp configures the root command to use the commitcat help text.
// Subcommands keep cobra's generated help.
func SetCustomHelp(cmd *cobra.Command) {
	cmd.SetHelpTemplate(helpTemplate)
}

// Package exitcode defines named exit codes for the commitcat CLI.
package exitcode

// Exit codes.
const (
	Success     = 0   // Command completed
	Error       = 1   // Runtime failure: store, config file, filesystem
	Usage       = 2   // Bad arguments: unknown setting, command or repository
	Interrupted = 130 // Daemon stopped by SIGINT/SIGTERM after saving
)

// Name returns the human-readable name for the given exit code.
// Unknown codes return "unknown".
func Name(code int) string {
	switch code {
	case Success:
		return "Success"
	case Error:
		return "Error"
	case Usage:
		return "Usage"
	case Interrupted:
		return "Interrupted"
	default:
		return "unknown"
	}
}

// Package logging provides colored, leveled log output for the commitcat CLI.
//
// Every line carries a wall-clock stamp and a color-coded level prefix. Debug
// output is suppressed unless verbose mode is enabled via SetVerbose(true).
// The daemon logs from several goroutines, so writes are serialized.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

var (
	mu      sync.Mutex
	out     io.Writer = os.Stderr
	verbose bool
	now     = time.Now
)

// Color printers for each log level.
var (
	infoPrefix    = color.New(color.FgBlue).SprintFunc()
	successPrefix = color.New(color.FgGreen).SprintFunc()
	warnPrefix    = color.New(color.FgYellow).SprintFunc()
	errorPrefix   = color.New(color.FgRed).SprintFunc()
	eventPrefix   = color.New(color.FgMagenta).SprintFunc()
	debugPrefix   = color.New(color.FgCyan).SprintFunc()
	stampColor    = color.New(color.Faint).SprintFunc()
)

// SetVerbose enables or disables Debug output.
func SetVerbose(v bool) {
	mu.Lock()
	verbose = v
	mu.Unlock()
}

// Verbose reports whether Debug output is enabled.
func Verbose() bool {
	mu.Lock()
	defer mu.Unlock()
	return verbose
}

// SetOutput redirects all log lines to w and returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := out
	out = w
	return prev
}

func write(prefix, msg string) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(out, "%s %s %s\n", stampColor(now().Format("15:04:05")), prefix, msg)
}

// Info prints an informational message in blue.
func Info(msg string) { write(infoPrefix("[INFO]"), msg) }

// Success prints a success message in green.
func Success(msg string) { write(successPrefix("[SUCCESS]"), msg) }

// Warn prints a warning message in yellow.
func Warn(msg string) { write(warnPrefix("[WARN]"), msg) }

// Error prints an error message in red.
func Error(msg string) { write(errorPrefix("[ERROR]"), msg) }

// Event prints a presentation message echo in magenta, tagged with its name.
func Event(name, msg string) { write(eventPrefix("["+name+"]"), msg) }

// Debug prints a debug message, only when verbose mode is enabled.
func Debug(msg string) {
	if !Verbose() {
		return
	}
	write(debugPrefix("[DEBUG]"), msg)
}

// FormatDuration converts a duration in seconds to a human-readable string.
//
// Examples:
//
//	FormatDuration(0)    => "0s"
//	FormatDuration(45)   => "45s"
//	FormatDuration(90)   => "1m 30s"
//	FormatDuration(3661) => "1h 1m 1s"
func FormatDuration(seconds uint64) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	if seconds < 3600 {
		return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
	}
	return fmt.Sprintf("%dh %dm %ds", seconds/3600, (seconds%3600)/60, seconds%60)
}

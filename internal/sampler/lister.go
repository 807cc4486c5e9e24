package sampler

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"
)

// ProcessLister is the single platform capability the sampler consumes: the
// names of currently running processes, or the foreground application.
type ProcessLister interface {
	ListActiveProcesses(ctx context.Context) ([]string, error)
}

// ListerFunc adapts a function to ProcessLister.
type ListerFunc func(ctx context.Context) ([]string, error)

// ListActiveProcesses calls f(ctx).
func (f ListerFunc) ListActiveProcesses(ctx context.Context) ([]string, error) { return f(ctx) }

// DefaultCommandTimeout bounds each subprocess query.
const DefaultCommandTimeout = 5 * time.Second

// CommandLister runs an external command and parses its output into process
// names.
type CommandLister struct {
	Name    string
	Args    []string
	Parse   func([]byte) []string
	Timeout time.Duration
}

// ListActiveProcesses runs the command once.
func (c CommandLister) ListActiveProcesses(ctx context.Context) ([]string, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, c.Name, c.Args...).Output()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.Name, err)
	}
	parse := c.Parse
	if parse == nil {
		parse = ParseLines
	}
	return parse(out), nil
}

// Chain queries every lister in order and concatenates the results. It fails
// only when every lister fails.
type Chain []ProcessLister

// ListActiveProcesses merges the output of each lister.
func (c Chain) ListActiveProcesses(ctx context.Context) ([]string, error) {
	var (
		all  []string
		errs []error
	)
	for _, l := range c {
		names, err := l.ListActiveProcesses(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		all = append(all, names...)
	}
	if len(errs) == len(c) && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return all, nil
}

// PS lists process command names with ps.
func PS() CommandLister {
	return CommandLister{Name: "ps", Args: []string{"-A", "-o", "comm="}, Parse: ParseLines}
}

// Tasklist lists Windows process image names.
func Tasklist() CommandLister {
	return CommandLister{Name: "tasklist", Args: []string{"/FO", "CSV", "/NH"}, Parse: ParseTasklistCSV}
}

const frontmostScript = `tell application "System Events" to get name of first application process whose frontmost is true`

// Frontmost returns the macOS foreground application's name.
func Frontmost() CommandLister {
	return CommandLister{Name: "osascript", Args: []string{"-e", frontmostScript}, Parse: ParseLines}
}

// DefaultLister returns the lister for goos. macOS asks for the foreground
// application first and falls back to the full process list.
func DefaultLister(goos string) ProcessLister {
	switch goos {
	case "windows":
		return Tasklist()
	case "darwin":
		return Chain{Frontmost(), PS()}
	default:
		return PS()
	}
}

// RequiredTools names the external commands DefaultLister(goos) runs.
func RequiredTools(goos string) []string {
	switch goos {
	case "windows":
		return []string{"tasklist"}
	case "darwin":
		return []string{"osascript", "ps"}
	default:
		return []string{"ps"}
	}
}

// CheckAvailability checks if the given tools are available in PATH.
// Returns a map of tool name to availability status.
func CheckAvailability(tools ...string) map[string]bool {
	result := make(map[string]bool, len(tools))
	for _, tool := range tools {
		_, err := exec.LookPath(tool)
		result[tool] = err == nil
	}
	return result
}

// ParseLines splits command output into trimmed, non-empty lines.
func ParseLines(out []byte) []string {
	var names []string
	for _, line := range strings.Split(string(out), "\n") {
		if s := strings.TrimSpace(line); s != "" {
			names = append(names, s)
		}
	}
	return names
}

// ParseTasklistCSV extracts the image name column from tasklist CSV output.
// Malformed rows are skipped.
func ParseTasklistCSV(out []byte) []string {
	r := csv.NewReader(bytes.NewReader(out))
	r.FieldsPerRecord = -1
	var names []string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			continue
		}
		if len(rec) > 0 {
			if s := strings.TrimSpace(rec[0]); s != "" {
				names = append(names, s)
			}
		}
	}
	return names
}

// Package inbox lets short-lived CLI invocations send commands to a running
// daemon by dropping files into a shared directory.
package inbox

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/CodexForgeBR/commitcat/internal/logging"
)

// Kind names a command.
type Kind string

// Command kinds.
const (
	Click      Kind = "click"
	Error      Kind = "error"
	FocusStart Kind = "focus-start"
	FocusStop  Kind = "focus-stop"
	Reload     Kind = "reload"
)

// Kinds lists every accepted kind.
var Kinds = []Kind{Click, Error, FocusStart, FocusStop, Reload}

// ParseKind validates s.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Kinds, k) {
		return k, nil
	}
	names := make([]string, len(Kinds))
	for i, k := range Kinds {
		names[i] = string(k)
	}
	return "", fmt.Errorf("unknown command %q (known: %s)", s, strings.Join(names, ", "))
}

// Command is one dropped file. Payload is the file's content, empty for
// commands that carry no data.
type Command struct {
	Kind    Kind
	ID      string
	At      time.Time
	Payload []byte
}

const ext = ".cmd"

// StaleAfter is the age past which a command is discarded unread, so
// commands left over from a stopped daemon are not replayed.
const StaleAfter = time.Minute

// Poke drops a command for the daemon watching dir and returns its ID. The
// file is written under a temporary name and renamed, so readers never see a
// partial command.
func Poke(dir string, kind Kind, payload []byte) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create inbox: %w", err)
	}
	id := uuid.NewString()
	tmp := filepath.Join(dir, "."+id+".tmp")
	if err := os.WriteFile(tmp, payload, 0644); err != nil {
		return "", fmt.Errorf("write command: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(dir, string(kind)+"-"+id+ext)); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("publish command: %w", err)
	}
	return id, nil
}

// parseName splits "<kind>-<uuid>.cmd". Kinds may contain dashes; the UUID is
// always the last 36 characters.
func parseName(name string) (Kind, string, bool) {
	base, ok := strings.CutSuffix(name, ext)
	if !ok || len(base) < 38 {
		return "", "", false
	}
	id := base[len(base)-36:]
	if _, err := uuid.Parse(id); err != nil || base[len(base)-37] != '-' {
		return "", "", false
	}
	k, err := ParseKind(base[:len(base)-37])
	if err != nil {
		return "", "", false
	}
	return k, id, true
}

// Inbox consumes commands dropped into a directory.
type Inbox struct {
	dir    string
	handle func(Command)
	poll   time.Duration
	now    func() time.Time
}

// New returns an inbox over dir. handle is called from the goroutine running
// Run, once per command, oldest first.
func New(dir string, handle func(Command)) *Inbox {
	return &Inbox{dir: dir, handle: handle, poll: 2 * time.Second, now: time.Now}
}

// Dir returns the watched directory.
func (in *Inbox) Dir() string { return in.dir }

// Drain reads, deletes and returns every pending command, oldest first.
// Unrecognized and stale files are deleted without being returned.
func (in *Inbox) Drain() []Command {
	entries, err := os.ReadDir(in.dir)
	if err != nil {
		logging.Debug(fmt.Sprintf("inbox: %v", err))
		return nil
	}

	now := in.now()
	var cmds []Command
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(in.dir, name)
		info, err := e.Info()
		if err != nil {
			continue
		}
		kind, id, ok := parseName(name)
		var payload []byte
		if ok {
			payload, _ = os.ReadFile(path)
		}
		if err := os.Remove(path); err != nil {
			// Another reader claimed it.
			continue
		}
		if !ok {
			logging.Debug("inbox: discarding " + name)
			continue
		}
		if now.Sub(info.ModTime()) > StaleAfter {
			logging.Debug("inbox: discarding stale " + name)
			continue
		}
		cmds = append(cmds, Command{Kind: kind, ID: id, At: info.ModTime(), Payload: payload})
	}
	slices.SortStableFunc(cmds, func(a, b Command) int { return a.At.Compare(b.At) })
	return cmds
}

func (in *Inbox) dispatch() {
	for _, c := range in.Drain() {
		if in.handle != nil {
			in.handle(c)
		}
	}
}

// Run dispatches commands until ctx is cancelled.
func (in *Inbox) Run(ctx context.Context) error {
	if err := os.MkdirAll(in.dir, 0755); err != nil {
		return fmt.Errorf("create inbox: %w", err)
	}

	var (
		events <-chan fsnotify.Event
		errs   <-chan error
	)
	fw, err := fsnotify.NewWatcher()
	if err == nil {
		defer fw.Close()
		if err := fw.Add(in.dir); err != nil {
			logging.Debug(fmt.Sprintf("inbox: cannot watch %s: %v", in.dir, err))
		} else {
			events, errs = fw.Events, fw.Errors
		}
	}

	in.dispatch()

	ticker := time.NewTicker(in.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Rename) != 0 {
				in.dispatch()
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logging.Debug(fmt.Sprintf("inbox: watch error: %v", err))
		case <-ticker.C:
			in.dispatch()
		}
	}
}

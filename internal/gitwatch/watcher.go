package gitwatch

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/CodexForgeBR/commitcat/internal/logging"
)

// Commit reports that HEAD moved in Repo.
type Commit struct {
	Repo string
	Head string
}

// DefaultPoll is used when New is given a non-positive interval.
const DefaultPoll = 30 * time.Second

// DefaultDebounce batches the burst of ref writes a single commit produces.
const DefaultDebounce = 250 * time.Millisecond

// Watcher polls registered repositories for HEAD changes and also reacts to
// filesystem events under .git so commits show up before the next poll.
// The first HEAD read for a repository only records a baseline.
type Watcher struct {
	mu      sync.Mutex
	repos   []string
	heads   map[string]string
	enabled bool

	poll     time.Duration
	debounce time.Duration
	onCommit func(Commit)
	reload   chan struct{}
}

// New returns an enabled watcher over repos. onCommit is called from the
// goroutine running Run.
func New(repos []string, poll time.Duration, onCommit func(Commit)) *Watcher {
	if poll <= 0 {
		poll = DefaultPoll
	}
	w := &Watcher{
		heads:    make(map[string]string),
		enabled:  true,
		poll:     poll,
		debounce: DefaultDebounce,
		onCommit: onCommit,
		reload:   make(chan struct{}, 1),
	}
	w.repos = normalize(repos)
	return w
}

func normalize(repos []string) []string {
	out := make([]string, 0, len(repos))
	for _, r := range repos {
		if r == "" {
			continue
		}
		out = append(out, filepath.Clean(r))
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// SetRepos replaces the watched repositories. Newly added ones start from a
// fresh baseline.
func (w *Watcher) SetRepos(repos []string) {
	w.mu.Lock()
	w.repos = normalize(repos)
	for r := range w.heads {
		if !slices.Contains(w.repos, r) {
			delete(w.heads, r)
		}
	}
	w.mu.Unlock()
	w.signalReload()
}

// SetEnabled turns commit detection on or off. Disabling forgets every
// baseline so re-enabling never reports commits made in between.
func (w *Watcher) SetEnabled(enabled bool) {
	w.mu.Lock()
	w.enabled = enabled
	if !enabled {
		clear(w.heads)
	}
	w.mu.Unlock()
	w.signalReload()
}

// Repos returns the watched repositories.
func (w *Watcher) Repos() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.repos)
}

func (w *Watcher) signalReload() {
	select {
	case w.reload <- struct{}{}:
	default:
	}
}

// Poll reads every HEAD once and returns the commits found. Unreadable
// repositories are skipped until the next poll.
func (w *Watcher) Poll() []Commit {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.enabled {
		return nil
	}

	var found []Commit
	for _, repo := range w.repos {
		head, err := ReadHead(repo)
		if err != nil {
			logging.Debug(fmt.Sprintf("git: %s: %v", repo, err))
			continue
		}
		prev, seen := w.heads[repo]
		w.heads[repo] = head
		if seen && prev != head {
			found = append(found, Commit{Repo: repo, Head: head})
		}
	}
	return found
}

func (w *Watcher) check() {
	for _, c := range w.Poll() {
		if w.onCommit != nil {
			w.onCommit(c)
		}
	}
}

// Run polls until ctx is cancelled. Filesystem notifications are best effort;
// when they are unavailable the poll interval alone drives detection.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		logging.Warn(fmt.Sprintf("git: filesystem notifications unavailable, polling only: %v", err))
		fw = nil
	} else {
		defer fw.Close()
	}

	var (
		fsEvents <-chan fsnotify.Event
		fsErrors <-chan error
		watched  = map[string]bool{}
	)
	if fw != nil {
		fsEvents, fsErrors = fw.Events, fw.Errors
		w.syncWatches(fw, watched)
	}

	w.check()

	ticker := time.NewTicker(w.poll)
	defer ticker.Stop()
	debounce := time.NewTimer(w.debounce)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-ticker.C:
			w.check()

		case <-w.reload:
			if fw != nil {
				w.syncWatches(fw, watched)
			}
			w.check()

		case ev, ok := <-fsEvents:
			if !ok {
				fsEvents = nil
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				debounce.Reset(w.debounce)
			}

		case err, ok := <-fsErrors:
			if !ok {
				fsErrors = nil
				continue
			}
			logging.Debug(fmt.Sprintf("git: watch error: %v", err))

		case <-debounce.C:
			w.check()
		}
	}
}

// syncWatches watches .git and .git/refs/heads of every repository and drops
// watches for repositories that were removed.
func (w *Watcher) syncWatches(fw *fsnotify.Watcher, watched map[string]bool) {
	want := map[string]bool{}
	w.mu.Lock()
	enabled := w.enabled
	for _, repo := range w.repos {
		if enabled {
			want[GitDir(repo)] = true
			want[filepath.Join(GitDir(repo), "refs", "heads")] = true
		}
	}
	w.mu.Unlock()

	for dir := range watched {
		if !want[dir] {
			_ = fw.Remove(dir)
			delete(watched, dir)
		}
	}
	for dir := range want {
		if watched[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			logging.Debug(fmt.Sprintf("git: cannot watch %s: %v", dir, err))
			continue
		}
		watched[dir] = true
	}
}

// Package gitwatch detects new commits in registered repositories by watching
// their HEAD for changes.
package gitwatch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ErrNotRepo is returned for paths without a .git directory.
var ErrNotRepo = errors.New("not a valid git repository")

// ErrUnborn is returned by ReadHead when HEAD names a branch with no commits.
var ErrUnborn = errors.New("HEAD has no commits yet")

// GitDir returns the .git directory for repo.
func GitDir(repo string) string { return filepath.Join(repo, ".git") }

// ValidateRepo returns the absolute path of repo if it contains .git.
func ValidateRepo(repo string) (string, error) {
	abs, err := filepath.Abs(repo)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", repo, err)
	}
	if _, err := os.Stat(GitDir(abs)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", abs, ErrNotRepo)
		}
		return "", fmt.Errorf("stat %s: %w", GitDir(abs), err)
	}
	return abs, nil
}

// ReadHead returns the commit hash HEAD points at. A symbolic HEAD is resolved
// through the loose ref file, falling back to packed-refs.
func ReadHead(repo string) (string, error) {
	gitDir := GitDir(repo)
	data, err := os.ReadFile(filepath.Join(gitDir, "HEAD"))
	if err != nil {
		return "", fmt.Errorf("read HEAD: %w", err)
	}
	head := strings.TrimSpace(string(data))
	ref, symbolic := strings.CutPrefix(head, "ref:")
	if !symbolic {
		return head, nil
	}
	ref = strings.TrimSpace(ref)

	if b, err := os.ReadFile(filepath.Join(gitDir, filepath.FromSlash(ref))); err == nil {
		if hash := strings.TrimSpace(string(b)); hash != "" {
			return hash, nil
		}
	}
	return readPackedRef(gitDir, ref)
}

func readPackedRef(gitDir, ref string) (string, error) {
	f, err := os.Open(filepath.Join(gitDir, "packed-refs"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", ref, ErrUnborn)
		}
		return "", fmt.Errorf("open packed-refs: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if line == "" || line[0] == '#' || line[0] == '^' {
			continue
		}
		hash, name, ok := strings.Cut(line, " ")
		if ok && strings.TrimSpace(name) == ref {
			return hash, nil
		}
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("read packed-refs: %w", err)
	}
	return "", fmt.Errorf("%s: %w", ref, ErrUnborn)
}

// DefaultGitTimeout bounds a single git invocation.
const DefaultGitTimeout = 10 * time.Second

// CountTodayCommits asks git how many commits HEAD gained since local
// midnight.
func CountTodayCommits(ctx context.Context, repo string) (uint32, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultGitTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "rev-list", "--count", "--since=midnight", "HEAD")
	cmd.Dir = repo
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("git rev-list in %s: %w", repo, err)
	}
	n, err := strconv.ParseUint(strings.TrimSpace(string(out)), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("parse commit count %q: %w", strings.TrimSpace(string(out)), err)
	}
	return uint32(n), nil
}

package sync

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

// errNothingStaged is returned by the diff step when the export is
// unchanged, ending the write without a commit.
var errNothingStaged = errors.New("nothing staged")

// GitDestination commits the export to a file in a local clone and pushes
// it to origin. Writers on the same clone are serialized by a lock file
// inside .git.
type GitDestination struct {
	repo   string
	file   string // relative to repo
	branch string
}

// NewGitDestination returns a destination for an existing clone at repo.
func NewGitDestination(repo, file, branch string) *GitDestination {
	return &GitDestination{repo: repo, file: file, branch: branch}
}

func (d *GitDestination) Name() string {
	return fmt.Sprintf("git:%s@%s", filepath.Join(d.repo, d.file), d.branch)
}

// Write records data as a commit on the branch. Unchanged data makes no
// commit and pushes nothing.
func (d *GitDestination) Write(ctx context.Context, data []byte) error {
	lock := flock.New(filepath.Join(d.repo, ".git", "cinemap-sync.lock"))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock clone: %w", err)
	}
	defer lock.Unlock()

	if _, err := d.git(ctx, "checkout", d.branch); err != nil {
		return err
	}
	// A fresh remote has no branch to pull yet.
	_, _ = d.git(ctx, "pull", "--ff-only", "origin", d.branch)

	path := filepath.Join(d.repo, d.file)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}

	steps := []func() error{
		func() error { _, err := d.git(ctx, "add", "--", d.file); return err },
		func() error {
			if _, err := d.git(ctx, "diff", "--cached", "--quiet"); err == nil {
				return errNothingStaged
			}
			return nil
		},
		func() error { _, err := d.git(ctx, "commit", "-m", "sync: update "+d.file); return err },
		func() error { _, err := d.git(ctx, "push", "origin", d.branch); return err },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			if errors.Is(err, errNothingStaged) {
				return nil
			}
			return err
		}
	}
	return nil
}

// git runs one git command in the clone. Failures carry git's own output.
func (d *GitDestination) git(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = d.repo
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(out.String())
		if msg == "" {
			return nil, fmt.Errorf("git %s: %w", args[0], err)
		}
		return nil, fmt.Errorf("git %s: %w: %s", args[0], err, msg)
	}
	return out.Bytes(), nil
}

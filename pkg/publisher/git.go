// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package publisher

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"k8s.io/utils/exec"

	"github.com/NVIDIA/zbx-archive/pkg/defaults"
	"github.com/NVIDIA/zbx-archive/pkg/errors"
)

// CommitMessagePrefix starts every archive commit message.
const CommitMessagePrefix = "Zabbix metrics update: "

// maxOutputInError bounds the command output carried in errors.
const maxOutputInError = 4096

// Git commits the artifacts to a local clone and pushes them.
type Git struct {
	RepoPath string
	Remote   string
	Branch   string

	// Binary is the git executable. Empty means "git" on PATH.
	Binary string
	// Timeout bounds each git command. Zero means defaults.GitCommandTimeout.
	Timeout time.Duration
	// Exec runs commands. Nil means the host executor.
	Exec exec.Interface
}

// NewGit returns a Git publisher for repoPath with default remote and branch
// when those are empty.
func NewGit(repoPath, remote, branch string) *Git {
	if remote == "" {
		remote = defaults.GitRemote
	}
	if branch == "" {
		branch = defaults.GitBranch
	}
	return &Git{
		RepoPath: repoPath,
		Remote:   remote,
		Branch:   branch,
	}
}

// Name implements Publisher.
func (g *Git) Name() string {
	return "git"
}

// Publish stages the files, commits them, rebases onto the remote branch and
// pushes. The commit precedes the pull so the rebase never sees unstaged
// changes. Every exit status is checked; the first failure stops the sequence.
func (g *Git) Publish(ctx context.Context, a Artifacts) error {
	if g.RepoPath == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "git repository path is required")
	}
	if len(a.Files) == 0 {
		return errors.New(errors.ErrCodeInvalidRequest, "no files to commit")
	}

	files, err := g.relativeFiles(a.Files)
	if err != nil {
		return err
	}

	addArgs := append([]string{"add", "--"}, files...)
	if _, err := g.run(ctx, addArgs...); err != nil {
		return err
	}

	out, err := g.run(ctx, "commit", "-m", CommitMessagePrefix+a.Timestamp)
	if err != nil {
		if !strings.Contains(out, "nothing to commit") {
			return err
		}
		// An earlier push may still be pending, so carry on.
		slog.Warn("git commit skipped, working tree clean", "timestamp", a.Timestamp)
	}

	if _, err := g.run(ctx, "pull", "--rebase", "--autostash", g.Remote, g.Branch); err != nil {
		return err
	}

	if _, err := g.run(ctx, "push", g.Remote, g.Branch); err != nil {
		return err
	}

	slog.Debug("git publish complete",
		"repo", g.RepoPath,
		"remote", g.Remote,
		"branch", g.Branch,
		"files", files)
	return nil
}

// relativeFiles expresses files relative to the repository root and rejects
// any that fall outside it. Relative inputs are resolved against the working
// directory, the same way they were written.
func (g *Git) relativeFiles(files []string) ([]string, error) {
	root, err := filepath.Abs(g.RepoPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid repository path", err)
	}

	out := make([]string, 0, len(files))
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid file path", err)
		}
		rel, err := filepath.Rel(root, abs)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
				"file is outside the repository", map[string]any{"file": f, "repo": root})
		}
		out = append(out, filepath.ToSlash(rel))
	}
	return out, nil
}

// run executes one git command in the repository and returns its combined output.
func (g *Git) run(ctx context.Context, args ...string) (string, error) {
	timeout := g.Timeout
	if timeout <= 0 {
		timeout = defaults.GitCommandTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	runner := g.Exec
	if runner == nil {
		runner = exec.New()
	}
	bin := g.Binary
	if bin == "" {
		bin = "git"
	}

	cmd := runner.CommandContext(ctx, bin, args...)
	cmd.SetDir(g.RepoPath)

	slog.Debug("running git", "args", args, "dir", g.RepoPath)
	raw, err := cmd.CombinedOutput()
	out := string(raw)
	if err == nil {
		return out, nil
	}

	errCtx := map[string]any{
		"command": "git " + args[0],
		"output":  truncate(out, maxOutputInError),
	}
	var exitErr exec.ExitError
	if stderrors.As(err, &exitErr) {
		errCtx["exit_status"] = exitErr.ExitStatus()
	}
	if ctx.Err() != nil {
		errCtx["timeout"] = timeout.String()
	}

	return out, errors.WrapWithContext(errors.ErrCodePublish,
		fmt.Sprintf("git %s failed: %s", args[0], strings.TrimSpace(truncate(out, 512))), err, errCtx)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

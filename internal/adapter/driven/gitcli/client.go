// Package gitcli implements the GitClient port by running the git binary.
package gitcli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/ericfisherdev/blogpages/internal/domain/model"
	"github.com/ericfisherdev/blogpages/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.GitClient = (*Client)(nil)

const (
	usernameEnv = "BLOGPAGES_GIT_USERNAME"
	secretEnv   = "BLOGPAGES_GIT_SECRET"

	// defaultUsername is sent when the caller supplies only a token. GitHub,
	// Gitea and GitLab accept any non-empty user name alongside a token.
	defaultUsername = "x-access-token"
)

// credentialHelper answers git's "get" request from the environment of the
// current command only, so secrets never touch disk or the repo config.
const credentialHelper = `!f() { test "$1" = get || exit 0; echo "username=${` + usernameEnv + `}"; echo "password=${` + secretEnv + `}"; }; f`

// Client runs git commands against working copies on local disk.
type Client struct {
	GitPath string
}

// NewClient creates a Client. An empty gitPath resolves git from PATH.
func NewClient(gitPath string) (*Client, error) {
	if gitPath == "" {
		p, err := exec.LookPath("git")
		if err != nil {
			return nil, fmt.Errorf("locate git binary: %w", err)
		}
		gitPath = p
	}
	return &Client{GitPath: gitPath}, nil
}

// run executes git in dir and returns trimmed stdout.
func (c *Client) run(ctx context.Context, dir string, extraEnv []string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, c.GitPath, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_TERMINAL_PROMPT=0",
		"LC_ALL=C",
	)
	cmd.Env = append(cmd.Env, extraEnv...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", newGitError(args, stderr.String(), err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// runAuthenticated executes git with the one-shot credential helper
// installed for this invocation only.
func (c *Client) runAuthenticated(ctx context.Context, dir string, creds model.Credentials, args ...string) (string, error) {
	username := creds.Username
	if username == "" {
		username = defaultUsername
	}

	preArgs := []string{
		"-c", "credential.helper=",
		"-c", "credential.helper=" + credentialHelper,
	}
	env := []string{
		usernameEnv + "=" + username,
		secretEnv + "=" + creds.Secret,
	}
	return c.run(ctx, dir, env, append(preArgs, args...)...)
}

// LsRemoteHeads lists branch names on remote, sorted.
func (c *Client) LsRemoteHeads(ctx context.Context, dir, remote string) ([]string, error) {
	out, err := c.run(ctx, dir, nil, "ls-remote", "--heads", remote)
	if err != nil {
		return nil, classifyRemote(ctx, err)
	}

	var branches []string
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		if name, ok := strings.CutPrefix(fields[1], "refs/heads/"); ok {
			branches = append(branches, name)
		}
	}
	sort.Strings(branches)
	return branches, nil
}

// Clone clones url into dir.
func (c *Client) Clone(ctx context.Context, url, dir string) error {
	if _, err := c.run(ctx, "", nil, "clone", "--origin", "origin", url, dir); err != nil {
		return classifyRemote(ctx, err)
	}
	return nil
}

// Init creates an empty repository at dir with origin pointing at url.
func (c *Client) Init(ctx context.Context, url, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create working copy %s: %w", dir, err)
	}
	if _, err := c.run(ctx, dir, nil, "init"); err != nil {
		return err
	}
	if _, err := c.run(ctx, dir, nil, "remote", "add", "origin", url); err != nil {
		return err
	}
	return nil
}

// SetAuthor configures the commit identity for the working copy.
func (c *Client) SetAuthor(ctx context.Context, dir, name, email string) error {
	if _, err := c.run(ctx, dir, nil, "config", "user.name", name); err != nil {
		return err
	}
	if _, err := c.run(ctx, dir, nil, "config", "user.email", email); err != nil {
		return err
	}
	return nil
}

// CurrentBranch returns the branch HEAD points at, which may be unborn.
func (c *Client) CurrentBranch(ctx context.Context, dir string) (string, error) {
	return c.run(ctx, dir, nil, "symbolic-ref", "--short", "HEAD")
}

// LocalBranchExists reports whether refs/heads/<branch> exists.
func (c *Client) LocalBranchExists(ctx context.Context, dir, branch string) (bool, error) {
	_, err := c.run(ctx, dir, nil, "show-ref", "--verify", "--quiet", "refs/heads/"+branch)
	if err == nil {
		return true, nil
	}

	var gitErr *GitError
	if errors.As(err, &gitErr) && gitErr.ExitCode == 1 {
		return false, nil
	}
	return false, err
}

// Checkout switches to branch, creating it from origin/<branch> when track
// is true.
func (c *Client) Checkout(ctx context.Context, dir, branch string, track bool) error {
	args := []string{"checkout", branch}
	if track {
		args = []string{"checkout", "-B", branch, "--track", "origin/" + branch}
	}
	_, err := c.run(ctx, dir, nil, args...)
	return err
}

// Fetch updates origin/<branch> from the remote.
func (c *Client) Fetch(ctx context.Context, dir, branch string) error {
	refspec := fmt.Sprintf("+refs/heads/%s:refs/remotes/origin/%s", branch, branch)
	if _, err := c.run(ctx, dir, nil, "fetch", "--no-tags", "origin", refspec); err != nil {
		return classifyRemote(ctx, err)
	}
	return nil
}

// FastForward merges origin/<branch> without ever creating a merge commit.
func (c *Client) FastForward(ctx context.Context, dir, branch string) error {
	_, err := c.run(ctx, dir, nil, "merge", "--ff-only", "origin/"+branch)
	if err == nil {
		return nil
	}
	if containsAny(err, conflictMessages...) {
		return fmt.Errorf("%w: %w", driven.ErrMergeConflict, err)
	}
	return err
}

// StageAll stages every added, modified and deleted file.
func (c *Client) StageAll(ctx context.Context, dir string) error {
	_, err := c.run(ctx, dir, nil, "add", "--all")
	return err
}

// HasStagedChanges reports whether the index differs from HEAD.
func (c *Client) HasStagedChanges(ctx context.Context, dir string) (bool, error) {
	_, err := c.run(ctx, dir, nil, "diff", "--cached", "--quiet")
	if err == nil {
		return false, nil
	}

	var gitErr *GitError
	if errors.As(err, &gitErr) && gitErr.ExitCode == 1 {
		return true, nil
	}
	return false, err
}

// Commit records the staged changes and returns the new commit ID.
func (c *Client) Commit(ctx context.Context, dir, message string) (string, error) {
	if _, err := c.run(ctx, dir, nil, "commit", "--quiet", "-m", message); err != nil {
		return "", err
	}
	return c.run(ctx, dir, nil, "rev-parse", "HEAD")
}

// Push sends HEAD to refs/heads/<branch> on origin.
func (c *Client) Push(ctx context.Context, dir, branch string, creds model.Credentials) error {
	_, err := c.runAuthenticated(ctx, dir, creds, "push", "--porcelain", "origin", "HEAD:refs/heads/"+branch)
	return classifyRemote(ctx, err)
}

package gitcli

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/ericfisherdev/blogpages/internal/domain/port/driven"
)

// GitError is returned when a git command exits unsuccessfully. Stderr holds
// the combined output of the command.
type GitError struct {
	Args     []string
	ExitCode int
	Stderr   string
	err      error
}

func (e *GitError) Error() string {
	verb := "git"
	if len(e.Args) > 0 {
		verb = "git " + e.Args[0]
	}
	if e.Stderr == "" {
		return fmt.Sprintf("%s failed: %v", verb, e.err)
	}
	return fmt.Sprintf("%s failed: %s", verb, strings.TrimSpace(e.Stderr))
}

func (e *GitError) Unwrap() error {
	return e.err
}

func newGitError(args []string, stderr string, err error) *GitError {
	exitCode := -1

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}

	return &GitError{
		Args:     publicArgs(args),
		ExitCode: exitCode,
		Stderr:   stderr,
		err:      err,
	}
}

// publicArgs drops leading -c overrides so credential helper scripts never
// end up in error messages or logs.
func publicArgs(args []string) []string {
	for len(args) >= 2 && args[0] == "-c" {
		args = args[2:]
	}
	return args
}

// Messages git prints for the failure modes callers need to tell apart.
var (
	authMessages = []string{
		"authentication failed",
		"could not read username",
		"could not read password",
		"permission denied",
		"invalid username or password",
		"the requested url returned error: 401",
		"the requested url returned error: 403",
	}
	networkMessages = []string{
		"could not resolve host",
		"failed to connect",
		"connection refused",
		"connection timed out",
		"operation timed out",
		"network is unreachable",
		"unable to access",
		"early eof",
		"the remote end hung up",
	}
	conflictMessages = []string{
		"not possible to fast-forward",
		"diverging branches",
		"would be overwritten",
		"conflict",
	}
)

// classifyRemote maps a failed network command to the driven sentinels.
// A context deadline always counts as the network being unavailable.
func classifyRemote(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", driven.ErrNetworkUnavailable, err)
	}
	switch {
	case containsAny(err, authMessages...):
		return fmt.Errorf("%w: %w", driven.ErrAuthenticationFailed, err)
	case containsAny(err, networkMessages...):
		return fmt.Errorf("%w: %w", driven.ErrNetworkUnavailable, err)
	}
	return err
}

func containsAny(err error, msgs ...string) bool {
	if err == nil {
		return false
	}

	text := err.Error()
	var gitErr *GitError
	if errors.As(err, &gitErr) {
		text = gitErr.Stderr
	}
	text = strings.ToLower(text)

	for _, msg := range msgs {
		if strings.Contains(text, msg) {
			return true
		}
	}
	return false
}

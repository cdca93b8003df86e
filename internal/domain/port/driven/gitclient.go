package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/blogpages/internal/domain/model"
)

// Sentinel errors returned by GitClient implementations. Adapters wrap them
// so callers can match with errors.Is.
var (
	// ErrMergeConflict indicates the local branch cannot be fast-forwarded.
	ErrMergeConflict = errors.New("fast-forward not possible")

	// ErrAuthenticationFailed indicates the remote rejected the credentials.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrNetworkUnavailable indicates the remote could not be reached in time.
	ErrNetworkUnavailable = errors.New("network unavailable")
)

// GitClient defines the driven port for operating on a local working copy.
// dir is always the working copy root. Methods that talk to the remote are
// expected to honour ctx deadlines.
type GitClient interface {
	// LsRemoteHeads lists branch names on remote, which may be a URL or a
	// remote name when dir is a working copy.
	LsRemoteHeads(ctx context.Context, dir, remote string) ([]string, error)
	Clone(ctx context.Context, url, dir string) error
	// Init creates an empty repository at dir with origin pointing at url.
	Init(ctx context.Context, url, dir string) error
	SetAuthor(ctx context.Context, dir, name, email string) error

	CurrentBranch(ctx context.Context, dir string) (string, error)
	LocalBranchExists(ctx context.Context, dir, branch string) (bool, error)
	// Checkout switches to branch. When track is true a local branch is
	// created from origin/<branch>.
	Checkout(ctx context.Context, dir, branch string, track bool) error

	Fetch(ctx context.Context, dir, branch string) error
	// FastForward merges origin/<branch> into the current branch, failing
	// with ErrMergeConflict when a fast-forward is impossible.
	FastForward(ctx context.Context, dir, branch string) error

	StageAll(ctx context.Context, dir string) error
	HasStagedChanges(ctx context.Context, dir string) (bool, error)
	// Commit records staged changes and returns the new commit ID.
	Commit(ctx context.Context, dir, message string) (string, error)
	Push(ctx context.Context, dir, branch string, creds model.Credentials) error
}

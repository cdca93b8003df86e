package application_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/ericfisherdev/blogpages/internal/domain/model"
	"github.com/ericfisherdev/blogpages/internal/domain/port/driven"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- mockPostStore ---

type mockPostStore struct {
	posts []model.Post
	err   error
}

func (m *mockPostStore) ListAll(_ context.Context) ([]model.Post, error) {
	if m.err != nil {
		return nil, m.err
	}
	return slices.Clone(m.posts), nil
}

func (m *mockPostStore) ListSince(_ context.Context, epoch int64) ([]model.Post, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []model.Post
	for _, p := range m.posts {
		if p.TouchedSince(epoch) {
			out = append(out, p)
		}
	}
	return out, nil
}

// --- mockConfigStore ---

type mockConfigStore struct {
	mu     sync.Mutex
	cfg    *model.RepositoryConfig
	puts   int
	getErr error
	putErr error
}

func (m *mockConfigStore) Get(_ context.Context) (*model.RepositoryConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.cfg == nil {
		return nil, nil
	}
	cfg := *m.cfg
	return &cfg, nil
}

func (m *mockConfigStore) Put(_ context.Context, cfg model.RepositoryConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.puts++
	m.cfg = &cfg
	return nil
}

func (m *mockConfigStore) Delete(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = nil
	return nil
}

func (m *mockConfigStore) current() *model.RepositoryConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cfg == nil {
		return nil
	}
	cfg := *m.cfg
	return &cfg
}

// --- fakeGit ---

type fakeCommit struct {
	message string
	files   []string
}

// fakeGit simulates one remote and one working copy. Staging compares the
// files on disk with the last committed snapshot.
type fakeGit struct {
	mu sync.Mutex

	remoteBranches []string
	lsErr          error
	cloneErr       error
	fetchErr       error
	ffErr          error
	pushErr        error
	// pushGate, when set, blocks Push until it is closed or ctx is done.
	pushGate chan struct{}
	// pushStarted is closed when Push begins, if set.
	pushStarted chan struct{}

	cloned    bool
	inited    bool
	author    string
	current   string
	local     map[string]bool
	committed map[string]string
	index     map[string]string
	staged    []string
	commits   []fakeCommit
	pushes    int
	fetches   int
}

func newFakeGit(branches ...string) *fakeGit {
	return &fakeGit{
		remoteBranches: branches,
		local:          map[string]bool{},
		committed:      map[string]string{},
	}
}

var _ driven.GitClient = (*fakeGit)(nil)

func (g *fakeGit) LsRemoteHeads(_ context.Context, _, _ string) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.lsErr != nil {
		return nil, g.lsErr
	}
	return slices.Clone(g.remoteBranches), nil
}

func (g *fakeGit) Clone(_ context.Context, _, dir string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cloneErr != nil {
		return g.cloneErr
	}
	if err := os.MkdirAll(filepath.Join(dir, ".git"), 0o755); err != nil {
		return err
	}
	g.cloned = true
	if len(g.remoteBranches) > 0 {
		g.current = g.remoteBranches[0]
		g.local[g.current] = true
	}
	return nil
}

func (g *fakeGit) Init(_ context.Context, _, dir string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.inited = true
	g.current = "master"
	return os.MkdirAll(filepath.Join(dir, ".git"), 0o755)
}

func (g *fakeGit) SetAuthor(_ context.Context, _, name, email string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.author = name + " <" + email + ">"
	return nil
}

func (g *fakeGit) CurrentBranch(_ context.Context, _ string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current, nil
}

func (g *fakeGit) LocalBranchExists(_ context.Context, _, branch string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.local[branch], nil
}

func (g *fakeGit) Checkout(_ context.Context, _, branch string, track bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if track {
		g.local[branch] = true
	}
	if !g.local[branch] {
		return fmt.Errorf("pathspec %q did not match", branch)
	}
	g.current = branch
	return nil
}

func (g *fakeGit) Fetch(_ context.Context, _, _ string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fetches++
	return g.fetchErr
}

func (g *fakeGit) FastForward(_ context.Context, _, _ string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ffErr
}

func (g *fakeGit) StageAll(_ context.Context, dir string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.staged = nil
	g.index = map[string]string{}
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(dir, path)
		if g.committed[rel] != string(data) {
			g.index[rel] = string(data)
			g.staged = append(g.staged, rel)
		}
		return nil
	})
}

func (g *fakeGit) HasStagedChanges(_ context.Context, _ string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.staged) > 0, nil
}

func (g *fakeGit) Commit(_ context.Context, _, message string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, f := range g.staged {
		g.committed[f] = g.index[f]
	}
	g.commits = append(g.commits, fakeCommit{message: message, files: g.staged})
	g.staged = nil
	return fmt.Sprintf("%040d", len(g.commits)), nil
}

func (g *fakeGit) Push(ctx context.Context, _, _ string, _ model.Credentials) error {
	g.mu.Lock()
	gate, started := g.pushGate, g.pushStarted
	g.mu.Unlock()

	if started != nil {
		close(started)
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pushErr != nil {
		return g.pushErr
	}
	g.pushes++
	return nil
}

func (g *fakeGit) lastCommit() fakeCommit {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.commits) == 0 {
		return fakeCommit{}
	}
	return g.commits[len(g.commits)-1]
}

func (g *fakeGit) set(fn func(g *fakeGit)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(g)
}

// listFiles returns file names under dir, excluding .git.
func listFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			names = append(names, e.Name())
		}
	}
	return names
}

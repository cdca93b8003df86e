package model

import "path/filepath"

// RepositoryConfigKey is the settings item under which the single
// RepositoryConfig record is stored.
const RepositoryConfigKey = "git_repository"

// RepositoryState is the lifecycle state of the one configured repository.
type RepositoryState string

const (
	RepositoryAbsent         RepositoryState = "absent"
	RepositoryInitialized    RepositoryState = "initialized"
	RepositoryBranchSelected RepositoryState = "branch_selected"
)

// RepositoryConfig describes how the server talks to its one remote
// repository. At most one exists per process; it is owned by the
// RepositoryConfigStore and re-read on every operation.
type RepositoryConfig struct {
	RemoteURL       string `json:"remote_url"`
	RepositoryName  string `json:"repository_name"`
	AuthorName      string `json:"name"`
	AuthorEmail     string `json:"email"`
	ActiveBranch    string `json:"branch_name,omitempty"` // Empty means not yet chosen.
	LastExportEpoch int64  `json:"last_export_second"`    // 0 means never exported.
}

// StateOf returns the lifecycle state for a possibly-nil config.
func StateOf(cfg *RepositoryConfig) RepositoryState {
	switch {
	case cfg == nil:
		return RepositoryAbsent
	case cfg.ActiveBranch == "":
		return RepositoryInitialized
	default:
		return RepositoryBranchSelected
	}
}

// WorkingCopyPath returns the local checkout directory for cfg under
// workspaceDir.
func (c RepositoryConfig) WorkingCopyPath(workspaceDir string) string {
	return filepath.Join(workspaceDir, c.RepositoryName)
}

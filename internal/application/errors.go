package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/ericfisherdev/blogpages/internal/domain/port/driven"
)

// Sentinel errors for the repository lifecycle and sync workflow.
var (
	ErrRepositoryAlreadyExists = errors.New("a repository is already configured")
	ErrRepositoryNotConfigured = errors.New("no repository is configured")
	ErrBranchNotFound          = errors.New("branch not found on remote")
	ErrNoBranchSelected        = errors.New("no branch selected")
	ErrWorkingCopyMissing      = errors.New("working copy is missing")
	ErrSyncInProgress          = errors.New("sync already in progress")
	ErrArchiveNotFound         = errors.New("archive not found")

	// ErrStorage marks failures reading or writing the config and post stores.
	ErrStorage = errors.New("storage unavailable")
	// ErrExportIO marks filesystem failures while writing exported files.
	ErrExportIO = errors.New("export write failed")
)

// ErrorKind groups failures by what the user can do about them.
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"     // fix your input
	KindNotConfigured ErrorKind = "not_configured" // set a repository up first
	KindBusy          ErrorKind = "busy"           // try again shortly
	KindGit           ErrorKind = "git"            // local working copy needs repair
	KindNetwork       ErrorKind = "network"        // retry the whole push
	KindStorage       ErrorKind = "storage"        // contact the operator
	KindIO            ErrorKind = "io"             // contact the operator
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// OpError is the structured outcome returned by PublishService and the
// archive export. Message is short and safe to show to users; Err keeps the
// underlying cause for logs.
type OpError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *OpError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// Classify converts any error from this package into an *OpError. Nil stays
// nil and an existing *OpError is returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var opErr *OpError
	if errors.As(err, &opErr) {
		return opErr
	}

	var valErr *ValidationError
	switch {
	case errors.As(err, &valErr):
		return &OpError{Kind: KindValidation, Message: valErr.Error(), Err: err}
	case errors.Is(err, ErrRepositoryAlreadyExists):
		return &OpError{Kind: KindValidation, Message: "a repository is already configured; remove it first", Err: err}
	case errors.Is(err, ErrBranchNotFound):
		return &OpError{Kind: KindValidation, Message: "the remote has no such branch", Err: err}
	case errors.Is(err, ErrRepositoryNotConfigured):
		return &OpError{Kind: KindNotConfigured, Message: "no repository is configured", Err: err}
	case errors.Is(err, ErrNoBranchSelected):
		return &OpError{Kind: KindNotConfigured, Message: "select a branch before pushing", Err: err}
	case errors.Is(err, ErrSyncInProgress):
		return &OpError{Kind: KindBusy, Message: "a sync is already in progress, try again shortly", Err: err}
	case errors.Is(err, driven.ErrAuthenticationFailed):
		return &OpError{Kind: KindNetwork, Message: "the remote rejected the credentials", Err: err}
	case errors.Is(err, driven.ErrNetworkUnavailable):
		return &OpError{Kind: KindNetwork, Message: "the remote could not be reached, try again", Err: err}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &OpError{Kind: KindBusy, Message: "the operation was cancelled, try again", Err: err}
	case errors.Is(err, driven.ErrMergeConflict):
		return &OpError{Kind: KindGit, Message: "the working copy has diverged from the remote; remove and re-create the repository", Err: err}
	case errors.Is(err, ErrWorkingCopyMissing):
		return &OpError{Kind: KindGit, Message: "the working copy is missing; remove and re-create the repository", Err: err}
	case errors.Is(err, ErrStorage):
		return &OpError{Kind: KindStorage, Message: "storage is unavailable, contact the operator", Err: err}
	case errors.Is(err, ErrExportIO):
		return &OpError{Kind: KindIO, Message: "exported files could not be written, contact the operator", Err: err}
	default:
		return &OpError{Kind: KindGit, Message: "git operation failed", Err: err}
	}
}

// storageErr tags err as a store failure.
func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}

package httphandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/ericfisherdev/blogpages/internal/application"
	"github.com/ericfisherdev/blogpages/internal/domain/model"
)

// Publisher is the repository operation surface the handler drives.
// Errors are *application.OpError.
type Publisher interface {
	Create(ctx context.Context, remoteURL, authorName, authorEmail string) error
	Info(ctx context.Context) (model.RepositoryConfig, error)
	ListBranches(ctx context.Context) ([]string, error)
	SelectBranch(ctx context.Context, name string) error
	Push(ctx context.Context, creds model.Credentials) (application.SyncResult, error)
	Remove(ctx context.Context) error
}

// Archiver builds and serves downloadable archives of every post.
type Archiver interface {
	ExportAllAsArchive(ctx context.Context) (string, error)
	Open(name string) (*os.File, error)
}

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	publisher Publisher
	archiver  Archiver
	logger    *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(publisher Publisher, archiver Archiver, logger *slog.Logger) *Handler {
	return &Handler{
		publisher: publisher,
		archiver:  archiver,
		logger:    logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with logging, body limit and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/health", h.Health)
	mux.HandleFunc("GET /api/v1/git-pages", h.GetRepository)
	mux.HandleFunc("POST /api/v1/git-pages", h.CreateRepository)
	mux.HandleFunc("DELETE /api/v1/git-pages", h.RemoveRepository)
	mux.HandleFunc("GET /api/v1/git-pages/branches", h.ListBranches)
	mux.HandleFunc("POST /api/v1/git-pages/branch", h.SelectBranch)
	mux.HandleFunc("POST /api/v1/git-pages/push", h.Push)
	mux.HandleFunc("POST /api/v1/export/archive", h.ExportArchive)
	mux.HandleFunc("GET /api/v1/export/archive/{name}", h.DownloadArchive)

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = limitBodyMiddleware(wrapped)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// GetRepository returns the configured repository.
func (h *Handler) GetRepository(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.publisher.Info(r.Context())
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRepositoryResponse(cfg))
}

// CreateRepository sets up the one repository.
func (h *Handler) CreateRepository(w http.ResponseWriter, r *http.Request) {
	var req CreateRepositoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.publisher.Create(r.Context(), req.URL, req.User, req.Email); err != nil {
		writeOpError(w, err)
		return
	}

	cfg, err := h.publisher.Info(r.Context())
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRepositoryResponse(cfg))
}

// RemoveRepository deletes the working copy and its config.
func (h *Handler) RemoveRepository(w http.ResponseWriter, r *http.Request) {
	if err := h.publisher.Remove(r.Context()); err != nil {
		writeOpError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListBranches returns the branches on the remote.
func (h *Handler) ListBranches(w http.ResponseWriter, r *http.Request) {
	branches, err := h.publisher.ListBranches(r.Context())
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, BranchesResponse{Branches: branches})
}

// SelectBranch switches the working copy to the requested branch.
func (h *Handler) SelectBranch(w http.ResponseWriter, r *http.Request) {
	var req SelectBranchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.publisher.SelectBranch(r.Context(), req.Branch); err != nil {
		writeOpError(w, err)
		return
	}

	cfg, err := h.publisher.Info(r.Context())
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRepositoryResponse(cfg))
}

// Push exports changed posts and pushes them to the remote.
func (h *Handler) Push(w http.ResponseWriter, r *http.Request) {
	var req PushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// A client hanging up must not abort a push half way; network calls
	// carry their own deadlines.
	ctx := context.WithoutCancel(r.Context())
	result, err := h.publisher.Push(ctx, model.Credentials{
		Username: req.Username,
		Secret:   req.Credential,
	})
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPushResponse(result))
}

// ExportArchive writes every post into a new zip archive.
func (h *Handler) ExportArchive(w http.ResponseWriter, r *http.Request) {
	name, err := h.archiver.ExportAllAsArchive(r.Context())
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ArchiveResponse{FileName: name})
}

// DownloadArchive streams a previously exported archive.
func (h *Handler) DownloadArchive(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	f, err := h.archiver.Open(name)
	if errors.Is(err, application.ErrArchiveNotFound) {
		writeError(w, http.StatusNotFound, "archive not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to open archive", "name", name, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		h.logger.Error("failed to stat archive", "name", name, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	http.ServeContent(w, r, name, info.ModTime(), f)
}

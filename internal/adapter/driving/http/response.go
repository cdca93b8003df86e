package httphandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ericfisherdev/blogpages/internal/application"
	"github.com/ericfisherdev/blogpages/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeOpError maps an application outcome to a status code. The services
// have already logged the underlying cause.
func writeOpError(w http.ResponseWriter, err error) {
	var opErr *application.OpError
	if !errors.As(err, &opErr) {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, statusForKind(opErr.Kind), errorResponse{Error: opErr.Message, Kind: string(opErr.Kind)})
}

func statusForKind(kind application.ErrorKind) int {
	switch kind {
	case application.KindValidation:
		return http.StatusBadRequest
	case application.KindNotConfigured:
		return http.StatusNotFound
	case application.KindBusy:
		return http.StatusConflict
	case application.KindNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// CreateRepositoryRequest is the JSON body for the create repository endpoint.
type CreateRepositoryRequest struct {
	URL   string `json:"url"`
	User  string `json:"user"`
	Email string `json:"email"`
}

// SelectBranchRequest is the JSON body for the select branch endpoint.
type SelectBranchRequest struct {
	Branch string `json:"branch"`
}

// PushRequest is the JSON body for the push endpoint. The credential is used
// for this push only.
type PushRequest struct {
	Username   string `json:"username"`
	Credential string `json:"repo_credential"`
}

// RepositoryResponse is the JSON representation of the configured repository.
type RepositoryResponse struct {
	RemoteURL       string `json:"remote_url"`
	RepositoryName  string `json:"repository_name"`
	AuthorName      string `json:"name"`
	AuthorEmail     string `json:"email"`
	Branch          string `json:"branch,omitempty"`
	State           string `json:"state"`
	LastExportEpoch int64  `json:"last_export_epoch"`
}

// BranchesResponse lists the branches on the remote.
type BranchesResponse struct {
	Branches []string `json:"branches"`
}

// PushResponse is the JSON representation of a successful push.
type PushResponse struct {
	Exported        int    `json:"exported"`
	CommitID        string `json:"commit_id,omitempty"`
	LastExportEpoch int64  `json:"last_export_epoch"`
}

// ArchiveResponse names a newly written archive.
type ArchiveResponse struct {
	FileName string `json:"file_name"`
}

func toRepositoryResponse(cfg model.RepositoryConfig) RepositoryResponse {
	return RepositoryResponse{
		RemoteURL:       cfg.RemoteURL,
		RepositoryName:  cfg.RepositoryName,
		AuthorName:      cfg.AuthorName,
		AuthorEmail:     cfg.AuthorEmail,
		Branch:          cfg.ActiveBranch,
		State:           string(model.StateOf(&cfg)),
		LastExportEpoch: cfg.LastExportEpoch,
	}
}

func toPushResponse(r application.SyncResult) PushResponse {
	resp := PushResponse{
		Exported:        r.Exported,
		LastExportEpoch: r.Epoch,
	}
	if r.CommitID != nil {
		resp.CommitID = *r.CommitID
	}
	return resp
}

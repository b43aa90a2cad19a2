// internal/api/handler.go
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"archgen/internal/auth"
	"archgen/internal/database"
	custom_errors "archgen/internal/errors"
	"archgen/internal/model"
)

const maxJSONBody = 1 << 20

type repoRequest struct {
	GithubRepoID int64 `json:"github_repo_id"`
}

type explainNodeRequest struct {
	GithubRepoID int64  `json:"github_repo_id"`
	NodeLabel    string `json:"node_label"`
}

type syncRequest struct {
	GithubAccessToken string `json:"github_access_token"`
	UserID            string `json:"user_id"`
}

type installationRequest struct {
	InstallationID int64  `json:"installation_id"`
	AccountLogin   string `json:"account_login"`
}

type diagramResponse struct {
	Success     bool   `json:"success"`
	DiagramCode string `json:"diagram_code"`
	RepoName    string `json:"repo_name"`
}

type documentationResponse struct {
	Documentation string `json:"documentation"`
}

type syncResponse struct {
	Success      bool `json:"success"`
	SyncedCount  int  `json:"synced_count"`
	TotalFetched int  `json:"total_fetched"`
}

type installationResponse struct {
	Success        bool  `json:"success"`
	InstallationID int64 `json:"installation_id"`
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// callerID returns the authenticated user id, or nil for anonymous requests.
func callerID(r *http.Request) *uuid.UUID {
	if id, ok := auth.UserIDFromContext(r.Context()); ok {
		return &id
	}
	return nil
}

// generateDiagram builds a fresh diagram for a stored repository.
// POST /v1/diagrams/generate
func (h *Handler) generateDiagram(w http.ResponseWriter, r *http.Request) {
	var req repoRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := h.gen.GenerateDiagram(r.Context(), callerID(r), req.GithubRepoID)
	if err != nil {
		respondWithAppError(w, h.logger.With("github_repo_id", req.GithubRepoID), err)
		return
	}
	respondWithJSON(w, http.StatusOK, diagramResponse{Success: true, DiagramCode: res.DiagramCode, RepoName: res.RepoName})
}

// generateDocumentation writes markdown documentation for a stored repository.
// POST /v1/documentation/generate
func (h *Handler) generateDocumentation(w http.ResponseWriter, r *http.Request) {
	var req repoRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	doc, err := h.gen.GenerateDocumentation(r.Context(), callerID(r), req.GithubRepoID)
	if err != nil {
		respondWithAppError(w, h.logger.With("github_repo_id", req.GithubRepoID), err)
		return
	}
	respondWithJSON(w, http.StatusOK, documentationResponse{Documentation: doc})
}

// explainNode describes a single diagram node.
// POST /v1/diagrams/explain-node
func (h *Handler) explainNode(w http.ResponseWriter, r *http.Request) {
	var req explainNodeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	out, err := h.gen.ExplainNode(r.Context(), req.GithubRepoID, req.NodeLabel)
	if err != nil {
		respondWithAppError(w, h.logger.With("github_repo_id", req.GithubRepoID), err)
		return
	}
	respondWithJSON(w, http.StatusOK, out)
}

// syncRepositories imports the repositories visible to a GitHub OAuth token.
// POST /v1/repositories/sync
func (h *Handler) syncRepositories(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.GithubAccessToken == "" || req.UserID == "" {
		respondWithError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "user_id must be a UUID")
		return
	}

	res, err := h.syncer.SyncUserRepositories(r.Context(), req.GithubAccessToken, userID)
	if err != nil {
		var appErr *custom_errors.AppError
		if errors.As(err, &appErr) && errors.Is(err, custom_errors.ErrUpstream) &&
			appErr.StatusCode >= 400 && appErr.StatusCode < 600 {
			h.logger.Error("GitHub repository listing failed", "user_id", userID, "status", appErr.StatusCode, "error", err)
			respondWithError(w, appErr.StatusCode, appErr.Message)
			return
		}
		respondWithAppError(w, h.logger.With("user_id", userID), err)
		return
	}
	respondWithJSON(w, http.StatusOK, syncResponse{Success: true, SyncedCount: res.SyncedCount, TotalFetched: res.TotalFetched})
}

// listRepositories returns the caller's repositories, most recently updated first.
// GET /v1/repositories
func (h *Handler) listRepositories(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	rows, err := h.db.ListRepositoriesByUser(r.Context(), database.UUID(userID))
	if err != nil {
		h.logger.Error("Failed to list repositories", "user_id", userID, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	repos := make([]*model.Repository, 0, len(rows))
	for _, row := range rows {
		repo, err := row.ToModel()
		if err != nil {
			h.logger.Error("Skipping repository with unreadable tree", "github_repo_id", row.GithubRepoID, "error", err)
			continue
		}
		repo.FileTree = nil
		repos = append(repos, repo)
	}
	respondWithJSON(w, http.StatusOK, repos)
}

// getRepository returns one repository with its tree and generated artifacts.
// GET /v1/repositories/{github_repo_id}
func (h *Handler) getRepository(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "github_repo_id"), 10, 64)
	if err != nil || id <= 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid 'github_repo_id' parameter.")
		return
	}

	row, err := h.db.GetRepositoryByGithubID(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondWithError(w, http.StatusNotFound, "Repository not found")
			return
		}
		h.logger.Error("Failed to get repository", "github_repo_id", id, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	repo, err := row.ToModel()
	if err != nil {
		h.logger.Error("Failed to decode repository", "github_repo_id", id, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondWithJSON(w, http.StatusOK, repo)
}

// linkInstallation attaches a GitHub App installation to the caller after the
// install redirect.
// POST /v1/installations
func (h *Handler) linkInstallation(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req installationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	inst, err := h.syncer.LinkInstallation(r.Context(), req.InstallationID, req.AccountLogin, userID)
	if err != nil {
		respondWithAppError(w, h.logger.With("installation_id", req.InstallationID), err)
		return
	}
	respondWithJSON(w, http.StatusOK, installationResponse{Success: true, InstallationID: inst.GithubInstallationID})
}

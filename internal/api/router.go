// Package api exposes the webhook receiver and the dashboard endpoints over HTTP.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"archgen/internal/auth"
	"archgen/internal/database"
	"archgen/internal/generation"
	"archgen/internal/model"
	"archgen/internal/syncer"
	"archgen/internal/webhook"
)

// Generator is the LLM-backed generation service.
type Generator interface {
	GenerateDiagram(ctx context.Context, userID *uuid.UUID, githubRepoID int64) (*generation.DiagramResult, error)
	GenerateDocumentation(ctx context.Context, userID *uuid.UUID, githubRepoID int64) (string, error)
	ExplainNode(ctx context.Context, githubRepoID int64, nodeLabel string) (*model.NodeExplanation, error)
}

// RepoSyncer imports repositories and installations on behalf of users.
type RepoSyncer interface {
	SyncUserRepositories(ctx context.Context, accessToken string, userID uuid.UUID) (*syncer.SyncResult, error)
	LinkInstallation(ctx context.Context, installationID int64, accountLogin string, userID uuid.UUID) (*model.Installation, error)
}

// WebhookHandler verifies and dispatches GitHub deliveries.
type WebhookHandler interface {
	Handle(ctx context.Context, d webhook.Delivery) (*webhook.Result, error)
}

// Deps are the collaborators behind the HTTP surface.
type Deps struct {
	DB             database.Querier
	Generator      Generator
	Syncer         RepoSyncer
	Webhooks       WebhookHandler
	Tokens         *auth.TokenService
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// Handler is the container for API dependencies.
type Handler struct {
	db       database.Querier
	gen      Generator
	syncer   RepoSyncer
	webhooks WebhookHandler
	logger   *slog.Logger
}

// NewRouter creates and configures a new chi router with all API routes.
func NewRouter(d Deps) http.Handler {
	h := &Handler{
		db:       d.DB,
		gen:      d.Generator,
		syncer:   d.Syncer,
		webhooks: d.Webhooks,
		logger:   d.Logger,
	}
	timeout := d.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger) // Chi's default logger
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, http.StatusNotFound, "Not found")
	})

	r.Get("/health", h.healthCheck)
	r.Post("/webhook", h.receiveWebhook)

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.RequestSize(maxJSONBody))

		r.Group(func(r chi.Router) {
			r.Use(auth.OptionalAuth(d.Tokens))
			r.Post("/diagrams/generate", h.generateDiagram)
			r.Post("/diagrams/explain-node", h.explainNode)
			r.Post("/documentation/generate", h.generateDocumentation)
		})

		r.Post("/repositories/sync", h.syncRepositories)
		r.Get("/repositories/{github_repo_id}", h.getRepository)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(d.Tokens))
			r.Get("/repositories", h.listRepositories)
			r.Post("/installations", h.linkInstallation)
		})
	})

	return r
}

// healthCheck is a simple health endpoint.
func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

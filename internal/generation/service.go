// Package generation produces architecture diagrams, documentation and node
// explanations for stored repositories.
package generation

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"archgen/internal/database"
	custom_errors "archgen/internal/errors"
	"archgen/internal/filetree"
	"archgen/internal/limiter"
	"archgen/internal/llm"
	"archgen/internal/model"
)

// Gate is the generation limiter as seen by the service.
type Gate interface {
	CheckAndReserve(ctx context.Context, userID uuid.UUID, githubRepoID int64) (limiter.Decision, error)
	Finish(ctx context.Context, userID uuid.UUID, githubRepoID int64, succeeded bool) error
}

// Service runs LLM-backed generation for repositories.
type Service struct {
	q      database.Querier
	llm    llm.LLMClient
	gate   Gate
	logger *slog.Logger
}

func NewService(q database.Querier, client llm.LLMClient, gate Gate, logger *slog.Logger) *Service {
	return &Service{q: q, llm: client, gate: gate, logger: logger}
}

// DiagramResult is returned by GenerateDiagram.
type DiagramResult struct {
	DiagramCode string
	RepoName    string
}

// GenerateDiagram builds and stores a fresh architecture diagram. userID is
// nil for anonymous callers, who are not subject to the generation limit.
func (s *Service) GenerateDiagram(ctx context.Context, userID *uuid.UUID, githubRepoID int64) (result *DiagramResult, err error) {
	if githubRepoID <= 0 {
		return nil, custom_errors.MissingInput("github_repo_id")
	}
	logger := s.logger.With("github_repo_id", githubRepoID, "op", "generate_diagram")

	res, err := s.reserve(ctx, logger, userID, githubRepoID)
	if err != nil {
		return nil, err
	}
	defer func() { s.finish(ctx, logger, res, err == nil) }()

	repo, err := s.fetchRepository(ctx, githubRepoID)
	if err != nil {
		return nil, err
	}
	tree := filetree.FilterNoise(repo.FileTree)
	if len(tree) == 0 {
		return nil, custom_errors.EmptyTree(githubRepoID)
	}
	logger.Info("Generating diagram", "repo", repo.DisplayName(), "tree_entries", len(tree))

	prior := ""
	if repo.DiagramCode != nil {
		prior = *repo.DiagramCode
	}
	prompt := BuildDiagramPrompt(filetree.Render(tree), prior)

	raw, err := s.llm.Complete(ctx, prompt.request())
	if err != nil {
		return nil, err
	}
	diagram := ExtractDiagram(raw)
	logger.Debug("Diagram extracted", "raw_len", len(raw), "diagram_len", len(diagram))

	rows, err := s.q.UpdateRepositoryDiagram(ctx, database.UpdateRepositoryDiagramParams{
		GithubRepoID: githubRepoID,
		DiagramCode:  database.Text(&diagram),
	})
	if err != nil {
		return nil, custom_errors.Persistence("save diagram", err)
	}
	if rows == 0 {
		return nil, custom_errors.NotFound("repository", githubRepoID)
	}

	logger.Info("Diagram saved", "diagram_len", len(diagram))
	return &DiagramResult{DiagramCode: diagram, RepoName: repo.DisplayName()}, nil
}

// GenerateDocumentation writes markdown documentation for a repository. It is
// gated exactly like GenerateDiagram but tolerates an empty tree.
func (s *Service) GenerateDocumentation(ctx context.Context, userID *uuid.UUID, githubRepoID int64) (doc string, err error) {
	if githubRepoID <= 0 {
		return "", custom_errors.MissingInput("github_repo_id")
	}
	logger := s.logger.With("github_repo_id", githubRepoID, "op", "generate_documentation")

	res, err := s.reserve(ctx, logger, userID, githubRepoID)
	if err != nil {
		return "", err
	}
	defer func() { s.finish(ctx, logger, res, err == nil) }()

	repo, err := s.fetchRepository(ctx, githubRepoID)
	if err != nil {
		return "", err
	}

	diagram := ""
	if repo.DiagramCode != nil {
		diagram = *repo.DiagramCode
	}
	prompt := BuildDocumentationPrompt(repo.DisplayName(), filetree.Paths(filetree.FilterNoise(repo.FileTree)), diagram)

	doc, err = s.llm.Complete(ctx, prompt.request())
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(doc) == "" {
		return "", custom_errors.Upstream("Failed to generate documentation", 0, nil)
	}

	rows, err := s.q.UpdateRepositoryDocumentation(ctx, database.UpdateRepositoryDocumentationParams{
		GithubRepoID:    githubRepoID,
		DocumentationMd: database.Text(&doc),
	})
	if err != nil {
		return "", custom_errors.Persistence("save documentation", err)
	}
	if rows == 0 {
		return "", custom_errors.NotFound("repository", githubRepoID)
	}

	logger.Info("Documentation saved", "doc_len", len(doc))
	return doc, nil
}

// ExplainNode asks the model to describe one diagram node using a forced
// tool call.
func (s *Service) ExplainNode(ctx context.Context, githubRepoID int64, nodeLabel string) (*model.NodeExplanation, error) {
	if githubRepoID <= 0 {
		return nil, custom_errors.MissingInput("github_repo_id")
	}
	if strings.TrimSpace(nodeLabel) == "" {
		return nil, custom_errors.MissingInput("node_label")
	}

	repo, err := s.fetchRepository(ctx, githubRepoID)
	if err != nil {
		return nil, err
	}

	diagram := ""
	if repo.DiagramCode != nil {
		diagram = *repo.DiagramCode
	}
	prompt := BuildExplainPrompt(nodeLabel, repo.DisplayName(), filetree.Paths(repo.FileTree), diagram)

	raw, err := s.llm.CompleteStructured(ctx, prompt.request(), ExplainNodeTool)
	if err != nil {
		return nil, err
	}

	var out model.NodeExplanation
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, custom_errors.Parse("invalid explain_node arguments", err)
	}
	if out.Description == "" {
		return nil, custom_errors.Parse("explain_node returned no description", nil)
	}
	if out.TechStack == nil {
		out.TechStack = []string{}
	}
	if out.ProbableFiles == nil {
		out.ProbableFiles = []string{}
	}
	return &out, nil
}

func (s *Service) fetchRepository(ctx context.Context, githubRepoID int64) (*model.Repository, error) {
	row, err := s.q.GetRepositoryByGithubID(ctx, githubRepoID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, custom_errors.NotFound("repository", githubRepoID)
		}
		return nil, custom_errors.Persistence("fetch repository", err)
	}
	repo, err := row.ToModel()
	if err != nil {
		return nil, custom_errors.Persistence("decode repository", err)
	}
	return repo, nil
}

// reservation is the limiter hold taken for this request. A zero value means
// no hold was taken.
type reservation struct {
	userID       uuid.UUID
	githubRepoID int64
	held         bool
}

// reserve applies the generation limit. Anonymous callers are not limited,
// and a failure of the limiter itself does not block generation.
func (s *Service) reserve(ctx context.Context, logger *slog.Logger, userID *uuid.UUID, githubRepoID int64) (reservation, error) {
	if userID == nil {
		logger.Warn("No authenticated user, skipping generation limit check")
		return reservation{}, nil
	}

	d, err := s.gate.CheckAndReserve(ctx, *userID, githubRepoID)
	if err != nil {
		logger.Error("Generation limit check failed, proceeding without it", "user_id", *userID, "error", err)
		return reservation{}, nil
	}
	if !d.Allowed {
		logger.Info("Generation limit reached", "user_id", *userID)
		return reservation{}, custom_errors.LimitReached("")
	}

	logger.Info("Generation allowed", "user_id", *userID, "remaining", d.Remaining, "existing_repo", d.IsExistingRepo)
	return reservation{userID: *userID, githubRepoID: githubRepoID, held: true}, nil
}

// finish ends the hold exactly once. It runs after the request context may
// have been cancelled, so it detaches from it.
func (s *Service) finish(ctx context.Context, logger *slog.Logger, res reservation, succeeded bool) {
	if !res.held {
		return
	}
	if err := s.gate.Finish(context.WithoutCancel(ctx), res.userID, res.githubRepoID, succeeded); err != nil {
		logger.Error("Failed to finish generation usage", "user_id", res.userID, "succeeded", succeeded, "error", err)
		return
	}
	if !succeeded {
		logger.Info("Generation usage hold dropped after failure", "user_id", res.userID)
	}
}

// internal/syncer/syncer.go
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"golang.org/x/sync/errgroup"

	"archgen/internal/database"
	custom_errors "archgen/internal/errors"
	"archgen/internal/filetree"
	"archgen/internal/github"
	"archgen/internal/model"
)

const defaultConcurrency = 5

// RepoSource is the subset of the GitHub client the syncer needs.
type RepoSource interface {
	FetchTree(ctx context.Context, token, owner, repo, ref string) ([]model.TreeEntry, error)
	ListUserRepositories(ctx context.Context, token string) ([]*model.Repository, error)
}

// TokenSource issues GitHub App installation tokens.
type TokenSource interface {
	InstallationToken(ctx context.Context, installationID int64) (string, error)
}

// PushTarget identifies the repository snapshot a push event points at.
type PushTarget struct {
	InstallationID int64
	GithubRepoID   int64
	FullName       string
	Ref            string
}

// SyncResult summarises a user repository sync.
type SyncResult struct {
	SyncedCount  int
	TotalFetched int
}

// Syncer orchestrates the fetching and storing of repository data.
type Syncer struct {
	q           database.Querier
	inTx        database.TxRunner
	gh          RepoSource
	tokens      TokenSource
	concurrency int
	logger      *slog.Logger
}

// NewSyncer creates a new Syncer instance. tokens may be nil when no GitHub
// App is configured, in which case push syncs are unavailable.
func NewSyncer(q database.Querier, inTx database.TxRunner, gh RepoSource, tokens TokenSource, concurrency int, logger *slog.Logger) *Syncer {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Syncer{
		q:           q,
		inTx:        inTx,
		gh:          gh,
		tokens:      tokens,
		concurrency: concurrency,
		logger:      logger,
	}
}

// AppConfigured reports whether push syncs can authenticate.
func (s *Syncer) AppConfigured() bool {
	return s.tokens != nil
}

// SyncPush fetches the tree at the pushed ref with an installation token,
// filters it and upserts the repository by its GitHub id.
func (s *Syncer) SyncPush(ctx context.Context, target PushTarget) (*model.Repository, error) {
	if !s.AppConfigured() {
		return nil, errors.New("github app is not configured")
	}
	owner, name, err := github.ParseFullName(target.FullName)
	if err != nil {
		return nil, err
	}
	logger := s.logger.With("owner", owner, "repo", name, "github_repo_id", target.GithubRepoID)
	logger.Info("Syncing repository tree", "ref", target.Ref)

	token, err := s.tokens.InstallationToken(ctx, target.InstallationID)
	if err != nil {
		return nil, err
	}

	entries, err := s.gh.FetchTree(ctx, token, owner, name, target.Ref)
	if err != nil {
		return nil, err
	}
	filtered := filetree.FilterNoise(entries)
	logger.Info("Fetched repository tree", "entries", len(entries), "kept", len(filtered))

	var repo *model.Repository
	err = s.inTx(ctx, func(q database.Querier) error {
		var err error
		repo, err = s.storeTree(ctx, q, target, name, filtered)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Repository tree stored", "repository_id", repo.ID)
	return repo, nil
}

// storeTree upserts the snapshot. A repository seen for the first time is
// claimed by the earliest user linked to the installation, if any.
func (s *Syncer) storeTree(ctx context.Context, q database.Querier, target PushTarget, name string, entries []model.TreeEntry) (*model.Repository, error) {
	owner, err := q.GetInstallationOwner(ctx, target.InstallationID)
	if errors.Is(err, pgx.ErrNoRows) {
		owner = pgtype.UUID{}
	} else if err != nil {
		return nil, custom_errors.Persistence("look up installation owner", err)
	}

	tree, err := database.EncodeTree(entries)
	if err != nil {
		return nil, fmt.Errorf("encode tree: %w", err)
	}

	row, err := q.UpsertRepositoryTree(ctx, database.UpsertRepositoryTreeParams{
		GithubRepoID: target.GithubRepoID,
		Name:         name,
		FullName:     target.FullName,
		FileTree:     tree,
		UserID:       owner,
	})
	if err != nil {
		return nil, custom_errors.Persistence("upsert repository", err)
	}
	return row.ToModel()
}

// SyncUserRepositories imports every repository visible to a user's GitHub
// OAuth token and claims unowned ones for userID. Individual upsert failures
// are logged and left out of SyncedCount.
func (s *Syncer) SyncUserRepositories(ctx context.Context, accessToken string, userID uuid.UUID) (*SyncResult, error) {
	if accessToken == "" {
		return nil, custom_errors.MissingInput("github_access_token")
	}
	if userID == uuid.Nil {
		return nil, custom_errors.MissingInput("user_id")
	}
	logger := s.logger.With("user_id", userID)

	repos, err := s.gh.ListUserRepositories(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	logger.Info("Fetched user repositories", "count", len(repos))

	var synced atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, repo := range repos {
		repo := repo
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			_, err := s.q.UpsertUserRepository(gctx, database.UpsertUserRepositoryParams{
				GithubRepoID: repo.GithubRepoID,
				Name:         repo.Name,
				FullName:     repo.FullName,
				Description:  database.Text(repo.Description),
				Url:          database.Text(repo.URL),
				UserID:       database.UUID(userID),
			})
			if err != nil {
				logger.Error("Failed to upsert repository", "repo", repo.FullName, "github_repo_id", repo.GithubRepoID, "error", err)
				return nil
			}
			synced.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	result := &SyncResult{SyncedCount: int(synced.Load()), TotalFetched: len(repos)}
	logger.Info("User repository sync finished", "synced", result.SyncedCount, "fetched", result.TotalFetched)
	return result, nil
}

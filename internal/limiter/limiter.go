// Package limiter enforces the per-user cap on distinct repositories that may
// receive a first-time generation.
package limiter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"archgen/internal/database"
)

// Decision is the outcome of a check-and-reserve.
type Decision struct {
	Allowed        bool
	Remaining      int
	IsExistingRepo bool
}

// Limiter delegates to the check_repo_generation_limit stored function, which
// serializes decisions per user with an advisory lock.
type Limiter struct {
	q      database.Querier
	cap    int
	logger *slog.Logger
}

func New(q database.Querier, repoCap int, logger *slog.Logger) *Limiter {
	return &Limiter{q: q, cap: repoCap, logger: logger}
}

// CheckAndReserve decides whether userID may generate for githubRepoID and,
// when allowed, records an in-flight hold on the usage row in the same step.
func (l *Limiter) CheckAndReserve(ctx context.Context, userID uuid.UUID, githubRepoID int64) (Decision, error) {
	row, err := l.q.CheckRepoGenerationLimit(ctx, database.CheckRepoGenerationLimitParams{
		UserID:       database.UUID(userID),
		GithubRepoID: githubRepoID,
		Cap:          int32(l.cap),
	})
	if err != nil {
		return Decision{}, fmt.Errorf("check generation limit: %w", err)
	}

	d := Decision{
		Allowed:        row.Allowed,
		Remaining:      int(row.Remaining),
		IsExistingRepo: row.IsExistingRepo,
	}
	l.logger.Debug("Generation limit checked",
		"user_id", userID,
		"github_repo_id", githubRepoID,
		"allowed", d.Allowed,
		"remaining", d.Remaining,
		"existing_repo", d.IsExistingRepo)
	return d, nil
}

// Finish ends a reservation taken by an allowed CheckAndReserve. Every allowed
// call must be finished exactly once. A repository whose holders all failed and
// that never succeeded stops counting against the cap.
func (l *Limiter) Finish(ctx context.Context, userID uuid.UUID, githubRepoID int64, succeeded bool) error {
	err := l.q.FinishRepoGeneration(ctx, database.FinishRepoGenerationParams{
		UserID:       database.UUID(userID),
		GithubRepoID: githubRepoID,
		Succeeded:    succeeded,
	})
	if err != nil {
		return fmt.Errorf("finish generation usage: %w", err)
	}
	return nil
}

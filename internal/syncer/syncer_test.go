// internal/syncer/syncer_test.go
package syncer

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"archgen/internal/database"
	"archgen/internal/database/dbtest"
	custom_errors "archgen/internal/errors"
	"archgen/internal/model"
)

// MockRepoSource is a mock of the RepoSource interface.
type MockRepoSource struct {
	mock.Mock
}

func (m *MockRepoSource) FetchTree(ctx context.Context, token, owner, repo, ref string) ([]model.TreeEntry, error) {
	args := m.Called(ctx, token, owner, repo, ref)
	return args.Get(0).([]model.TreeEntry), args.Error(1)
}

func (m *MockRepoSource) ListUserRepositories(ctx context.Context, token string) ([]*model.Repository, error) {
	args := m.Called(ctx, token)
	return args.Get(0).([]*model.Repository), args.Error(1)
}

// MockTokenSource is a mock of the TokenSource interface.
type MockTokenSource struct {
	mock.Mock
}

func (m *MockTokenSource) InstallationToken(ctx context.Context, installationID int64) (string, error) {
	args := m.Called(ctx, installationID)
	return args.String(0), args.Error(1)
}

// passthroughTx runs fn directly against q.
func passthroughTx(q database.Querier) database.TxRunner {
	return func(ctx context.Context, fn func(database.Querier) error) error {
		return fn(q)
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestSyncer_SyncPush(t *testing.T) {
	ctx := context.Background()
	target := PushTarget{InstallationID: 99, GithubRepoID: 123, FullName: "acme/api", Ref: "refs/heads/main"}
	rawTree := []model.TreeEntry{
		{Path: "src", Type: model.EntryTypeTree},
		{Path: "src/app.ts", Type: model.EntryTypeBlob},
		{Path: "node_modules/x/index.js", Type: model.EntryTypeBlob},
		{Path: "package-lock.json", Type: model.EntryTypeBlob},
	}

	t.Run("fetches, filters and upserts with the installation owner", func(t *testing.T) {
		mockQ := new(dbtest.MockQuerier)
		gh := new(MockRepoSource)
		tokens := new(MockTokenSource)
		owner := database.UUID(uuid.New())

		tokens.On("InstallationToken", ctx, int64(99)).Return("ghs_x", nil).Once()
		gh.On("FetchTree", ctx, "ghs_x", "acme", "api", "refs/heads/main").Return(rawTree, nil).Once()
		mockQ.On("GetInstallationOwner", ctx, int64(99)).Return(owner, nil).Once()

		wantTree, _ := database.EncodeTree(rawTree[:2])
		mockQ.On("UpsertRepositoryTree", ctx, database.UpsertRepositoryTreeParams{
			GithubRepoID: 123,
			Name:         "api",
			FullName:     "acme/api",
			FileTree:     wantTree,
			UserID:       owner,
		}).Return(database.Repository{ID: 1, GithubRepoID: 123, Name: "api", FullName: "acme/api", FileTree: wantTree, UserID: owner}, nil).Once()

		s := NewSyncer(mockQ, passthroughTx(mockQ), gh, tokens, 2, testLogger())
		repo, err := s.SyncPush(ctx, target)

		require.NoError(t, err)
		assert.Equal(t, int64(123), repo.GithubRepoID)
		assert.Len(t, repo.FileTree, 2)
		mockQ.AssertExpectations(t)
		gh.AssertExpectations(t)
	})

	t.Run("unlinked installation upserts without an owner", func(t *testing.T) {
		mockQ := new(dbtest.MockQuerier)
		gh := new(MockRepoSource)
		tokens := new(MockTokenSource)

		tokens.On("InstallationToken", ctx, int64(99)).Return("ghs_x", nil).Once()
		gh.On("FetchTree", ctx, "ghs_x", "acme", "api", "refs/heads/main").Return(rawTree, nil).Once()
		mockQ.On("GetInstallationOwner", ctx, int64(99)).Return(pgtype.UUID{}, pgx.ErrNoRows).Once()
		mockQ.On("UpsertRepositoryTree", ctx, mock.MatchedBy(func(p database.UpsertRepositoryTreeParams) bool {
			return !p.UserID.Valid && p.GithubRepoID == 123
		})).Return(database.Repository{ID: 1, GithubRepoID: 123}, nil).Once()

		s := NewSyncer(mockQ, passthroughTx(mockQ), gh, tokens, 2, testLogger())
		_, err := s.SyncPush(ctx, target)

		require.NoError(t, err)
		mockQ.AssertExpectations(t)
	})

	t.Run("auth failure stops before any fetch or write", func(t *testing.T) {
		mockQ := new(dbtest.MockQuerier)
		gh := new(MockRepoSource)
		tokens := new(MockTokenSource)
		tokens.On("InstallationToken", ctx, int64(99)).Return("", &custom_errors.AuthError{StatusCode: 401, Message: "bad jwt"}).Once()

		s := NewSyncer(mockQ, passthroughTx(mockQ), gh, tokens, 2, testLogger())
		_, err := s.SyncPush(ctx, target)

		assert.ErrorIs(t, err, custom_errors.ErrAuth)
		gh.AssertNotCalled(t, "FetchTree", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		mockQ.AssertNotCalled(t, "UpsertRepositoryTree", mock.Anything, mock.Anything)
	})

	t.Run("tree fetch failure writes nothing", func(t *testing.T) {
		mockQ := new(dbtest.MockQuerier)
		gh := new(MockRepoSource)
		tokens := new(MockTokenSource)
		tokens.On("InstallationToken", ctx, int64(99)).Return("ghs_x", nil).Once()
		gh.On("FetchTree", ctx, "ghs_x", "acme", "api", "refs/heads/main").Return([]model.TreeEntry(nil), custom_errors.NotFound("repository tree", "acme/api@main")).Once()

		s := NewSyncer(mockQ, passthroughTx(mockQ), gh, tokens, 2, testLogger())
		_, err := s.SyncPush(ctx, target)

		assert.ErrorIs(t, err, custom_errors.ErrNotFound)
		mockQ.AssertNotCalled(t, "UpsertRepositoryTree", mock.Anything, mock.Anything)
	})

	t.Run("app not configured", func(t *testing.T) {
		s := NewSyncer(new(dbtest.MockQuerier), nil, new(MockRepoSource), nil, 2, testLogger())
		assert.False(t, s.AppConfigured())
		_, err := s.SyncPush(ctx, target)
		assert.Error(t, err)
	})

	t.Run("invalid full name", func(t *testing.T) {
		s := NewSyncer(new(dbtest.MockQuerier), nil, new(MockRepoSource), new(MockTokenSource), 2, testLogger())
		_, err := s.SyncPush(ctx, PushTarget{InstallationID: 1, GithubRepoID: 1, FullName: "api"})
		var formatErr *custom_errors.ErrInvalidRepoFormat
		assert.ErrorAs(t, err, &formatErr)
	})
}

func TestSyncer_SyncUserRepositories(t *testing.T) {
	ctx := context.Background()
	user := uuid.New()
	desc := "API"
	repos := []*model.Repository{
		{GithubRepoID: 1, Name: "api", FullName: "acme/api", Description: &desc},
		{GithubRepoID: 2, Name: "web", FullName: "acme/web"},
		{GithubRepoID: 3, Name: "cli", FullName: "acme/cli"},
	}

	t.Run("counts successful upserts only", func(t *testing.T) {
		mockQ := new(dbtest.MockQuerier)
		gh := new(MockRepoSource)
		gh.On("ListUserRepositories", ctx, "gho_x").Return(repos, nil).Once()

		mockQ.On("UpsertUserRepository", mock.Anything, mock.MatchedBy(func(p database.UpsertUserRepositoryParams) bool {
			return p.GithubRepoID != 2 && p.UserID == database.UUID(user)
		})).Return(database.Repository{}, nil)
		mockQ.On("UpsertUserRepository", mock.Anything, mock.MatchedBy(func(p database.UpsertUserRepositoryParams) bool {
			return p.GithubRepoID == 2
		})).Return(database.Repository{}, errors.New("constraint violation"))

		s := NewSyncer(mockQ, nil, gh, nil, 2, testLogger())
		res, err := s.SyncUserRepositories(ctx, "gho_x", user)

		require.NoError(t, err)
		assert.Equal(t, &SyncResult{SyncedCount: 2, TotalFetched: 3}, res)
		mockQ.AssertNumberOfCalls(t, "UpsertUserRepository", 3)
	})

	t.Run("listing failure is returned", func(t *testing.T) {
		gh := new(MockRepoSource)
		upstream := custom_errors.Upstream("GitHub API error: 401", 401, nil)
		gh.On("ListUserRepositories", ctx, "bad").Return([]*model.Repository(nil), upstream).Once()

		s := NewSyncer(new(dbtest.MockQuerier), nil, gh, nil, 2, testLogger())
		_, err := s.SyncUserRepositories(ctx, "bad", user)

		assert.ErrorIs(t, err, custom_errors.ErrUpstream)
	})

	t.Run("missing inputs", func(t *testing.T) {
		s := NewSyncer(new(dbtest.MockQuerier), nil, new(MockRepoSource), nil, 2, testLogger())

		_, err := s.SyncUserRepositories(ctx, "", user)
		assert.ErrorIs(t, err, custom_errors.ErrMissingInput)

		_, err = s.SyncUserRepositories(ctx, "gho_x", uuid.Nil)
		assert.ErrorIs(t, err, custom_errors.ErrMissingInput)
	})
}

func TestSyncer_Installations(t *testing.T) {
	ctx := context.Background()
	user := uuid.New()

	t.Run("link records and attaches the user", func(t *testing.T) {
		mockQ := new(dbtest.MockQuerier)
		mockQ.On("UpsertInstallation", ctx, database.UpsertInstallationParams{GithubInstallationID: 99, AccountLogin: "acme"}).
			Return(database.Installation{ID: 1, GithubInstallationID: 99, AccountLogin: "acme"}, nil).Once()
		mockQ.On("LinkInstallationUser", ctx, database.LinkInstallationUserParams{InstallationID: 99, UserID: database.UUID(user)}).
			Return(nil).Once()

		s := NewSyncer(mockQ, passthroughTx(mockQ), new(MockRepoSource), nil, 2, testLogger())
		inst, err := s.LinkInstallation(ctx, 99, "acme", user)

		require.NoError(t, err)
		assert.Equal(t, "acme", inst.AccountLogin)
		mockQ.AssertExpectations(t)
	})

	t.Run("link requires an installation id", func(t *testing.T) {
		s := NewSyncer(new(dbtest.MockQuerier), nil, new(MockRepoSource), nil, 2, testLogger())
		_, err := s.LinkInstallation(ctx, 0, "", user)
		assert.ErrorIs(t, err, custom_errors.ErrMissingInput)
	})

	t.Run("remove soft-deletes", func(t *testing.T) {
		mockQ := new(dbtest.MockQuerier)
		mockQ.On("MarkInstallationDeleted", ctx, int64(99)).Return(int64(1), nil).Once()

		s := NewSyncer(mockQ, nil, new(MockRepoSource), nil, 2, testLogger())
		require.NoError(t, s.RemoveInstallation(ctx, 99))
		mockQ.AssertExpectations(t)
	})

	t.Run("record failure is a persistence error", func(t *testing.T) {
		mockQ := new(dbtest.MockQuerier)
		mockQ.On("UpsertInstallation", ctx, mock.Anything).Return(database.Installation{}, errors.New("down")).Once()

		s := NewSyncer(mockQ, nil, new(MockRepoSource), nil, 2, testLogger())
		_, err := s.RecordInstallation(ctx, 99, "acme")
		assert.ErrorIs(t, err, custom_errors.ErrPersistence)
	})
}

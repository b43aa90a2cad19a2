// Package dbtest provides a testify mock of database.Querier shared by package tests.
package dbtest

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/mock"

	"archgen/internal/database"
)

// MockQuerier is a mock of the database.Querier interface.
type MockQuerier struct {
	mock.Mock
}

var _ database.Querier = (*MockQuerier)(nil)

func (m *MockQuerier) CheckRepoGenerationLimit(ctx context.Context, arg database.CheckRepoGenerationLimitParams) (database.CheckRepoGenerationLimitRow, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(database.CheckRepoGenerationLimitRow), args.Error(1)
}
func (m *MockQuerier) FinishRepoGeneration(ctx context.Context, arg database.FinishRepoGenerationParams) error {
	args := m.Called(ctx, arg)
	return args.Error(0)
}
func (m *MockQuerier) GetInstallationOwner(ctx context.Context, installationID int64) (pgtype.UUID, error) {
	args := m.Called(ctx, installationID)
	return args.Get(0).(pgtype.UUID), args.Error(1)
}
func (m *MockQuerier) GetRepositoryByGithubID(ctx context.Context, githubRepoID int64) (database.Repository, error) {
	args := m.Called(ctx, githubRepoID)
	return args.Get(0).(database.Repository), args.Error(1)
}
func (m *MockQuerier) LinkInstallationUser(ctx context.Context, arg database.LinkInstallationUserParams) error {
	args := m.Called(ctx, arg)
	return args.Error(0)
}
func (m *MockQuerier) ListRepositoriesByUser(ctx context.Context, userID pgtype.UUID) ([]database.Repository, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]database.Repository), args.Error(1)
}
func (m *MockQuerier) MarkInstallationDeleted(ctx context.Context, githubInstallationID int64) (int64, error) {
	args := m.Called(ctx, githubInstallationID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockQuerier) UpdateRepositoryDiagram(ctx context.Context, arg database.UpdateRepositoryDiagramParams) (int64, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockQuerier) UpdateRepositoryDocumentation(ctx context.Context, arg database.UpdateRepositoryDocumentationParams) (int64, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockQuerier) UpsertInstallation(ctx context.Context, arg database.UpsertInstallationParams) (database.Installation, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(database.Installation), args.Error(1)
}
func (m *MockQuerier) UpsertRepositoryTree(ctx context.Context, arg database.UpsertRepositoryTreeParams) (database.Repository, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(database.Repository), args.Error(1)
}
func (m *MockQuerier) UpsertUserRepository(ctx context.Context, arg database.UpsertUserRepositoryParams) (database.Repository, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(database.Repository), args.Error(1)
}

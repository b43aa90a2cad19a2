package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_KindSurvivesWrapping(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("generate diagram: %w", Persistence("save diagram", cause))

	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrNotFound)

	var appErr *AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, "failed to save diagram", appErr.Message)
}

func TestAppError_Constructors(t *testing.T) {
	assert.ErrorIs(t, MissingInput("github_repo_id"), ErrMissingInput)
	assert.Equal(t, "github_repo_id is required", MissingInput("github_repo_id").Error())
	assert.ErrorIs(t, EmptyTree(42), ErrNotFound)

	limit := LimitReached("")
	assert.ErrorIs(t, limit, ErrLimitReached)
	assert.Equal(t, 0, limit.Remaining)

	assert.Equal(t, 429, RateLimited(nil).StatusCode)
	assert.Equal(t, 402, QuotaExhausted(nil).StatusCode)
}

func TestAuthError(t *testing.T) {
	err := fmt.Errorf("sync push: %w", &AuthError{StatusCode: 401, Message: "bad credentials"})

	assert.ErrorIs(t, err, ErrAuth)
	var authErr *AuthError
	assert.ErrorAs(t, err, &authErr)
	assert.Equal(t, 401, authErr.StatusCode)
	assert.Contains(t, err.Error(), "HTTP 401")
}

func TestErrInvalidRepoFormat(t *testing.T) {
	err := &ErrInvalidRepoFormat{Repo: "just-a-name"}
	assert.Equal(t, `invalid repository format: "just-a-name", expected 'owner/name'`, err.Error())
}

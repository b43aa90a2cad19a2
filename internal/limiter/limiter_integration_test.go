//go:build integration

package limiter

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"archgen/internal/database"
	"archgen/internal/database/dbtest"
)

func TestLimiter_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	dbpool, teardown := dbtest.SetupTestDatabase(ctx, t, "file://../../migrations")
	defer teardown()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	lim := New(database.New(dbpool), 3, logger)

	t.Run("cap of three distinct repositories", func(t *testing.T) {
		user := uuid.New()

		for i, repo := range []int64{1, 2, 3} {
			d, err := lim.CheckAndReserve(ctx, user, repo)
			require.NoError(t, err)
			assert.True(t, d.Allowed)
			assert.False(t, d.IsExistingRepo)
			assert.Equal(t, 2-i, d.Remaining)
		}

		d, err := lim.CheckAndReserve(ctx, user, 4)
		require.NoError(t, err)
		assert.False(t, d.Allowed)
		assert.Equal(t, 0, d.Remaining)

		d, err = lim.CheckAndReserve(ctx, user, 2)
		require.NoError(t, err)
		assert.True(t, d.Allowed, "regenerating a counted repository is always allowed")
		assert.True(t, d.IsExistingRepo)
	})

	t.Run("failed first-time generation frees a slot", func(t *testing.T) {
		user := uuid.New()
		for _, repo := range []int64{10, 11, 12} {
			_, err := lim.CheckAndReserve(ctx, user, repo)
			require.NoError(t, err)
		}
		require.NoError(t, lim.Finish(ctx, user, 10, true))
		require.NoError(t, lim.Finish(ctx, user, 11, true))
		require.NoError(t, lim.Finish(ctx, user, 12, false))

		d, err := lim.CheckAndReserve(ctx, user, 13)
		require.NoError(t, err)
		assert.True(t, d.Allowed)
		assert.Equal(t, 0, d.Remaining)
	})

	t.Run("failed first attempt keeps a row a concurrent success relied on", func(t *testing.T) {
		single := New(database.New(dbpool), 1, logger)
		user := uuid.New()

		first, err := single.CheckAndReserve(ctx, user, 20)
		require.NoError(t, err)
		require.True(t, first.Allowed)
		require.False(t, first.IsExistingRepo)

		second, err := single.CheckAndReserve(ctx, user, 20)
		require.NoError(t, err)
		require.True(t, second.Allowed)
		require.True(t, second.IsExistingRepo)

		require.NoError(t, single.Finish(ctx, user, 20, true))
		require.NoError(t, single.Finish(ctx, user, 20, false))

		d, err := single.CheckAndReserve(ctx, user, 21)
		require.NoError(t, err)
		assert.False(t, d.Allowed, "a repository that was generated must keep counting")

		var count int
		require.NoError(t, dbpool.QueryRow(ctx, "SELECT count(*) FROM generation_usage WHERE user_id = $1", user).Scan(&count))
		assert.Equal(t, 1, count)
	})

	t.Run("failed first attempt waits for a concurrent holder still in flight", func(t *testing.T) {
		single := New(database.New(dbpool), 1, logger)
		user := uuid.New()

		_, err := single.CheckAndReserve(ctx, user, 30)
		require.NoError(t, err)
		_, err = single.CheckAndReserve(ctx, user, 30)
		require.NoError(t, err)

		require.NoError(t, single.Finish(ctx, user, 30, false))

		d, err := single.CheckAndReserve(ctx, user, 31)
		require.NoError(t, err)
		assert.False(t, d.Allowed, "the second holder still owns the slot")

		require.NoError(t, single.Finish(ctx, user, 30, false))

		d, err = single.CheckAndReserve(ctx, user, 31)
		require.NoError(t, err)
		assert.True(t, d.Allowed, "the slot frees once every holder has failed")
	})

	t.Run("concurrent first-time requests never exceed the cap", func(t *testing.T) {
		user := uuid.New()
		const attempts = 20

		var wg sync.WaitGroup
		results := make([]Decision, attempts)
		errs := make([]error, attempts)
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], errs[i] = lim.CheckAndReserve(ctx, user, int64(100+i))
			}(i)
		}
		wg.Wait()

		allowed := 0
		for i := range results {
			require.NoError(t, errs[i])
			if results[i].Allowed {
				allowed++
			}
		}
		assert.Equal(t, 3, allowed)

		var count int
		require.NoError(t, dbpool.QueryRow(ctx, "SELECT count(*) FROM generation_usage WHERE user_id = $1", user).Scan(&count))
		assert.Equal(t, 3, count)
	})
}

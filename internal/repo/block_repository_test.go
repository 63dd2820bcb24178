package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Lucifer-FallenAngel/cmoon-chat-appliction/internal/db"
	"github.com/Lucifer-FallenAngel/cmoon-chat-appliction/internal/model"
)

func newBlockRepo(t *testing.T) BlockRepository {
	t.Helper()
	store := db.NewRepository[model.Block](testDatabase, testCollection("blocks"))
	return NewBlockRepository(testDatabase, store, zap.NewNop())
}

func TestBlockRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("block is symmetric for the guard, directed for status", func(t *testing.T) {
		repo := newBlockRepo(t)
		require.NoError(t, repo.Block(ctx, 1, 2))

		blocked, err := repo.IsBlocked(ctx, 1, 2)
		require.NoError(t, err)
		assert.True(t, blocked)

		blocked, err = repo.IsBlocked(ctx, 2, 1)
		require.NoError(t, err)
		assert.True(t, blocked)

		status, err := repo.Status(ctx, 2, 1)
		require.NoError(t, err)
		assert.True(t, status.Blocked)
		assert.False(t, status.BlockedByMe)
	})

	t.Run("blocking twice leaves a single edge", func(t *testing.T) {
		repo := newBlockRepo(t)
		require.NoError(t, repo.Block(ctx, 3, 4))
		require.NoError(t, repo.Block(ctx, 3, 4))

		require.NoError(t, repo.Unblock(ctx, 3, 4))
		blocked, err := repo.IsBlocked(ctx, 3, 4)
		require.NoError(t, err)
		assert.False(t, blocked)
	})

	t.Run("unblocking a missing edge is a no-op", func(t *testing.T) {
		repo := newBlockRepo(t)
		require.NoError(t, repo.Unblock(ctx, 5, 6))
	})
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/Lucifer-FallenAngel/cmoon-chat-appliction/pkg/errors"
)

func TestBlockService(t *testing.T) {
	ctx := context.Background()

	t.Run("status reflects who placed the block", func(t *testing.T) {
		store := newFakeStore()
		svc := NewBlockService(store, zap.NewNop())

		require.NoError(t, svc.Block(ctx, 1, 2))

		mine, err := svc.Status(ctx, 1, 2)
		require.NoError(t, err)
		assert.True(t, mine.Blocked)
		assert.True(t, mine.BlockedByMe)

		theirs, err := svc.Status(ctx, 2, 1)
		require.NoError(t, err)
		assert.True(t, theirs.Blocked)
		assert.False(t, theirs.BlockedByMe)
	})

	t.Run("blocking twice stays a single edge", func(t *testing.T) {
		store := newFakeStore()
		svc := NewBlockService(store, zap.NewNop())

		require.NoError(t, svc.Block(ctx, 1, 2))
		require.NoError(t, svc.Block(ctx, 1, 2))
		require.NoError(t, svc.Unblock(ctx, 1, 2))

		status, err := svc.Status(ctx, 1, 2)
		require.NoError(t, err)
		assert.False(t, status.Blocked)
	})

	t.Run("unblock removes only my edge", func(t *testing.T) {
		store := newFakeStore()
		svc := NewBlockService(store, zap.NewNop())

		require.NoError(t, svc.Block(ctx, 1, 2))
		require.NoError(t, svc.Block(ctx, 2, 1))
		require.NoError(t, svc.Unblock(ctx, 1, 2))

		status, err := svc.Status(ctx, 1, 2)
		require.NoError(t, err)
		assert.True(t, status.Blocked)
		assert.False(t, status.BlockedByMe)
	})

	t.Run("rejects self block and missing ids", func(t *testing.T) {
		store := newFakeStore()
		svc := NewBlockService(store, zap.NewNop())

		err := svc.Block(ctx, 1, 1)
		assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))

		err = svc.Block(ctx, 0, 2)
		assert.ErrorIs(t, err, apperrors.ErrMissingFields)

		err = svc.Unblock(ctx, 1, 0)
		assert.ErrorIs(t, err, apperrors.ErrMissingFields)
	})
}

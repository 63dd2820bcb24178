package repo

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Lucifer-FallenAngel/cmoon-chat-appliction/internal/db"
	"github.com/Lucifer-FallenAngel/cmoon-chat-appliction/internal/model"
)

func newConversationRepo(t *testing.T) ConversationRepository {
	t.Helper()
	store := db.NewRepository[model.Conversation](testDatabase, testCollection("conversations"))
	return NewConversationRepository(testDatabase, store, zap.NewNop())
}

func TestConversationResolveOrCreate(t *testing.T) {
	ctx := context.Background()
	repo := newConversationRepo(t)

	t.Run("both directions resolve to the same conversation", func(t *testing.T) {
		first, err := repo.ResolveOrCreate(ctx, 1, 2)
		require.NoError(t, err)
		require.False(t, first.ID.IsZero())
		assert.Equal(t, "1:2", first.PairKey)

		second, err := repo.ResolveOrCreate(ctx, 2, 1)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("concurrent first contact creates exactly one conversation", func(t *testing.T) {
		ids := make([]primitive.ObjectID, 8)
		var wg sync.WaitGroup
		for i := range ids {
			wg.Add(1)
			go func(slot int) {
				defer wg.Done()
				a, b := int64(10), int64(11)
				if slot%2 == 1 {
					a, b = b, a
				}
				conv, err := repo.ResolveOrCreate(ctx, a, b)
				if err == nil {
					ids[slot] = conv.ID
				}
			}(i)
		}
		wg.Wait()

		require.False(t, ids[0].IsZero())
		for _, id := range ids {
			assert.Equal(t, ids[0], id)
		}
	})
}

func TestConversationFindByPair(t *testing.T) {
	ctx := context.Background()
	repo := newConversationRepo(t)

	t.Run("nil for a pair that never spoke", func(t *testing.T) {
		conv, err := repo.FindByPair(ctx, 100, 200)
		require.NoError(t, err)
		assert.Nil(t, conv)
	})

	t.Run("finds an existing pair in either order", func(t *testing.T) {
		created, err := repo.ResolveOrCreate(ctx, 3, 4)
		require.NoError(t, err)

		found, err := repo.FindByPair(ctx, 4, 3)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, created.ID, found.ID)
	})
}

func TestConversationTouchLastMessage(t *testing.T) {
	ctx := context.Background()
	repo := newConversationRepo(t)

	conv, err := repo.ResolveOrCreate(ctx, 5, 6)
	require.NoError(t, err)

	at := time.Now().UTC().Add(time.Hour).Truncate(time.Millisecond)
	require.NoError(t, repo.TouchLastMessage(ctx, conv.ID, at))

	found, err := repo.FindByPair(ctx, 5, 6)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.WithinDuration(t, at, found.LastMessageAt, time.Millisecond)
}

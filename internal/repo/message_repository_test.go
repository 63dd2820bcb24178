package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Lucifer-FallenAngel/cmoon-chat-appliction/internal/db"
	"github.com/Lucifer-FallenAngel/cmoon-chat-appliction/internal/model"
	apperrors "github.com/Lucifer-FallenAngel/cmoon-chat-appliction/pkg/errors"
)

func newMessageRepo(t *testing.T) MessageRepository {
	t.Helper()
	store := db.NewRepository[model.Message](testDatabase, testCollection("messages"))
	return NewMessageRepository(testDatabase, store, zap.NewNop())
}

func seedMessage(t *testing.T, repo MessageRepository, conv primitive.ObjectID, sender, receiver int64, body string) *model.Message {
	t.Helper()
	msg, err := repo.Insert(context.Background(), &model.Message{
		ConversationID: conv,
		SenderID:       sender,
		ReceiverID:     receiver,
		Body:           body,
		MessageType:    model.KindText,
		Status:         model.StatusSent,
		DeletedFor:     []int64{},
		CreatedAt:      time.Now().UTC(),
	})
	require.NoError(t, err)
	return msg
}

func TestMessageInsertAndList(t *testing.T) {
	ctx := context.Background()
	repo := newMessageRepo(t)
	conv := primitive.NewObjectID()

	first := seedMessage(t, repo, conv, 1, 2, "first")
	assert.False(t, first.ID.IsZero())
	second := seedMessage(t, repo, conv, 2, 1, "second")

	msgs, err := repo.ListVisible(ctx, conv, 1)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, first.ID, msgs[0].ID)
	assert.Equal(t, second.ID, msgs[1].ID)

	other, err := repo.ListVisible(ctx, primitive.NewObjectID(), 1)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestMessageStatusTransitions(t *testing.T) {
	ctx := context.Background()
	repo := newMessageRepo(t)
	conv := primitive.NewObjectID()

	seedMessage(t, repo, conv, 1, 2, "a")
	seedMessage(t, repo, conv, 1, 2, "b")
	seedMessage(t, repo, conv, 2, 1, "reply")

	t.Run("mark delivered only touches sent messages in that direction", func(t *testing.T) {
		moved, err := repo.MarkDelivered(ctx, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(2), moved)

		moved, err = repo.MarkDelivered(ctx, 1, 2)
		require.NoError(t, err)
		assert.Zero(t, moved)

		msgs, err := repo.ListVisible(ctx, conv, 2)
		require.NoError(t, err)
		for _, m := range msgs {
			if m.SenderID == 1 {
				assert.Equal(t, model.StatusDelivered, m.Status)
			} else {
				assert.Equal(t, model.StatusSent, m.Status)
			}
		}
	})

	t.Run("mark read catches sent and delivered alike", func(t *testing.T) {
		moved, err := repo.MarkRead(ctx, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(2), moved)

		// already read, nothing left to move
		moved, err = repo.MarkDelivered(ctx, 1, 2)
		require.NoError(t, err)
		assert.Zero(t, moved)

		moved, err = repo.MarkRead(ctx, 1, 2)
		require.NoError(t, err)
		assert.Zero(t, moved)
	})
}

func TestMessageVisibility(t *testing.T) {
	ctx := context.Background()
	repo := newMessageRepo(t)
	conv := primitive.NewObjectID()

	msg := seedMessage(t, repo, conv, 1, 2, "to be hidden")
	seedMessage(t, repo, conv, 1, 2, "kept")

	t.Run("hide for viewer is per user and idempotent", func(t *testing.T) {
		require.NoError(t, repo.HideForViewer(ctx, msg.ID, 2))
		require.NoError(t, repo.HideForViewer(ctx, msg.ID, 2))

		forViewer, err := repo.ListVisible(ctx, conv, 2)
		require.NoError(t, err)
		require.Len(t, forViewer, 1)
		assert.Equal(t, "kept", forViewer[0].Body)

		forSender, err := repo.ListVisible(ctx, conv, 1)
		require.NoError(t, err)
		assert.Len(t, forSender, 2)
	})

	t.Run("hide fails for an unknown message", func(t *testing.T) {
		err := repo.HideForViewer(ctx, primitive.NewObjectID(), 2)
		assert.ErrorIs(t, err, apperrors.ErrMessageNotFound)
	})

	t.Run("hide all covers the remaining history", func(t *testing.T) {
		hidden, err := repo.HideAllForViewer(ctx, conv, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(1), hidden)

		forViewer, err := repo.ListVisible(ctx, conv, 2)
		require.NoError(t, err)
		assert.Empty(t, forViewer)
	})
}

func TestMessageFindByID(t *testing.T) {
	ctx := context.Background()
	repo := newMessageRepo(t)
	conv := primitive.NewObjectID()

	msg := seedMessage(t, repo, conv, 1, 2, "hello")

	found, err := repo.FindByID(ctx, msg.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "hello", found.Body)

	_, err = repo.FindByID(ctx, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, apperrors.ErrMessageNotFound)

	_, err = repo.FindByID(ctx, "garbage")
	assert.ErrorIs(t, err, apperrors.ErrInvalidMessageID)
}

func TestMessageCountUnread(t *testing.T) {
	ctx := context.Background()
	repo := newMessageRepo(t)
	conv := primitive.NewObjectID()

	seedMessage(t, repo, conv, 1, 2, "a")
	seedMessage(t, repo, conv, 1, 2, "b")

	n, err := repo.CountUnread(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = repo.MarkDelivered(ctx, 1, 2)
	require.NoError(t, err)

	n, err = repo.CountUnread(ctx, 1, 2)
	require.NoError(t, err)
	assert.Zero(t, n)
}

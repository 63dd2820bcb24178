package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Lucifer-FallenAngel/cmoon-chat-appliction/internal/model"
	apperrors "github.com/Lucifer-FallenAngel/cmoon-chat-appliction/pkg/errors"
)

func TestListRoster(t *testing.T) {
	ctx := context.Background()

	t.Run("excludes me and carries unread counts", func(t *testing.T) {
		store := newFakeStore()
		store.users = []model.User{
			{UserID: 1, Name: "me"},
			{UserID: 2, Name: "alice"},
			{UserID: 3, Name: "bob"},
		}
		msgSvc := NewMessageService(store, store, store, nil, zap.NewNop())
		svc := NewUserService(store, store, zap.NewNop())

		_, err := msgSvc.Send(ctx, 2, 1, "one", model.KindText, nil)
		require.NoError(t, err)
		_, err = msgSvc.Send(ctx, 2, 1, "two", model.KindText, nil)
		require.NoError(t, err)

		roster, err := svc.ListRoster(ctx, 1)
		require.NoError(t, err)
		require.Len(t, roster, 2)

		byID := map[int64]model.UserSummary{}
		for _, u := range roster {
			byID[u.UserID] = u
		}
		assert.Equal(t, int64(2), byID[2].Unread)
		assert.Zero(t, byID[3].Unread)
	})

	t.Run("unread drops to zero once history is loaded", func(t *testing.T) {
		store := newFakeStore()
		store.users = []model.User{
			{UserID: 1, Name: "me"},
			{UserID: 2, Name: "alice"},
		}
		msgSvc := NewMessageService(store, store, store, nil, zap.NewNop())
		svc := NewUserService(store, store, zap.NewNop())

		_, err := msgSvc.Send(ctx, 2, 1, "hello", model.KindText, nil)
		require.NoError(t, err)
		_, err = msgSvc.LoadHistory(ctx, 1, 2)
		require.NoError(t, err)

		roster, err := svc.ListRoster(ctx, 1)
		require.NoError(t, err)
		require.Len(t, roster, 1)
		assert.Zero(t, roster[0].Unread)
	})

	t.Run("requires a caller id", func(t *testing.T) {
		svc := NewUserService(newFakeStore(), newFakeStore(), zap.NewNop())
		_, err := svc.ListRoster(ctx, 0)
		assert.ErrorIs(t, err, apperrors.ErrMissingFields)
	})
}

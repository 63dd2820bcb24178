package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Lucifer-FallenAngel/cmoon-chat-appliction/internal/model"
	"github.com/Lucifer-FallenAngel/cmoon-chat-appliction/internal/repo"
	apperrors "github.com/Lucifer-FallenAngel/cmoon-chat-appliction/pkg/errors"
)

type UserService interface {
	// ListRoster returns every other user with the count of their
	// messages to me still waiting in status "sent".
	ListRoster(ctx context.Context, myID int64) ([]model.UserSummary, error)
}

type userService struct {
	users    repo.UserRepository
	messages repo.MessageRepository
	logger   *zap.Logger
}

func NewUserService(users repo.UserRepository, messages repo.MessageRepository, logger *zap.Logger) UserService {
	return &userService{users: users, messages: messages, logger: logger}
}

func (s *userService) ListRoster(ctx context.Context, myID int64) ([]model.UserSummary, error) {
	if myID == 0 {
		return nil, apperrors.ErrMissingFields
	}

	users, err := s.users.ListUsers(ctx, myID)
	if err != nil {
		return nil, apperrors.Unavailable("user store unavailable", err)
	}

	summaries := make([]model.UserSummary, 0, len(users))
	for _, u := range users {
		unread, err := s.messages.CountUnread(ctx, u.UserID, myID)
		if err != nil {
			s.logger.Warn("failed to count unread messages",
				zap.Int64("from", u.UserID),
				zap.Int64("to", myID),
				zap.Error(err),
			)
			unread = 0
		}
		summaries = append(summaries, model.UserSummary{
			UserID:     u.UserID,
			Name:       u.Name,
			ProfilePic: u.ProfilePic,
			Unread:     unread,
		})
	}
	return summaries, nil
}

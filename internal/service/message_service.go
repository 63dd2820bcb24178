package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Lucifer-FallenAngel/cmoon-chat-appliction/internal/model"
	"github.com/Lucifer-FallenAngel/cmoon-chat-appliction/internal/repo"
	apperrors "github.com/Lucifer-FallenAngel/cmoon-chat-appliction/pkg/errors"
)

// Notifier receives lifecycle events for real-time fan-out. The engine
// calls it synchronously; implementations must isolate their own I/O and
// never fail the triggering operation.
type Notifier interface {
	NotifyNewMessage(msg *model.Message)
	NotifyStatusUpdate(senderID, receiverID int64, status string)
	NotifyMessageDeleted(viewerID int64, messageID string)
}

// NopNotifier is used until the hub is attached.
type NopNotifier struct{}

func (NopNotifier) NotifyNewMessage(*model.Message)           {}
func (NopNotifier) NotifyStatusUpdate(int64, int64, string)   {}
func (NopNotifier) NotifyMessageDeleted(int64, string)        {}

type MessageService interface {
	// Send is the single authoritative append operation.
	Send(ctx context.Context, senderID, receiverID int64, body, kind string, fileURL *string) (*model.Message, error)

	// LoadHistory returns the messages between viewer and peer that are
	// visible to viewer, in creation order. Loading is itself evidence of
	// delivery: any "sent" message addressed to viewer moves to
	// "delivered" as a side effect.
	LoadHistory(ctx context.Context, viewerID, peerID int64) ([]model.Message, error)

	// MarkDelivered / MarkRead advance all messages from sender to
	// receiver below the target state. Both report how many messages
	// moved and are idempotent.
	MarkDelivered(ctx context.Context, senderID, receiverID int64) (int64, error)
	MarkRead(ctx context.Context, senderID, receiverID int64) (int64, error)

	// DeleteForViewer hides one message for viewer only.
	DeleteForViewer(ctx context.Context, messageID string, viewerID int64) error

	// ClearConversation hides every current message of the pair's
	// conversation for viewer. No-op when the pair has no conversation.
	ClearConversation(ctx context.Context, viewerID, peerID int64) error
}

type messageService struct {
	conversations repo.ConversationRepository
	messages      repo.MessageRepository
	blocks        repo.BlockRepository
	notifier      Notifier
	logger        *zap.Logger
}

func NewMessageService(
	conversations repo.ConversationRepository,
	messages repo.MessageRepository,
	blocks repo.BlockRepository,
	notifier Notifier,
	logger *zap.Logger,
) MessageService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &messageService{
		conversations: conversations,
		messages:      messages,
		blocks:        blocks,
		notifier:      notifier,
		logger:        logger,
	}
}

func (s *messageService) Send(ctx context.Context, senderID, receiverID int64, body, kind string, fileURL *string) (*model.Message, error) {
	if senderID == 0 || receiverID == 0 {
		return nil, apperrors.ErrMissingFields
	}
	if senderID == receiverID {
		return nil, apperrors.ErrSelfMessage
	}
	if kind == "" {
		kind = model.KindText
	}
	switch kind {
	case model.KindText:
		if body == "" {
			return nil, apperrors.ErrMissingFields
		}
	case model.KindImage, model.KindFile:
		if fileURL == nil || *fileURL == "" {
			return nil, apperrors.ErrMissingFields
		}
	default:
		return nil, apperrors.ErrInvalidPayloadKind
	}

	blocked, err := s.blocks.IsBlocked(ctx, senderID, receiverID)
	if err != nil {
		return nil, apperrors.Unavailable("block check failed", err)
	}
	if blocked {
		return nil, apperrors.ErrUserBlocked
	}

	conv, err := s.conversations.ResolveOrCreate(ctx, senderID, receiverID)
	if err != nil {
		return nil, apperrors.Unavailable("conversation store unavailable", err)
	}

	now := time.Now().UTC()
	msg := &model.Message{
		ConversationID: conv.ID,
		SenderID:       senderID,
		ReceiverID:     receiverID,
		Body:           body,
		MessageType:    kind,
		FileURL:        fileURL,
		Status:         model.StatusSent,
		DeletedFor:     []int64{},
		CreatedAt:      now,
	}
	msg, err = s.messages.Insert(ctx, msg)
	if err != nil {
		return nil, apperrors.Unavailable("message store unavailable", err)
	}

	if err := s.conversations.TouchLastMessage(ctx, conv.ID, now); err != nil {
		// Denormalized metadata only; the message itself is durable.
		s.logger.Warn("failed to bump conversation activity",
			zap.String("conversation_id", conv.ID.Hex()),
			zap.Error(err),
		)
	}

	s.notifier.NotifyNewMessage(msg)
	return msg, nil
}

func (s *messageService) LoadHistory(ctx context.Context, viewerID, peerID int64) ([]model.Message, error) {
	if viewerID == 0 || peerID == 0 {
		return nil, apperrors.ErrMissingFields
	}

	conv, err := s.conversations.FindByPair(ctx, viewerID, peerID)
	if err != nil {
		return nil, apperrors.Unavailable("conversation store unavailable", err)
	}
	if conv == nil {
		return []model.Message{}, nil
	}

	// The viewer pulling history acknowledges delivery of everything the
	// peer sent them. Runs before the read so the returned snapshot shows
	// the transition it caused.
	moved, err := s.messages.MarkDelivered(ctx, peerID, viewerID)
	if err != nil {
		return nil, apperrors.Unavailable("message store unavailable", err)
	}
	if moved > 0 {
		s.notifier.NotifyStatusUpdate(peerID, viewerID, model.StatusDelivered)
	}

	msgs, err := s.messages.ListVisible(ctx, conv.ID, viewerID)
	if err != nil {
		return nil, apperrors.Unavailable("message store unavailable", err)
	}
	return msgs, nil
}

func (s *messageService) MarkDelivered(ctx context.Context, senderID, receiverID int64) (int64, error) {
	if senderID == 0 || receiverID == 0 {
		return 0, apperrors.ErrMissingFields
	}
	moved, err := s.messages.MarkDelivered(ctx, senderID, receiverID)
	if err != nil {
		return 0, apperrors.Unavailable("message store unavailable", err)
	}
	if moved > 0 {
		s.notifier.NotifyStatusUpdate(senderID, receiverID, model.StatusDelivered)
	}
	return moved, nil
}

func (s *messageService) MarkRead(ctx context.Context, senderID, receiverID int64) (int64, error) {
	if senderID == 0 || receiverID == 0 {
		return 0, apperrors.ErrMissingFields
	}
	moved, err := s.messages.MarkRead(ctx, senderID, receiverID)
	if err != nil {
		return 0, apperrors.Unavailable("message store unavailable", err)
	}
	if moved > 0 {
		s.notifier.NotifyStatusUpdate(senderID, receiverID, model.StatusRead)
	}
	return moved, nil
}

func (s *messageService) DeleteForViewer(ctx context.Context, messageID string, viewerID int64) error {
	if messageID == "" || viewerID == 0 {
		return apperrors.ErrMissingFields
	}
	oid, err := primitive.ObjectIDFromHex(messageID)
	if err != nil {
		return apperrors.ErrInvalidMessageID
	}

	if err := s.messages.HideForViewer(ctx, oid, viewerID); err != nil {
		if errors.Is(err, apperrors.ErrMessageNotFound) {
			return err
		}
		return apperrors.Unavailable("message store unavailable", err)
	}

	s.notifier.NotifyMessageDeleted(viewerID, messageID)
	return nil
}

func (s *messageService) ClearConversation(ctx context.Context, viewerID, peerID int64) error {
	if viewerID == 0 || peerID == 0 {
		return apperrors.ErrMissingFields
	}

	conv, err := s.conversations.FindByPair(ctx, viewerID, peerID)
	if err != nil {
		return apperrors.Unavailable("conversation store unavailable", err)
	}
	if conv == nil {
		return nil
	}

	hidden, err := s.messages.HideAllForViewer(ctx, conv.ID, viewerID)
	if err != nil {
		return apperrors.Unavailable("message store unavailable", err)
	}
	s.logger.Info("conversation cleared for viewer",
		zap.String("conversation_id", conv.ID.Hex()),
		zap.Int64("viewer", viewerID),
		zap.Int64("hidden", hidden),
	)
	return nil
}

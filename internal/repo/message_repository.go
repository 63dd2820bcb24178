package repo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/Lucifer-FallenAngel/cmoon-chat-appliction/internal/db"
	"github.com/Lucifer-FallenAngel/cmoon-chat-appliction/internal/model"
	apperrors "github.com/Lucifer-FallenAngel/cmoon-chat-appliction/pkg/errors"
)

var (
	ErrInvalidMessage = errors.New("invalid message: message cannot be nil")
)

type MessageRepository interface {
	// Insert persists a new message and returns it with its id set. The
	// only code path that creates messages.
	Insert(ctx context.Context, msg *model.Message) (*model.Message, error)

	FindByID(ctx context.Context, id string) (*model.Message, error)

	// ListVisible returns the conversation's messages in creation order,
	// excluding those whose visibility set contains viewer.
	ListVisible(ctx context.Context, conversationID primitive.ObjectID, viewer int64) ([]model.Message, error)

	// MarkDelivered advances every "sent" message from sender to receiver
	// to "delivered". Returns the number of messages affected; zero when
	// there was nothing below the target state.
	MarkDelivered(ctx context.Context, senderID, receiverID int64) (int64, error)

	// MarkRead advances every message from sender to receiver that is not
	// yet "read". Same idempotence contract as MarkDelivered.
	MarkRead(ctx context.Context, senderID, receiverID int64) (int64, error)

	// HideForViewer adds viewer to the message's visibility set. No-op
	// when already present.
	HideForViewer(ctx context.Context, id primitive.ObjectID, viewer int64) error

	// HideAllForViewer adds viewer to the visibility set of every message
	// in the conversation. Returns the number of newly hidden messages.
	HideAllForViewer(ctx context.Context, conversationID primitive.ObjectID, viewer int64) (int64, error)

	// CountUnread counts messages from sender to receiver still in
	// status "sent".
	CountUnread(ctx context.Context, senderID, receiverID int64) (int64, error)
}

type messageRepository struct {
	mongoRepo *db.Repository[model.Message]
	logger    *zap.Logger
}

func NewMessageRepository(con *mongo.Database, repo *db.Repository[model.Message], logger *zap.Logger) MessageRepository {
	return &messageRepository{
		mongoRepo: repo,
		logger:    logger,
	}
}

func (m *messageRepository) Insert(ctx context.Context, msg *model.Message) (*model.Message, error) {
	if msg == nil {
		return nil, ErrInvalidMessage
	}

	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	result, err := m.mongoRepo.Create(ctx, *msg)
	if err != nil {
		m.logger.Error("failed to insert message",
			zap.String("conversation_id", msg.ConversationID.Hex()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("insert message: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		msg.ID = oid
	}

	m.logger.Info("message inserted",
		zap.String("message_id", msg.ID.Hex()),
		zap.String("conversation_id", msg.ConversationID.Hex()),
		zap.Int64("sender_id", msg.SenderID),
	)
	return msg, nil
}

func (m *messageRepository) FindByID(ctx context.Context, id string) (*model.Message, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	msg, err := m.mongoRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrMessageNotFound
		}
		if errors.Is(err, primitive.ErrInvalidHex) {
			return nil, apperrors.ErrInvalidMessageID
		}
		return nil, fmt.Errorf("find message: %w", err)
	}
	return msg, nil
}

func (m *messageRepository) ListVisible(ctx context.Context, conversationID primitive.ObjectID, viewer int64) ([]model.Message, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	filter := db.NewFilter().
		Eq("conversation_id", conversationID).
		Ne("deleted_for", viewer).
		Build()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	msgs, err := m.mongoRepo.FindAll(ctx, filter, opts)
	if err != nil {
		m.logger.Error("failed to list messages",
			zap.String("conversation_id", conversationID.Hex()),
			zap.Int64("viewer", viewer),
			zap.Error(err),
		)
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return msgs, nil
}

func (m *messageRepository) MarkDelivered(ctx context.Context, senderID, receiverID int64) (int64, error) {
	// Predicate "status is strictly below delivered" makes concurrent and
	// repeated invocations harmless.
	filter := db.NewFilter().
		Eq("sender_id", senderID).
		Eq("receiver_id", receiverID).
		Eq("status", model.StatusSent).
		Build()
	return m.bulkStatus(ctx, filter, model.StatusDelivered)
}

func (m *messageRepository) MarkRead(ctx context.Context, senderID, receiverID int64) (int64, error) {
	filter := db.NewFilter().
		Eq("sender_id", senderID).
		Eq("receiver_id", receiverID).
		Ne("status", model.StatusRead).
		Build()
	return m.bulkStatus(ctx, filter, model.StatusRead)
}

func (m *messageRepository) bulkStatus(ctx context.Context, filter bson.M, status string) (int64, error) {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	result, err := m.mongoRepo.UpdateMany(ctx, filter, bson.M{"status": status})
	if err != nil {
		m.logger.Error("failed to update message status",
			zap.String("target_status", status),
			zap.Error(err),
		)
		return 0, fmt.Errorf("update status: %w", err)
	}
	return result.ModifiedCount, nil
}

func (m *messageRepository) HideForViewer(ctx context.Context, id primitive.ObjectID, viewer int64) error {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	// $addToSet gives idempotent union semantics; two racing deletions by
	// the same or different viewers commute.
	result, err := m.mongoRepo.UpdateByIDRaw(ctx, id, bson.M{"$addToSet": bson.M{"deleted_for": viewer}})
	if err != nil {
		return fmt.Errorf("hide message: %w", err)
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrMessageNotFound
	}
	return nil
}

func (m *messageRepository) HideAllForViewer(ctx context.Context, conversationID primitive.ObjectID, viewer int64) (int64, error) {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	filter := db.NewFilter().Eq("conversation_id", conversationID).Build()
	result, err := m.mongoRepo.UpdateManyRaw(ctx, filter, bson.M{"$addToSet": bson.M{"deleted_for": viewer}})
	if err != nil {
		m.logger.Error("failed to clear conversation",
			zap.String("conversation_id", conversationID.Hex()),
			zap.Int64("viewer", viewer),
			zap.Error(err),
		)
		return 0, fmt.Errorf("clear conversation: %w", err)
	}
	return result.ModifiedCount, nil
}

func (m *messageRepository) CountUnread(ctx context.Context, senderID, receiverID int64) (int64, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	filter := db.NewFilter().
		Eq("sender_id", senderID).
		Eq("receiver_id", receiverID).
		Eq("status", model.StatusSent).
		Build()
	return m.mongoRepo.Count(ctx, filter)
}

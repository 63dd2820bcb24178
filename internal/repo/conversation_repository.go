package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/Lucifer-FallenAngel/cmoon-chat-appliction/internal/db"
	"github.com/Lucifer-FallenAngel/cmoon-chat-appliction/internal/model"
)

type ConversationRepository interface {
	// ResolveOrCreate returns the single conversation for the unordered
	// pair (a, b), creating it when the pair has never spoken. Safe under
	// concurrent first-contact from both sides.
	ResolveOrCreate(ctx context.Context, a, b int64) (*model.Conversation, error)

	// FindByPair returns the conversation for the pair, or nil when the
	// pair has no history.
	FindByPair(ctx context.Context, a, b int64) (*model.Conversation, error)

	// TouchLastMessage bumps the conversation's last-activity marker.
	TouchLastMessage(ctx context.Context, id primitive.ObjectID, at time.Time) error
}

type conversationRepository struct {
	mongoRepo *db.Repository[model.Conversation]
	logger    *zap.Logger
}

func NewConversationRepository(con *mongo.Database, repo *db.Repository[model.Conversation], logger *zap.Logger) ConversationRepository {
	ctx, cancel := context.WithTimeout(context.Background(), defaultWriteTimeout)
	defer cancel()
	if err := repo.EnsureUniqueIndex(ctx, "pair_key"); err != nil {
		logger.Warn("failed to ensure conversation pair index", zap.Error(err))
	}
	return &conversationRepository{
		mongoRepo: repo,
		logger:    logger,
	}
}

func (r *conversationRepository) ResolveOrCreate(ctx context.Context, a, b int64) (*model.Conversation, error) {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	key := model.PairKey(a, b)
	now := time.Now().UTC()

	// Single round trip: insert-if-absent keyed on the unique pair_key,
	// return the post-image. Two near-simultaneous first sends both land
	// on the same document.
	filter := db.NewFilter().Eq("pair_key", key).Build()
	conv, err := r.mongoRepo.FindOneAndUpsert(ctx, filter, bson.M{
		"pair_key":        key,
		"user1_id":        a,
		"user2_id":        b,
		"created_at":      now,
		"last_message_at": now,
	})
	if err != nil {
		r.logger.Error("failed to resolve conversation",
			zap.String("pair_key", key),
			zap.Error(err),
		)
		return nil, fmt.Errorf("resolve conversation: %w", err)
	}

	return conv, nil
}

func (r *conversationRepository) FindByPair(ctx context.Context, a, b int64) (*model.Conversation, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	filter := db.NewFilter().Eq("pair_key", model.PairKey(a, b)).Build()
	conv, err := r.mongoRepo.FindOne(ctx, filter)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		r.logger.Error("failed to fetch conversation",
			zap.Int64("user_a", a),
			zap.Int64("user_b", b),
			zap.Error(err),
		)
		return nil, fmt.Errorf("fetch conversation: %w", err)
	}
	return conv, nil
}

func (r *conversationRepository) TouchLastMessage(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	_, err := r.mongoRepo.UpdateByIDRaw(ctx, id, bson.M{"$set": bson.M{"last_message_at": at}})
	if err != nil {
		return fmt.Errorf("touch conversation: %w", err)
	}
	return nil
}

package repo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/Lucifer-FallenAngel/cmoon-chat-appliction/internal/db"
	"github.com/Lucifer-FallenAngel/cmoon-chat-appliction/internal/model"
)

type BlockRepository interface {
	// Block creates the directed edge blocker -> blocked. Creating an
	// existing edge is a no-op, not a duplicate.
	Block(ctx context.Context, blockerID, blockedID int64) error

	// Unblock removes the directed edge; removing a missing edge is a
	// no-op.
	Unblock(ctx context.Context, blockerID, blockedID int64) error

	// IsBlocked reports whether an edge exists in either direction.
	IsBlocked(ctx context.Context, a, b int64) (bool, error)

	// Status answers the is-blocked query from me's point of view.
	Status(ctx context.Context, me, other int64) (model.BlockStatus, error)
}

type blockRepository struct {
	mongoRepo *db.Repository[model.Block]
	logger    *zap.Logger
}

func NewBlockRepository(con *mongo.Database, repo *db.Repository[model.Block], logger *zap.Logger) BlockRepository {
	ctx, cancel := context.WithTimeout(context.Background(), defaultWriteTimeout)
	defer cancel()
	if err := repo.EnsureUniqueIndex(ctx, "blocker_id", "blocked_id"); err != nil {
		logger.Warn("failed to ensure block edge index", zap.Error(err))
	}
	return &blockRepository{
		mongoRepo: repo,
		logger:    logger,
	}
}

func (r *blockRepository) Block(ctx context.Context, blockerID, blockedID int64) error {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	filter := db.NewFilter().
		Eq("blocker_id", blockerID).
		Eq("blocked_id", blockedID).
		Build()

	// Upsert against the unique (blocker, blocked) index keeps the edge
	// singular even under concurrent block requests.
	_, err := r.mongoRepo.FindOneAndUpsert(ctx, filter, bson.M{
		"blocker_id": blockerID,
		"blocked_id": blockedID,
		"created_at": time.Now().UTC(),
	})
	if err != nil {
		r.logger.Error("failed to create block edge",
			zap.Int64("blocker_id", blockerID),
			zap.Int64("blocked_id", blockedID),
			zap.Error(err),
		)
		return fmt.Errorf("block user: %w", err)
	}
	return nil
}

func (r *blockRepository) Unblock(ctx context.Context, blockerID, blockedID int64) error {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	filter := db.NewFilter().
		Eq("blocker_id", blockerID).
		Eq("blocked_id", blockedID).
		Build()
	if _, err := r.mongoRepo.Delete(ctx, filter); err != nil {
		return fmt.Errorf("unblock user: %w", err)
	}
	return nil
}

func (r *blockRepository) IsBlocked(ctx context.Context, a, b int64) (bool, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	filter := db.NewFilter().Or(
		bson.M{"blocker_id": a, "blocked_id": b},
		bson.M{"blocker_id": b, "blocked_id": a},
	).Build()

	blocked, err := r.mongoRepo.Exists(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("check block: %w", err)
	}
	return blocked, nil
}

func (r *blockRepository) Status(ctx context.Context, me, other int64) (model.BlockStatus, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	byMe, err := r.mongoRepo.Exists(ctx, db.NewFilter().
		Eq("blocker_id", me).
		Eq("blocked_id", other).
		Build())
	if err != nil {
		return model.BlockStatus{}, fmt.Errorf("check block: %w", err)
	}

	byThem, err := r.mongoRepo.Exists(ctx, db.NewFilter().
		Eq("blocker_id", other).
		Eq("blocked_id", me).
		Build())
	if err != nil {
		return model.BlockStatus{}, fmt.Errorf("check block: %w", err)
	}

	return model.BlockStatus{
		Blocked:     byMe || byThem,
		BlockedByMe: byMe,
	}, nil
}

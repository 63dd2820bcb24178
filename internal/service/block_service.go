package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Lucifer-FallenAngel/cmoon-chat-appliction/internal/model"
	"github.com/Lucifer-FallenAngel/cmoon-chat-appliction/internal/repo"
	apperrors "github.com/Lucifer-FallenAngel/cmoon-chat-appliction/pkg/errors"
)

// BlockService is the single block-guard capability: everything that
// needs a "may these two message each other" answer goes through here.
type BlockService interface {
	Block(ctx context.Context, blockerID, blockedID int64) error
	Unblock(ctx context.Context, blockerID, blockedID int64) error
	Status(ctx context.Context, me, other int64) (model.BlockStatus, error)
}

type blockService struct {
	blocks repo.BlockRepository
	logger *zap.Logger
}

func NewBlockService(blocks repo.BlockRepository, logger *zap.Logger) BlockService {
	return &blockService{blocks: blocks, logger: logger}
}

func (s *blockService) Block(ctx context.Context, blockerID, blockedID int64) error {
	if blockerID == 0 || blockedID == 0 {
		return apperrors.ErrMissingFields
	}
	if blockerID == blockedID {
		return apperrors.InvalidArg("cannot block yourself")
	}
	if err := s.blocks.Block(ctx, blockerID, blockedID); err != nil {
		return apperrors.Unavailable("block store unavailable", err)
	}
	s.logger.Info("user blocked",
		zap.Int64("blocker_id", blockerID),
		zap.Int64("blocked_id", blockedID),
	)
	return nil
}

func (s *blockService) Unblock(ctx context.Context, blockerID, blockedID int64) error {
	if blockerID == 0 || blockedID == 0 {
		return apperrors.ErrMissingFields
	}
	if err := s.blocks.Unblock(ctx, blockerID, blockedID); err != nil {
		return apperrors.Unavailable("block store unavailable", err)
	}
	return nil
}

func (s *blockService) Status(ctx context.Context, me, other int64) (model.BlockStatus, error) {
	if me == 0 || other == 0 {
		return model.BlockStatus{}, apperrors.ErrMissingFields
	}
	status, err := s.blocks.Status(ctx, me, other)
	if err != nil {
		return model.BlockStatus{}, apperrors.Unavailable("block store unavailable", err)
	}
	return status, nil
}

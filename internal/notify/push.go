package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Lucifer-FallenAngel/cmoon-chat-appliction/internal/metrics"
	"github.com/Lucifer-FallenAngel/cmoon-chat-appliction/internal/model"
)

const (
	// Redis key prefixes
	queuePrefix = "notify:queue:" // notify:queue:{token} - pending notifications
	wakePrefix  = "notify:wake:"  // notify:wake:{token}  - pub/sub wakeup channel

	queueTTL      = 7 * 24 * time.Hour
	previewLength = 120
)

// Notification is the payload handed to the offline-notification
// collaborator.
type Notification struct {
	Recipient string `json:"recipient"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Kind      string `json:"kind"`
	SenderID  int64  `json:"sender_id"`
}

// Pusher queues offline notifications in Redis for the delivery workers.
// Everything here is best-effort: failures are logged and swallowed, and
// the caller is never blocked on delivery.
type Pusher struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func NewPusher(rdb *redis.Client, logger *zap.Logger) *Pusher {
	return &Pusher{rdb: rdb, logger: logger}
}

// PushNewMessage enqueues a truncated preview of msg for the receiver's
// registered device.
func (p *Pusher) PushNewMessage(ctx context.Context, user *model.User, msg *model.Message) {
	n := Notification{
		Recipient: user.PushToken,
		Title:     "New message",
		Kind:      msg.MessageType,
		SenderID:  msg.SenderID,
		Body:      preview(msg),
	}

	data, err := json.Marshal(n)
	if err != nil {
		p.logger.Error("failed to marshal notification", zap.Error(err))
		metrics.OfflinePushFail.Inc()
		return
	}

	queueKey := queuePrefix + user.PushToken
	if err := p.rdb.RPush(ctx, queueKey, data).Err(); err != nil {
		p.logger.Warn("offline notification enqueue failed",
			zap.Int64("receiver_id", msg.ReceiverID),
			zap.Error(err),
		)
		metrics.OfflinePushFail.Inc()
		return
	}
	p.rdb.Expire(ctx, queueKey, queueTTL)

	// Wake any delivery worker listening for this device.
	p.rdb.Publish(ctx, wakePrefix+user.PushToken, data)

	metrics.OfflinePushOK.Inc()
	p.logger.Debug("offline notification enqueued",
		zap.Int64("receiver_id", msg.ReceiverID),
		zap.String("kind", msg.MessageType),
	)
}

func preview(msg *model.Message) string {
	switch msg.MessageType {
	case model.KindImage:
		return "sent you an image"
	case model.KindFile:
		return "sent you a file"
	}
	runes := []rune(msg.Body)
	if len(runes) > previewLength {
		return string(runes[:previewLength]) + "…"
	}
	return msg.Body
}

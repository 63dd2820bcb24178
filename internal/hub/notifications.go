package hub

import (
	"context"

	"go.uber.org/zap"

	"github.com/Lucifer-FallenAngel/cmoon-chat-appliction/internal/event"
	"github.com/Lucifer-FallenAngel/cmoon-chat-appliction/internal/metrics"
	"github.com/Lucifer-FallenAngel/cmoon-chat-appliction/internal/model"
)

// OfflinePusher hands a new-message notification to the offline
// collaborator. Best-effort: implementations log their own failures.
type OfflinePusher interface {
	PushNewMessage(ctx context.Context, user *model.User, msg *model.Message)
}

// -----------------------------------------------------------------
// Notification Methods - the hub is the engine's Notifier
// -----------------------------------------------------------------

// NotifyNewMessage routes a freshly persisted message: live push when
// the receiver is present, offline hand-off otherwise. Never returns an
// error; durability for missed events is the client re-polling history.
func (h *Hub) NotifyNewMessage(msg *model.Message) {
	if c, ok := h.registry.Lookup(msg.ReceiverID); ok {
		h.sendToClient(c, event.EventNewMessageArrived, event.NewMessageArrived{
			SenderID:   msg.SenderID,
			ReceiverID: msg.ReceiverID,
		})
		return
	}

	metrics.WSPushOffline.Inc()

	if h.pusher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(h.ctx, sendTimeout)
	defer cancel()

	user, err := h.users.GetUser(ctx, msg.ReceiverID)
	if err != nil {
		h.logger.Warn("offline hand-off: receiver lookup failed",
			zap.Int64("receiver_id", msg.ReceiverID),
			zap.Error(err),
		)
		return
	}
	if user == nil || user.PushToken == "" {
		// No offline-notification address registered; nothing to do.
		return
	}
	h.pusher.PushNewMessage(ctx, user, msg)
}

// NotifyStatusUpdate tells the original sender that their messages to
// receiver reached the given state.
func (h *Hub) NotifyStatusUpdate(senderID, receiverID int64, status string) {
	c, ok := h.registry.Lookup(senderID)
	if !ok {
		return
	}
	h.sendToClient(c, event.EventMessageStatusUpdate, event.MessageStatusUpdate{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     status,
	})
}

// NotifyMessageDeleted echoes a delete-for-me to that viewer's own
// connection; the other participant is never told.
func (h *Hub) NotifyMessageDeleted(viewerID int64, messageID string) {
	h.pushToUser(viewerID, event.EventMessageDeletedForMe, event.MessageDeletedForMe{
		MessageID: messageID,
	})
}

// broadcastOnlineUsers pushes the full roster to every connection after
// a presence change. Full-roster rather than a diff keeps client state
// reconciliation trivial.
func (h *Hub) broadcastOnlineUsers() {
	ev, err := event.Marshal(event.EventOnlineUsers, event.OnlineUsers{UserIDs: h.registry.Snapshot()})
	if err != nil {
		h.logger.Error("failed to marshal roster", zap.Error(err))
		return
	}

	for userID, client := range h.registry.Entries() {
		if !client.SafeSend(ev, sendTimeout) {
			h.logger.Debug("roster push dropped", zap.Int64("user_id", userID))
			metrics.WSPushDropped.Inc()
		}
	}
}

func (h *Hub) pushToUser(userID int64, eventName string, payload any) {
	c, ok := h.registry.Lookup(userID)
	if !ok {
		return
	}
	h.sendToClient(c, eventName, payload)
}

func (h *Hub) sendToClient(c *Client, eventName string, payload any) {
	ev, err := event.Marshal(eventName, payload)
	if err != nil {
		h.logger.Error("failed to marshal event", zap.String("event", eventName), zap.Error(err))
		return
	}
	if !c.SafeSend(ev, sendTimeout) {
		h.logger.Warn("event push dropped",
			zap.String("event", eventName),
			zap.String("client_id", c.ID),
		)
		metrics.WSPushDropped.Inc()
		return
	}
	metrics.WSPushOK.Inc()
}

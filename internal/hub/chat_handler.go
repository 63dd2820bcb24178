package hub

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/Lucifer-FallenAngel/cmoon-chat-appliction/internal/event"
)

// handleEvent dispatches one inbound frame from a live connection.
// Signals that change message state go through the lifecycle engine,
// which in turn notifies interested parties back through this hub;
// notify-only signals are routed directly.
func (h *Hub) handleEvent(ev event.WsEvent, c *Client) {
	switch ev.Event {
	case event.EventUserOnline:
		var p event.UserOnline
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			h.logger.Warn("malformed user-online payload", zap.String("client_id", c.ID), zap.Error(err))
			return
		}
		h.setOnline(p.UserID, c)

	case event.EventSendMessage:
		// Pass-through wakeup only: persistence happened over REST. This
		// signal never advances delivery state.
		var p event.SendMessage
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			h.logger.Warn("malformed send-message payload", zap.String("client_id", c.ID), zap.Error(err))
			return
		}
		if p.ReceiverID == 0 {
			return
		}
		h.pushToUser(p.ReceiverID, event.EventNewMessageArrived, event.NewMessageArrived{
			SenderID:   p.SenderID,
			ReceiverID: p.ReceiverID,
		})

	case event.EventChatOpened:
		var p event.StatusSignal
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			h.logger.Warn("malformed chat-opened payload", zap.String("client_id", c.ID), zap.Error(err))
			return
		}
		if h.engine == nil {
			h.logger.Error("chat-opened before engine attach", zap.String("client_id", c.ID))
			return
		}
		if _, err := h.engine.MarkDelivered(h.ctx, p.SenderID, p.ReceiverID); err != nil {
			h.logger.Error("chat-opened transition failed",
				zap.Int64("sender_id", p.SenderID),
				zap.Int64("receiver_id", p.ReceiverID),
				zap.Error(err),
			)
		}

	case event.EventMessageRead:
		var p event.StatusSignal
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			h.logger.Warn("malformed message-read payload", zap.String("client_id", c.ID), zap.Error(err))
			return
		}
		if h.engine == nil {
			h.logger.Error("message-read before engine attach", zap.String("client_id", c.ID))
			return
		}
		if _, err := h.engine.MarkRead(h.ctx, p.SenderID, p.ReceiverID); err != nil {
			h.logger.Error("message-read transition failed",
				zap.Int64("sender_id", p.SenderID),
				zap.Int64("receiver_id", p.ReceiverID),
				zap.Error(err),
			)
		}

	case event.EventDeleteForMe:
		// Companion to the REST delete: only reflects the hide back to
		// that same user's connection.
		var p event.DeleteForMe
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			h.logger.Warn("malformed delete-for-me payload", zap.String("client_id", c.ID), zap.Error(err))
			return
		}
		if p.MessageID == "" || p.UserID == 0 {
			return
		}
		h.pushToUser(p.UserID, event.EventMessageDeletedForMe, event.MessageDeletedForMe{
			MessageID: p.MessageID,
		})

	default:
		h.logger.Warn("unknown event type", zap.String("event", ev.Event), zap.String("client_id", c.ID))
	}
}

package event

// Chat Event Types - Client to Server
const (
	// EventUserOnline - client announces which user owns this connection
	EventUserOnline = "user-online"

	// EventSendMessage - notify-only companion to POST /send; routes a
	// wakeup to the receiver, never persists anything
	EventSendMessage = "send-message"

	// EventChatOpened - receiver opened the chat; marks sent -> delivered
	EventChatOpened = "chat-opened"

	// EventMessageRead - receiver read the chat; marks -> read
	EventMessageRead = "message-read"

	// EventDeleteForMe - companion to POST /delete-for-me; echoes the
	// deletion back to that user's other views
	EventDeleteForMe = "delete-for-me"
)

// Chat Event Types - Server to Client
const (
	// EventOnlineUsers - full roster of online user ids, pushed to every
	// connection after each presence change
	EventOnlineUsers = "online-users"

	// EventNewMessageArrived - receiver has a new message waiting
	EventNewMessageArrived = "new-message-arrived"

	// EventMessageStatusUpdate - delivery state of a sender's messages
	// changed
	EventMessageStatusUpdate = "message-status-update"

	// EventMessageDeletedForMe - a message was hidden for this user
	EventMessageDeletedForMe = "message-deleted-for-me"
)

// Inbound payloads.

type UserOnline struct {
	UserID int64 `json:"userId"`
}

type SendMessage struct {
	ConversationID string `json:"conversation_id"`
	SenderID       int64  `json:"sender_id"`
	ReceiverID     int64  `json:"receiver_id"`
}

// StatusSignal is shared by chat-opened and message-read: senderId is the
// author of the affected messages, receiverId the user acknowledging them.
type StatusSignal struct {
	SenderID   int64 `json:"senderId"`
	ReceiverID int64 `json:"receiverId"`
}

type DeleteForMe struct {
	MessageID string `json:"messageId"`
	UserID    int64  `json:"userId"`
}

// Outbound payloads.

type OnlineUsers struct {
	UserIDs []int64 `json:"userIds"`
}

type NewMessageArrived struct {
	SenderID   int64 `json:"sender_id"`
	ReceiverID int64 `json:"receiver_id"`
}

type MessageStatusUpdate struct {
	SenderID   int64  `json:"senderId"`
	ReceiverID int64  `json:"receiverId"`
	Status     string `json:"status"`
}

type MessageDeletedForMe struct {
	MessageID string `json:"messageId"`
}

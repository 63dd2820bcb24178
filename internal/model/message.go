package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message delivery states. Transitions are monotonic:
// sent -> delivered -> read.
const (
	StatusSent      = "sent"
	StatusDelivered = "delivered"
	StatusRead      = "read"
)

// Payload kinds.
const (
	KindText  = "text"
	KindImage = "image"
	KindFile  = "file"
)

// Message represents a chat message in MongoDB. The record itself is
// shared between both participants; DeletedFor holds the user ids for
// whom it is hidden, so visibility is decided per viewer without ever
// removing the document.
type Message struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ConversationID primitive.ObjectID `json:"conversationId" bson:"conversation_id"`
	SenderID       int64              `json:"senderId" bson:"sender_id"`
	ReceiverID     int64              `json:"receiverId" bson:"receiver_id"`
	Body           string             `json:"message" bson:"body"`
	MessageType    string             `json:"messageType" bson:"message_type"`
	FileURL        *string            `json:"fileUrl" bson:"file_url"`
	Status         string             `json:"status" bson:"status"`
	DeletedFor     []int64            `json:"-" bson:"deleted_for"`
	CreatedAt      time.Time          `json:"createdAt" bson:"created_at"`
}

// HiddenFor reports whether the message is hidden for the given viewer.
func (m *Message) HiddenFor(viewer int64) bool {
	for _, id := range m.DeletedFor {
		if id == viewer {
			return true
		}
	}
	return false
}

// ErrorPayload represents an error response sent to client via WebSocket
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

package model

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Conversation is the unique container for all messages exchanged
// between one unordered pair of users. PairKey is the canonical form of
// the pair and carries a unique index, so at most one document can ever
// exist per pair regardless of which side created it first.
type Conversation struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	User1ID       int64              `json:"user1Id" bson:"user1_id"`
	User2ID       int64              `json:"user2Id" bson:"user2_id"`
	PairKey       string             `json:"-" bson:"pair_key"`
	CreatedAt     time.Time          `json:"createdAt" bson:"created_at"`
	LastMessageAt time.Time          `json:"lastMessageAt" bson:"last_message_at"`
}

// PairKey returns the order-independent key for a user pair.
func PairKey(a, b int64) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

// Peer returns the other participant for the given viewer.
func (c *Conversation) Peer(viewer int64) int64 {
	if c.User1ID == viewer {
		return c.User2ID
	}
	return c.User1ID
}

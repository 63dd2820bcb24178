package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Block is a directed edge: blocker has blocked blocked. Messaging is
// denied when an edge exists in either direction between two users.
type Block struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	BlockerID int64              `json:"blockerId" bson:"blocker_id"`
	BlockedID int64              `json:"blockedId" bson:"blocked_id"`
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`
}

// BlockStatus is the answer to "is messaging blocked between me and
// other, and was it me who blocked".
type BlockStatus struct {
	Blocked     bool `json:"blocked"`
	BlockedByMe bool `json:"blockedByMe"`
}

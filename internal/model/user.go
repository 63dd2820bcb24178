package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a user document in MongoDB. Users are created at
// registration, which lives outside this service; the chat core only
// reads them.
type User struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID     int64              `json:"userId" bson:"user_id"`
	Name       string             `json:"name" bson:"name"`
	ProfilePic string             `json:"profilePic" bson:"profile_pic"`
	// PushToken is the offline-notification address. Empty when the user
	// never registered a device.
	PushToken string     `json:"-" bson:"push_token"`
	LastSeen  *time.Time `json:"lastSeen" bson:"last_seen"`
	CreatedAt time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt *time.Time `json:"updatedAt" bson:"updated_at"`
}

// UserSummary is the roster entry returned by the user listing, carrying
// the number of messages from that user still in status "sent".
type UserSummary struct {
	UserID     int64  `json:"id"`
	Name       string `json:"name"`
	ProfilePic string `json:"profilePic"`
	Unread     int64  `json:"unread"`
}

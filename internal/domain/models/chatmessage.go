// internal/domain/models/chatmessage.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatMessage is one entry in a group's chat channel. Messages are
// append-only, ordered by CreatedAt, and never edited or deleted.
type ChatMessage struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	GroupID   primitive.ObjectID `bson:"group_id" json:"group_id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Content   string             `bson:"content" json:"content"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Auth methods a user account can carry.
const (
	AuthPassword = "password"
	AuthGoogle   = "google"
)

// User represents an account in CollabHub. Group membership is not
// embedded here; use the group_members collection to discover a
// user's groups.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName   string             `bson:"full_name" json:"name"`
	FullNameCI string             `bson:"full_name_ci" json:"-"` // lowercase, diacritics-stripped
	Email      string             `bson:"email" json:"email"`
	AvatarURL  string             `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`

	AuthMethod   string `bson:"auth_method" json:"-"` // "password" | "google"
	PasswordHash string `bson:"password_hash,omitempty" json:"-"`

	Status string `bson:"status" json:"-"` // "active" | "disabled"

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

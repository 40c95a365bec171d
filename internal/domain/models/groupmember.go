// internal/domain/models/groupmember.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user can hold within a group.
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleMember    = "member"
)

// ValidRole reports whether role is one of the three membership roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleModerator || role == RoleMember
}

// GroupMember is the authoritative join between users and groups.
// Exactly one document per (group_id, user_id); role is a scalar.
// Any group with members has at least one admin (the creator).
type GroupMember struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GroupID  primitive.ObjectID `bson:"group_id" json:"group_id"`
	UserID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	Role     string             `bson:"role" json:"role"` // "admin" | "moderator" | "member"
	JoinedAt time.Time          `bson:"joined_at" json:"joined_at"`
}

// internal/app/policy/grouppolicy/grouppolicy.go
package grouppolicy

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/collabhub/internal/domain/models"
)

var (
	// ErrNotAdmin is returned when a non-admin attempts a management action.
	ErrNotAdmin = errors.New("requires admin role in this group")

	// ErrLastAdmin is returned when a change would leave the group with
	// no admin at all.
	ErrLastAdmin = errors.New("group must keep at least one admin")
)

// IsMember reports whether the given user belongs to the given group
// according to the authoritative group_members collection.
func IsMember(ctx context.Context, db *mongo.Database, groupID, userID primitive.ObjectID) (bool, error) {
	c := db.Collection("group_members")
	n, err := c.CountDocuments(ctx, bson.M{
		"group_id": groupID,
		"user_id":  userID,
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// IsAdmin reports whether the given user is an admin of the given group.
func IsAdmin(ctx context.Context, db *mongo.Database, groupID, userID primitive.ObjectID) (bool, error) {
	c := db.Collection("group_members")
	n, err := c.CountDocuments(ctx, bson.M{
		"group_id": groupID,
		"user_id":  userID,
		"role":     models.RoleAdmin,
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CanManage reports whether role grants management rights (invite,
// remove, change roles) within a group. Only admins manage.
func CanManage(role string) bool {
	return role == models.RoleAdmin
}

// ValidateRoleChange enforces the last-admin invariant for a role
// update. targetRole is the member's current role, newRole the
// requested one, adminCount the group's current number of admins.
func ValidateRoleChange(targetRole, newRole string, adminCount int64) error {
	if !models.ValidRole(newRole) {
		return errors.New("unknown role: " + newRole)
	}
	if targetRole == models.RoleAdmin && newRole != models.RoleAdmin && adminCount <= 1 {
		return ErrLastAdmin
	}
	return nil
}

// ValidateRemoval enforces the last-admin invariant for a member removal.
func ValidateRemoval(targetRole string, adminCount int64) error {
	if targetRole == models.RoleAdmin && adminCount <= 1 {
		return ErrLastAdmin
	}
	return nil
}

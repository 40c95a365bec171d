// Package groupdirectory provides the read-only query behind the
// signed-in user's group directory.
package groupdirectory

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/collabhub/internal/domain/models"
)

// DirectoryItem is one group on the user's directory page, enriched
// with counts and the viewer's own standing in the group.
type DirectoryItem struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	MemberCount  int                `bson:"member_count" json:"member_count"`
	ProjectCount int                `bson:"project_count" json:"project_count"`
	Role         string             `bson:"role" json:"role"`
	IsAdmin      bool               `bson:"is_admin" json:"is_admin"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}

// ListForUser returns every group the user belongs to, with member and
// project counts, sorted by group name. A single aggregation starting
// from the user's memberships keeps this at one round trip.
func ListForUser(ctx context.Context, db *mongo.Database, userID primitive.ObjectID) ([]DirectoryItem, error) {
	pipe := []bson.M{
		{"$match": bson.M{"user_id": userID}},

		// Join the group document.
		{"$lookup": bson.M{
			"from":         "groups",
			"localField":   "group_id",
			"foreignField": "_id",
			"as":           "group",
		}},
		{"$unwind": "$group"},

		// Count all members of the group.
		{"$lookup": bson.M{
			"from": "group_members",
			"let":  bson.M{"gid": "$group_id"},
			"pipeline": []bson.M{
				{"$match": bson.M{"$expr": bson.M{"$eq": []string{"$group_id", "$$gid"}}}},
				{"$count": "count"},
			},
			"as": "members",
		}},

		// Count the group's projects.
		{"$lookup": bson.M{
			"from": "projects",
			"let":  bson.M{"gid": "$group_id"},
			"pipeline": []bson.M{
				{"$match": bson.M{"$expr": bson.M{"$eq": []string{"$group_id", "$$gid"}}}},
				{"$count": "count"},
			},
			"as": "projects",
		}},

		{"$project": bson.M{
			"_id":         "$group._id",
			"name":        "$group.name",
			"name_ci":     "$group.name_ci",
			"description": "$group.description",
			"created_at":  "$group.created_at",
			"role":        1,
			"is_admin":    bson.M{"$eq": []string{"$role", models.RoleAdmin}},
			"member_count": bson.M{"$ifNull": []interface{}{
				bson.M{"$arrayElemAt": []interface{}{"$members.count", 0}},
				0,
			}},
			"project_count": bson.M{"$ifNull": []interface{}{
				bson.M{"$arrayElemAt": []interface{}{"$projects.count", 0}},
				0,
			}},
		}},

		{"$sort": bson.M{"name_ci": 1, "_id": 1}},
	}

	cur, err := db.Collection("group_members").Aggregate(ctx, pipe)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var items []DirectoryItem
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// internal/app/store/memberships/membershipstore.go
package membershipstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/collabhub/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("group_members")}
}

var (
	errBadRole = errors.New(`role must be "admin", "moderator", or "member"`)

	ErrDuplicateMembership = errors.New("user is already a member of this group")
	ErrMembershipNotFound  = errors.New("membership not found")
)

// Add creates a membership after validating the role. The unique index
// on (user_id, group_id) turns concurrent duplicates into
// ErrDuplicateMembership.
func (s *Store) Add(ctx context.Context, groupID, userID primitive.ObjectID, role string) error {
	if !models.ValidRole(role) {
		return errBadRole
	}

	doc := models.GroupMember{
		ID:       primitive.NewObjectID(),
		GroupID:  groupID,
		UserID:   userID,
		Role:     role,
		JoinedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, doc); err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateMembership
		}
		return err
	}
	return nil
}

// MembershipEntry represents a user to add to a group.
type MembershipEntry struct {
	UserID primitive.ObjectID
	Role   string
}

// AddBatchResult contains counts from a batch membership add operation.
type AddBatchResult struct {
	Added      int
	Duplicates int
}

// AddBatch adds multiple memberships in a single batch operation.
// Duplicates are silently counted (not treated as errors), so inviting
// an existing member is idempotent.
func (s *Store) AddBatch(ctx context.Context, groupID primitive.ObjectID, entries []MembershipEntry) (AddBatchResult, error) {
	if len(entries) == 0 {
		return AddBatchResult{}, nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(entries))
	for _, e := range entries {
		if !models.ValidRole(e.Role) {
			return AddBatchResult{}, errBadRole
		}
		docs = append(docs, models.GroupMember{
			ID:       primitive.NewObjectID(),
			GroupID:  groupID,
			UserID:   e.UserID,
			Role:     e.Role,
			JoinedAt: now,
		})
	}

	// ordered:false so all inserts are attempted even when some collide.
	opts := options.InsertMany().SetOrdered(false)
	result, err := s.c.InsertMany(ctx, docs, opts)

	added := 0
	if result != nil {
		added = len(result.InsertedIDs)
	}
	duplicates := len(entries) - added

	if err != nil {
		if bulkErr, ok := err.(mongo.BulkWriteException); ok {
			for _, we := range bulkErr.WriteErrors {
				if we.Code != 11000 {
					return AddBatchResult{Added: added, Duplicates: duplicates}, err
				}
			}
			// All failures were duplicate keys.
			return AddBatchResult{Added: added, Duplicates: duplicates}, nil
		}
		return AddBatchResult{Added: added, Duplicates: duplicates}, err
	}

	return AddBatchResult{Added: added, Duplicates: duplicates}, nil
}

// UpdateRole changes the role on an existing membership. Only the role
// field is touched; joined_at stays at its original value.
func (s *Store) UpdateRole(ctx context.Context, groupID, userID primitive.ObjectID, role string) error {
	if !models.ValidRole(role) {
		return errBadRole
	}

	res, err := s.c.UpdateOne(ctx,
		bson.M{"group_id": groupID, "user_id": userID},
		bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrMembershipNotFound
	}
	return nil
}

// Remove deletes the membership document for (groupID, userID).
func (s *Store) Remove(ctx context.Context, groupID, userID primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"group_id": groupID, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrMembershipNotFound
	}
	return nil
}

// Get returns the membership for (groupID, userID).
func (s *Store) Get(ctx context.Context, groupID, userID primitive.ObjectID) (models.GroupMember, error) {
	var m models.GroupMember
	err := s.c.FindOne(ctx, bson.M{"group_id": groupID, "user_id": userID}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return models.GroupMember{}, ErrMembershipNotFound
	}
	if err != nil {
		return models.GroupMember{}, err
	}
	return m, nil
}

// GetRole returns the user's role in the group, or ErrMembershipNotFound.
func (s *Store) GetRole(ctx context.Context, groupID, userID primitive.ObjectID) (string, error) {
	m, err := s.Get(ctx, groupID, userID)
	if err != nil {
		return "", err
	}
	return m.Role, nil
}

// CountByGroup returns the count of memberships for a group, optionally
// filtered by role. If role is empty, counts all memberships.
func (s *Store) CountByGroup(ctx context.Context, groupID primitive.ObjectID, role string) (int64, error) {
	filter := bson.M{"group_id": groupID}
	if role != "" {
		filter["role"] = role
	}
	return s.c.CountDocuments(ctx, filter)
}

// MemberRecord is a membership joined with the member's profile, as
// shown on the group's member list.
type MemberRecord struct {
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	AvatarURL string             `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`
	Role      string             `bson:"role" json:"role"`
	JoinedAt  time.Time          `bson:"joined_at" json:"joined_at"`
}

// ListMembers returns the group's members with their user profiles,
// sorted by join time. Memberships whose user document has been
// removed are dropped by the join.
func (s *Store) ListMembers(ctx context.Context, groupID primitive.ObjectID) ([]MemberRecord, error) {
	cur, err := s.c.Aggregate(ctx, []bson.M{
		{"$match": bson.M{"group_id": groupID}},
		{"$lookup": bson.M{
			"from":         "users",
			"localField":   "user_id",
			"foreignField": "_id",
			"as":           "user",
		}},
		{"$unwind": "$user"},
		{"$project": bson.M{
			"user_id":    1,
			"role":       1,
			"joined_at":  1,
			"name":       "$user.full_name",
			"email":      "$user.email",
			"avatar_url": "$user.avatar_url",
		}},
		{"$sort": bson.M{"joined_at": 1, "user_id": 1}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var records []MemberRecord
	if err := cur.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteByGroup removes all memberships for a group.
// Returns the number of documents deleted.
func (s *Store) DeleteByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

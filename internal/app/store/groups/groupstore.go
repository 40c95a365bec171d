// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/collabhub/internal/app/system/txn"
	"github.com/dalemusser/collabhub/internal/domain/models"
)

type Store struct {
	c       *mongo.Collection
	members *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:       db.Collection("groups"),
		members: db.Collection("group_members"),
	}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// CreateWithOwner inserts a group and the owner's admin membership as
// one atomic unit. A group must never exist without an admin, so the
// two writes go through a transaction; on deployments without
// transaction support (standalone mongod) it falls back to sequential
// inserts with a compensating delete if the membership write fails.
func (s *Store) CreateWithOwner(ctx context.Context, client *mongo.Client, g models.Group) (models.Group, error) {
	now := time.Now().UTC()
	g.ID = primitive.NewObjectID()
	g.NameCI = text.Fold(g.Name)
	g.CreatedAt = now
	g.UpdatedAt = now

	membership := models.GroupMember{
		ID:       primitive.NewObjectID(),
		GroupID:  g.ID,
		UserID:   g.OwnerID,
		Role:     models.RoleAdmin,
		JoinedAt: now,
	}

	err := txn.WithTransaction(ctx, client, func(sc mongo.SessionContext) error {
		if _, err := s.c.InsertOne(sc, g); err != nil {
			return err
		}
		if _, err := s.members.InsertOne(sc, membership); err != nil {
			return err
		}
		return nil
	})
	if err == nil {
		return g, nil
	}
	if !txn.IsNotSupported(err) {
		return models.Group{}, err
	}

	// Fallback: sequential writes with compensation.
	if _, err := s.c.InsertOne(ctx, g); err != nil {
		return models.Group{}, err
	}
	if _, err := s.members.InsertOne(ctx, membership); err != nil {
		_, _ = s.c.DeleteOne(ctx, bson.M{"_id": g.ID})
		return models.Group{}, err
	}
	return g, nil
}

// UpdateInfo changes a group's name and description. An empty name
// leaves the current name alone; the description may be cleared.
func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, name, desc string) error {
	set := bson.M{
		"description": desc,
		"updated_at":  time.Now().UTC(),
	}
	if strings.TrimSpace(name) != "" {
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// Delete removes a group by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

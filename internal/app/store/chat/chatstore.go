// internal/app/store/chat/chatstore.go
package chatstore

import (
	"context"
	"time"

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
	return &Store{c: db.Collection("chat_messages")}
}

// Insert appends a message to the group's channel. Content is stored
// exactly as given; trimming and sanitizing happen in the handler
// before the message reaches the store.
func (s *Store) Insert(ctx context.Context, groupID, userID primitive.ObjectID, content string) (models.ChatMessage, error) {
	m := models.ChatMessage{
		ID:        primitive.NewObjectID(),
		GroupID:   groupID,
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.ChatMessage{}, err
	}
	return m, nil
}

// MessageRecord is a chat message joined with the sender's profile,
// the shape delivered to clients over both REST and the websocket feed.
type MessageRecord struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	GroupID    primitive.ObjectID `bson:"group_id" json:"group_id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	UserName   string             `bson:"user_name" json:"user_name"`
	UserAvatar string             `bson:"user_avatar,omitempty" json:"user_avatar,omitempty"`
	Content    string             `bson:"content" json:"content"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

func lookupPipeline(match bson.M) []bson.M {
	return []bson.M{
		{"$match": match},
		{"$lookup": bson.M{
			"from":         "users",
			"localField":   "user_id",
			"foreignField": "_id",
			"as":           "user",
		}},
		{"$unwind": bson.M{"path": "$user", "preserveNullAndEmptyArrays": true}},
		{"$project": bson.M{
			"_id":         1,
			"group_id":    1,
			"user_id":     1,
			"content":     1,
			"created_at":  1,
			"user_name":   "$user.full_name",
			"user_avatar": "$user.avatar_url",
		}},
		{"$sort": bson.M{"created_at": 1, "_id": 1}},
	}
}

// GetMessage returns one message with its sender profile. The feed
// calls this for every insert event so clients always receive the
// joined shape, never a bare row.
func (s *Store) GetMessage(ctx context.Context, id primitive.ObjectID) (MessageRecord, error) {
	cur, err := s.c.Aggregate(ctx, lookupPipeline(bson.M{"_id": id}))
	if err != nil {
		return MessageRecord{}, err
	}
	defer cur.Close(ctx)

	var records []MessageRecord
	if err := cur.All(ctx, &records); err != nil {
		return MessageRecord{}, err
	}
	if len(records) == 0 {
		return MessageRecord{}, mongo.ErrNoDocuments
	}
	return records[0], nil
}

// ListByGroup returns the group's messages in chronological order.
func (s *Store) ListByGroup(ctx context.Context, groupID primitive.ObjectID) ([]MessageRecord, error) {
	cur, err := s.c.Aggregate(ctx, lookupPipeline(bson.M{"group_id": groupID}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var records []MessageRecord
	if err := cur.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteByGroup removes every message in the group's channel. Used
// when a group is deleted.
func (s *Store) DeleteByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Watch opens a change stream over the group's inserts. The caller
// owns the returned stream and must Close it; cancelling ctx also
// tears it down. Requires a replica set; callers degrade to
// poll-free REST when the stream cannot be opened.
func (s *Store) Watch(ctx context.Context, groupID primitive.ObjectID) (*mongo.ChangeStream, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"operationType":         "insert",
			"fullDocument.group_id": groupID,
		}}},
	}
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	return s.c.Watch(ctx, pipeline, opts)
}

// InsertEvent is the decoded shape of a change stream insert event.
type InsertEvent struct {
	FullDocument models.ChatMessage `bson:"fullDocument"`
}

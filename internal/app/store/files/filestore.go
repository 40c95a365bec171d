// internal/app/store/files/filestore.go
package filestore

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
	return &Store{c: db.Collection("project_files")}
}

// Save upserts the file at (projectID, path). A save to an existing
// path overwrites its content; a save to a new path creates the file.
// The unique index on (project_id, path) makes concurrent saves of the
// same path converge on one document.
func (s *Store) Save(ctx context.Context, projectID primitive.ObjectID, path, content string, isDir bool) (models.ProjectFile, error) {
	now := time.Now().UTC()

	update := bson.M{
		"$set": bson.M{
			"content":    content,
			"is_dir":     isDir,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"_id":        primitive.NewObjectID(),
			"project_id": projectID,
			"path":       path,
			"created_at": now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var f models.ProjectFile
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"project_id": projectID, "path": path},
		update, opts).Decode(&f)
	if err != nil {
		return models.ProjectFile{}, err
	}
	return f, nil
}

// GetByPath returns the file at (projectID, path).
func (s *Store) GetByPath(ctx context.Context, projectID primitive.ObjectID, path string) (models.ProjectFile, error) {
	var f models.ProjectFile
	if err := s.c.FindOne(ctx, bson.M{"project_id": projectID, "path": path}).Decode(&f); err != nil {
		return models.ProjectFile{}, err
	}
	return f, nil
}

// ListByProject returns all files in the project sorted by path, the
// order the tree builder expects.
func (s *Store) ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.ProjectFile, error) {
	opts := options.Find().SetSort(bson.D{{Key: "path", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"project_id": projectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var files []models.ProjectFile
	if err := cur.All(ctx, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// Delete removes the file at (projectID, path). Returns the number of
// documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, projectID primitive.ObjectID, path string) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"project_id": projectID, "path": path})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByProject removes all files belonging to a project.
func (s *Store) DeleteByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"project_id": projectID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

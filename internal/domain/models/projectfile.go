// internal/domain/models/projectfile.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectFile is a file or directory inside a project. Path is the full
// slash-delimited path from the project root (e.g. "src/lib/util.js")
// and is unique per project; the file tree is derived from paths, so
// nesting works at any depth.
type ProjectFile struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	ProjectID primitive.ObjectID `bson:"project_id" json:"project_id"`
	Path      string             `bson:"path" json:"path"`
	Content   string             `bson:"content" json:"content"`
	IsDir     bool               `bson:"is_dir" json:"is_dir"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

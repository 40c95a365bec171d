// internal/domain/models/project.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project is a unit of code owned by exactly one group, with an
// associated primary language. UpdatedAt is bumped whenever a file
// under the project is saved.
//
// Project names are intentionally not unique within a group.
type Project struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	GroupID     primitive.ObjectID `bson:"group_id" json:"group_id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Language    string             `bson:"language" json:"language"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/collabhub/internal/app/system/normalize"
	"github.com/dalemusser/collabhub/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateEmail = errors.New("an account with this email already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// Create inserts a new account. Email is normalized before insert; the
// unique index on email turns races into ErrDuplicateEmail.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.FullName = normalize.Name(u.FullName)
	u.FullNameCI = text.Fold(u.FullName)
	u.Email = normalize.Email(u.Email)
	if u.Status == "" {
		u.Status = "active"
	}
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// FindByEmails returns the users whose email is in the given list.
// Unknown emails are simply absent from the result.
func (s *Store) FindByEmails(ctx context.Context, emails []string) ([]models.User, error) {
	if len(emails) == 0 {
		return nil, nil
	}
	normalized := make([]string, 0, len(emails))
	for _, e := range emails {
		normalized = append(normalized, normalize.Email(e))
	}

	cur, err := s.c.Find(ctx, bson.M{"email": bson.M{"$in": normalized}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpsertGoogleUser creates or refreshes an account from a Google
// sign-in. An existing password account keeps its auth method; only
// the profile fields are refreshed.
func (s *Store) UpsertGoogleUser(ctx context.Context, fullName, email, avatarURL string) (models.User, error) {
	now := time.Now().UTC()
	fullName = normalize.Name(fullName)
	email = normalize.Email(email)

	update := bson.M{
		"$set": bson.M{
			"full_name":    fullName,
			"full_name_ci": text.Fold(fullName),
			"avatar_url":   avatarURL,
			"updated_at":   now,
		},
		"$setOnInsert": bson.M{
			"_id":         primitive.NewObjectID(),
			"email":       email,
			"auth_method": models.AuthGoogle,
			"status":      "active",
			"created_at":  now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var u models.User
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"email": email}, update, opts).Decode(&u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

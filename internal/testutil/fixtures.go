package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/collabhub/internal/domain/models"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
// Calls chain, so a request can carry several parameters.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user account with the given name and email.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      email,
		AuthMethod: models.AuthPassword,
		Status:     "active",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateGroup creates a test group owned by ownerID. It does NOT create
// the owner's membership; use CreateMembership when a test needs one.
func (f *Fixtures) CreateGroup(ctx context.Context, name string, ownerID primitive.ObjectID) models.Group {
	f.t.Helper()

	now := time.Now().UTC()
	g := models.Group{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("groups").InsertOne(ctx, g); err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}
	return g
}

// CreateMembership creates a membership row for (groupID, userID).
func (f *Fixtures) CreateMembership(ctx context.Context, groupID, userID primitive.ObjectID, role string) models.GroupMember {
	f.t.Helper()

	m := models.GroupMember{
		ID:       primitive.NewObjectID(),
		GroupID:  groupID,
		UserID:   userID,
		Role:     role,
		JoinedAt: time.Now().UTC(),
	}

	if _, err := f.db.Collection("group_members").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test membership: %v", err)
	}
	return m
}

// CreateProject creates a test project in the given group.
func (f *Fixtures) CreateProject(ctx context.Context, groupID primitive.ObjectID, name, language string) models.Project {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Project{
		ID:        primitive.NewObjectID(),
		GroupID:   groupID,
		Name:      name,
		NameCI:    text.Fold(name),
		Language:  language,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("projects").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test project: %v", err)
	}
	return p
}

// CreateProjectAt creates a project with explicit timestamps, for tests
// that assert listing order.
func (f *Fixtures) CreateProjectAt(ctx context.Context, groupID primitive.ObjectID, name string, updatedAt time.Time) models.Project {
	f.t.Helper()

	p := models.Project{
		ID:        primitive.NewObjectID(),
		GroupID:   groupID,
		Name:      name,
		NameCI:    text.Fold(name),
		Language:  "javascript",
		CreatedAt: updatedAt,
		UpdatedAt: updatedAt,
	}

	if _, err := f.db.Collection("projects").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test project: %v", err)
	}
	return p
}

// CreateChatMessage inserts a chat message into the group's channel.
func (f *Fixtures) CreateChatMessage(ctx context.Context, groupID, userID primitive.ObjectID, content string) models.ChatMessage {
	f.t.Helper()

	m := models.ChatMessage{
		ID:        primitive.NewObjectID(),
		GroupID:   groupID,
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := f.db.Collection("chat_messages").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test chat message: %v", err)
	}
	return m
}

// CreateProjectFile inserts a file document under the given project.
func (f *Fixtures) CreateProjectFile(ctx context.Context, projectID primitive.ObjectID, path, content string) models.ProjectFile {
	f.t.Helper()

	now := time.Now().UTC()
	pf := models.ProjectFile{
		ID:        primitive.NewObjectID(),
		ProjectID: projectID,
		Path:      path,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("project_files").InsertOne(ctx, pf); err != nil {
		f.t.Fatalf("failed to create test project file: %v", err)
	}
	return pf
}

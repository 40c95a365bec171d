package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/collabhub/internal/app/system/auth"
)

// TestUser represents user data for testing HTTP handlers.
type TestUser struct {
	ID    string
	Name  string
	Email string
}

// NewTestUser returns a TestUser with a fresh ObjectID.
func NewTestUser(name, email string) TestUser {
	return TestUser{
		ID:    primitive.NewObjectID().Hex(),
		Name:  name,
		Email: email,
	}
}

// UserFor builds a TestUser matching an existing user document's ID.
func UserFor(id primitive.ObjectID, name, email string) TestUser {
	return TestUser{ID: id.Hex(), Name: name, Email: email}
}

// WithUser adds a user to the request context for testing authenticated
// handlers. This simulates what the session middleware does.
func WithUser(r *http.Request, user TestUser) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	})
}

// NewAuthenticatedRequest creates a request with the user in context.
func NewAuthenticatedRequest(method, target string, body string, user TestUser) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return WithUser(req, user)
}

// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/collabhub/internal/app/system/auth"
)

// UserCtx returns the current user's display name, Mongo ObjectID, and a
// found flag. If no user is present in context or the user ID is
// malformed, it returns "", NilObjectID, false. Callers can trust that
// ok=true means a valid, authenticated user with a valid ObjectID.
//
// Group roles are not part of the session; they live on memberships and
// are checked per group by the handlers.
func UserCtx(r *http.Request) (name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session - fail closed.
		return "", primitive.NilObjectID, false
	}
	return user.Name, userID, true
}

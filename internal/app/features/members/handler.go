// internal/app/features/members/handler.go
package members

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	membershipstore "github.com/dalemusser/collabhub/internal/app/store/memberships"
	userstore "github.com/dalemusser/collabhub/internal/app/store/users"
)

// Handler is the shared dependency container for the members feature:
// listing a group's roster, inviting by email, role changes, and removal.
type Handler struct {
	DB      *mongo.Database
	Members *membershipstore.Store
	Users   *userstore.Store
	Log     *zap.Logger
}

// NewHandler constructs a members Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Members: membershipstore.New(db),
		Users:   userstore.New(db),
		Log:     logger,
	}
}

// groupIDParam extracts the {groupID} URL parameter set by the parent
// groups router.
func groupIDParam(r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "groupID"))
	return id, err == nil
}

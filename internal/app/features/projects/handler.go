// internal/app/features/projects/handler.go
package projects

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	membershipstore "github.com/dalemusser/collabhub/internal/app/store/memberships"
	projectstore "github.com/dalemusser/collabhub/internal/app/store/projects"
)

// Handler is the shared dependency container for the projects feature.
type Handler struct {
	DB       *mongo.Database
	Projects *projectstore.Store
	Members  *membershipstore.Store
	Log      *zap.Logger
}

// NewHandler constructs a projects Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Projects: projectstore.New(db),
		Members:  membershipstore.New(db),
		Log:      logger,
	}
}

// groupIDParam extracts the {groupID} URL parameter set by the parent
// groups router.
func groupIDParam(r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "groupID"))
	return id, err == nil
}

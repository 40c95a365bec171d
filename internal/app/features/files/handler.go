// internal/app/features/files/handler.go
package files

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	filestore "github.com/dalemusser/collabhub/internal/app/store/files"
	membershipstore "github.com/dalemusser/collabhub/internal/app/store/memberships"
	projectstore "github.com/dalemusser/collabhub/internal/app/store/projects"
	"github.com/dalemusser/collabhub/internal/app/system/authz"
	"github.com/dalemusser/collabhub/internal/app/system/httpjson"
	"github.com/dalemusser/collabhub/internal/domain/models"
)

// Handler is the shared dependency container for the project files
// feature: the file tree, content fetch, and saves from the editor.
type Handler struct {
	DB       *mongo.Database
	Files    *filestore.Store
	Projects *projectstore.Store
	Members  *membershipstore.Store
	Log      *zap.Logger
}

// NewHandler constructs a files Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Files:    filestore.New(db),
		Projects: projectstore.New(db),
		Members:  membershipstore.New(db),
		Log:      logger,
	}
}

// loadProjectForMember resolves {projectID}, loads the project, and
// verifies the requester belongs to the project's group. On failure it
// writes the error response and returns ok=false. Access is through
// the owning group; projects have no membership of their own.
func (h *Handler) loadProjectForMember(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Project, bool) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Unauthorized(w)
		return models.Project{}, false
	}

	projectID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "projectID"))
	if err != nil {
		httpjson.NotFound(w, "project not found")
		return models.Project{}, false
	}

	p, err := h.Projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.NotFound(w, "project not found")
			return models.Project{}, false
		}
		h.Log.Error("files: project fetch failed", zap.Error(err))
		httpjson.Internal(w)
		return models.Project{}, false
	}

	if _, err := h.Members.GetRole(ctx, p.GroupID, userID); err != nil {
		httpjson.Forbidden(w, "not a member of this project's group")
		return models.Project{}, false
	}
	return p, true
}

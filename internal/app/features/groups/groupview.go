// internal/app/features/groups/groupview.go
package groups

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dalemusser/collabhub/internal/app/policy/grouppolicy"
	"github.com/dalemusser/collabhub/internal/app/system/authz"
	"github.com/dalemusser/collabhub/internal/app/system/httpjson"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
	"github.com/dalemusser/collabhub/internal/domain/models"
)

type groupViewResponse struct {
	models.Group
	ViewerRole string `json:"viewer_role"`
	IsAdmin    bool   `json:"is_admin"`
}

// ServeGroupView handles GET /api/v1/groups/{groupID}. Only members
// can view a group; outsiders get 403.
func (h *Handler) ServeGroupView(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Unauthorized(w)
		return
	}

	groupID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "groupID"))
	if err != nil {
		httpjson.NotFound(w, "group not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	role, err := h.Members.GetRole(ctx, groupID, userID)
	if err != nil {
		httpjson.Forbidden(w, "not a member of this group")
		return
	}

	g, err := h.Groups.GetByID(ctx, groupID)
	if err == mongo.ErrNoDocuments {
		httpjson.NotFound(w, "group not found")
		return
	}
	if err != nil {
		h.Log.Error("groups: view failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}

	httpjson.Respond(w, http.StatusOK, groupViewResponse{
		Group:      g,
		ViewerRole: role,
		IsAdmin:    grouppolicy.CanManage(role),
	})
}

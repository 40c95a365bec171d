// internal/app/features/groups/settings.go
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
	"github.com/dalemusser/collabhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/collabhub/internal/app/system/httpjson"
	"github.com/dalemusser/collabhub/internal/app/system/inputval"
	"github.com/dalemusser/collabhub/internal/app/system/normalize"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
)

type updateGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// requireAdmin resolves {groupID} and checks the caller holds the
// admin role there. On failure it writes the error response and
// returns ok=false.
func (h *Handler) requireAdmin(ctx context.Context, w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Unauthorized(w)
		return primitive.NilObjectID, false
	}
	groupID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "groupID"))
	if err != nil {
		httpjson.NotFound(w, "group not found")
		return primitive.NilObjectID, false
	}
	role, err := h.Members.GetRole(ctx, groupID, userID)
	if err != nil {
		httpjson.Forbidden(w, "not a member of this group")
		return primitive.NilObjectID, false
	}
	if !grouppolicy.CanManage(role) {
		httpjson.Forbidden(w, "requires admin role")
		return primitive.NilObjectID, false
	}
	return groupID, true
}

// HandleUpdateGroup handles PUT /api/v1/groups/{groupID}. Admin only.
// An empty name keeps the current one; the description may be cleared.
func (h *Handler) HandleUpdateGroup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	groupID, ok := h.requireAdmin(ctx, w, r)
	if !ok {
		return
	}

	var req updateGroupRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.ValidationError(w, "invalid JSON body")
		return
	}

	name := normalize.Name(req.Name)
	var v inputval.Result
	v.MaxLen("name", name, 200)
	v.MaxLen("description", req.Description, 2000)
	if v.HasErrors() {
		httpjson.ValidationError(w, v.First())
		return
	}

	if err := h.Groups.UpdateInfo(ctx, groupID, name, htmlsanitize.Sanitize(req.Description)); err != nil {
		h.Log.Error("groups: update failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}

	g, err := h.Groups.GetByID(ctx, groupID)
	if err == mongo.ErrNoDocuments {
		httpjson.NotFound(w, "group not found")
		return
	}
	if err != nil {
		h.Log.Error("groups: fetch after update failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}

	httpjson.Respond(w, http.StatusOK, g)
}

// HandleDeleteGroup handles DELETE /api/v1/groups/{groupID}. Admin
// only. Deletion cascades through everything the group owns: project
// files, projects, chat history, and memberships, then the group
// itself. The cascade is not transactional; a failure partway leaves
// the group document in place so the delete can be retried.
func (h *Handler) HandleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	groupID, ok := h.requireAdmin(ctx, w, r)
	if !ok {
		return
	}

	projects, err := h.Projects.ListByGroup(ctx, groupID)
	if err != nil {
		h.Log.Error("groups: project list for delete failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}
	for _, p := range projects {
		if _, err := h.Files.DeleteByProject(ctx, p.ID); err != nil {
			h.Log.Error("groups: file cascade failed",
				zap.String("project_id", p.ID.Hex()), zap.Error(err))
			httpjson.Internal(w)
			return
		}
	}
	if _, err := h.Projects.DeleteByGroup(ctx, groupID); err != nil {
		h.Log.Error("groups: project cascade failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}
	if _, err := h.Chat.DeleteByGroup(ctx, groupID); err != nil {
		h.Log.Error("groups: chat cascade failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}
	if _, err := h.Members.DeleteByGroup(ctx, groupID); err != nil {
		h.Log.Error("groups: membership cascade failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}

	deleted, err := h.Groups.Delete(ctx, groupID)
	if err != nil {
		h.Log.Error("groups: delete failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}
	if deleted == 0 {
		httpjson.NotFound(w, "group not found")
		return
	}

	httpjson.Respond(w, http.StatusOK, map[string]string{"deleted": groupID.Hex()})
}

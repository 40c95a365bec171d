// internal/app/features/members/remove.go
package members

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dalemusser/collabhub/internal/app/policy/grouppolicy"
	membershipstore "github.com/dalemusser/collabhub/internal/app/store/memberships"
	"github.com/dalemusser/collabhub/internal/app/system/authz"
	"github.com/dalemusser/collabhub/internal/app/system/httpjson"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
	"github.com/dalemusser/collabhub/internal/domain/models"
)

// HandleRemove handles DELETE /api/v1/groups/{groupID}/members/{userID}.
// Admins can remove anyone; a non-admin can only remove themselves
// (leave the group). Removing the last admin is rejected.
func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	_, callerID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Unauthorized(w)
		return
	}
	groupID, ok := groupIDParam(r)
	if !ok {
		httpjson.NotFound(w, "group not found")
		return
	}
	targetID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		httpjson.NotFound(w, "member not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	callerRole, err := h.Members.GetRole(ctx, groupID, callerID)
	if err != nil {
		httpjson.Forbidden(w, "not a member of this group")
		return
	}
	if targetID != callerID && !grouppolicy.CanManage(callerRole) {
		httpjson.Forbidden(w, "requires admin role")
		return
	}

	target, err := h.Members.Get(ctx, groupID, targetID)
	if err != nil {
		if errors.Is(err, membershipstore.ErrMembershipNotFound) {
			httpjson.NotFound(w, "member not found")
			return
		}
		h.Log.Error("members: membership fetch failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}

	adminCount, err := h.Members.CountByGroup(ctx, groupID, models.RoleAdmin)
	if err != nil {
		h.Log.Error("members: admin count failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}
	if err := grouppolicy.ValidateRemoval(target.Role, adminCount); err != nil {
		httpjson.Conflict(w, err.Error())
		return
	}

	if err := h.Members.Remove(ctx, groupID, targetID); err != nil {
		if errors.Is(err, membershipstore.ErrMembershipNotFound) {
			httpjson.NotFound(w, "member not found")
			return
		}
		h.Log.Error("members: remove failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}

	httpjson.Respond(w, http.StatusOK, map[string]string{"removed": targetID.Hex()})
}

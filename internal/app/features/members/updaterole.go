// internal/app/features/members/updaterole.go
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
	"github.com/dalemusser/collabhub/internal/app/system/normalize"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
	"github.com/dalemusser/collabhub/internal/domain/models"
)

type updateRoleRequest struct {
	Role string `json:"role"`
}

// HandleUpdateRole handles PUT /api/v1/groups/{groupID}/members/{userID}.
// Admin only. Demoting the group's last admin is rejected so every
// group keeps at least one admin. Setting a member's current role again
// is a no-op and succeeds.
func (h *Handler) HandleUpdateRole(w http.ResponseWriter, r *http.Request) {
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
	if !grouppolicy.CanManage(callerRole) {
		httpjson.Forbidden(w, "requires admin role")
		return
	}

	var req updateRoleRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.ValidationError(w, "invalid JSON body")
		return
	}
	newRole := normalize.Role(req.Role)
	if !models.ValidRole(newRole) {
		httpjson.ValidationError(w, "unknown role: "+req.Role)
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
	if err := grouppolicy.ValidateRoleChange(target.Role, newRole, adminCount); err != nil {
		if errors.Is(err, grouppolicy.ErrLastAdmin) {
			httpjson.Conflict(w, err.Error())
			return
		}
		httpjson.ValidationError(w, err.Error())
		return
	}

	if err := h.Members.UpdateRole(ctx, groupID, targetID, newRole); err != nil {
		if errors.Is(err, membershipstore.ErrMembershipNotFound) {
			httpjson.NotFound(w, "member not found")
			return
		}
		h.Log.Error("members: role update failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}

	httpjson.Respond(w, http.StatusOK, map[string]string{
		"user_id": targetID.Hex(),
		"role":    newRole,
	})
}

// internal/app/features/members/invite.go
package members

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/dalemusser/collabhub/internal/app/policy/grouppolicy"
	membershipstore "github.com/dalemusser/collabhub/internal/app/store/memberships"
	"github.com/dalemusser/collabhub/internal/app/system/authz"
	"github.com/dalemusser/collabhub/internal/app/system/httpjson"
	"github.com/dalemusser/collabhub/internal/app/system/inputval"
	"github.com/dalemusser/collabhub/internal/app/system/normalize"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
	"github.com/dalemusser/collabhub/internal/domain/models"
)

type inviteRequest struct {
	Emails []string `json:"emails"`
	Role   string   `json:"role"`
}

type inviteResponse struct {
	Added      int      `json:"added"`
	Duplicates int      `json:"duplicates"`
	Unknown    []string `json:"unknown,omitempty"`
}

// HandleInvite handles POST /api/v1/groups/{groupID}/members. Existing
// accounts matching the given emails are added with the requested role
// (default member). Emails without an account are reported back, and
// users who already belong to the group are counted as duplicates, so
// re-sending an invite list is harmless.
func (h *Handler) HandleInvite(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Unauthorized(w)
		return
	}
	groupID, ok := groupIDParam(r)
	if !ok {
		httpjson.NotFound(w, "group not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	callerRole, err := h.Members.GetRole(ctx, groupID, userID)
	if err != nil {
		httpjson.Forbidden(w, "not a member of this group")
		return
	}
	if !grouppolicy.CanManage(callerRole) {
		httpjson.Forbidden(w, "requires admin role")
		return
	}

	var req inviteRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.ValidationError(w, "invalid JSON body")
		return
	}
	if len(req.Emails) == 0 {
		httpjson.ValidationError(w, "emails is required")
		return
	}
	role := normalize.Role(req.Role)
	if role == "" {
		role = models.RoleMember
	}
	if !models.ValidRole(role) {
		httpjson.ValidationError(w, "unknown role: "+req.Role)
		return
	}
	for _, e := range req.Emails {
		if !inputval.IsValidEmail(normalize.Email(e)) {
			httpjson.ValidationError(w, "invalid email: "+e)
			return
		}
	}

	users, err := h.Users.FindByEmails(ctx, req.Emails)
	if err != nil {
		h.Log.Error("members: email lookup failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}

	found := make(map[string]bool, len(users))
	entries := make([]membershipstore.MembershipEntry, 0, len(users))
	for _, u := range users {
		found[u.Email] = true
		entries = append(entries, membershipstore.MembershipEntry{UserID: u.ID, Role: role})
	}

	var unknown []string
	for _, e := range req.Emails {
		if !found[normalize.Email(e)] {
			unknown = append(unknown, normalize.Email(e))
		}
	}

	result, err := h.Members.AddBatch(ctx, groupID, entries)
	if err != nil {
		h.Log.Error("members: batch add failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}

	httpjson.Respond(w, http.StatusOK, inviteResponse{
		Added:      result.Added,
		Duplicates: result.Duplicates,
		Unknown:    unknown,
	})
}

// internal/app/features/members/list.go
package members

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	membershipstore "github.com/dalemusser/collabhub/internal/app/store/memberships"
	"github.com/dalemusser/collabhub/internal/app/system/authz"
	"github.com/dalemusser/collabhub/internal/app/system/httpjson"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
)

// ServeMemberList handles GET /api/v1/groups/{groupID}/members. Any
// member of the group can list the roster; listing is read-only and
// repeat calls return the same roster.
func (h *Handler) ServeMemberList(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Members.GetRole(ctx, groupID, userID); err != nil {
		httpjson.Forbidden(w, "not a member of this group")
		return
	}

	records, err := h.Members.ListMembers(ctx, groupID)
	if err != nil {
		h.Log.Error("members: list failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}
	if records == nil {
		records = []membershipstore.MemberRecord{}
	}

	httpjson.Respond(w, http.StatusOK, map[string]interface{}{"members": records})
}

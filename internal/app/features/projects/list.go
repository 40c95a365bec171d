// internal/app/features/projects/list.go
package projects

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/dalemusser/collabhub/internal/app/system/authz"
	"github.com/dalemusser/collabhub/internal/app/system/httpjson"
	"github.com/dalemusser/collabhub/internal/app/system/timeago"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
	"github.com/dalemusser/collabhub/internal/domain/models"
)

type projectListItem struct {
	models.Project
	MemberCount int64  `json:"member_count"`
	LastUpdated string `json:"last_updated"`
}

// ServeProjectList handles GET /api/v1/groups/{groupID}/projects.
// Projects are ordered most recently updated first. Each row carries
// the group's member count (projects have no membership of their own)
// and a relative "last updated" string computed at fetch time.
func (h *Handler) ServeProjectList(w http.ResponseWriter, r *http.Request) {
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

	list, err := h.Projects.ListByGroup(ctx, groupID)
	if err != nil {
		h.Log.Error("projects: list failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}
	memberCount, err := h.Members.CountByGroup(ctx, groupID, "")
	if err != nil {
		h.Log.Error("projects: member count failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}

	items := make([]projectListItem, 0, len(list))
	for _, p := range list {
		items = append(items, projectListItem{
			Project:     p,
			MemberCount: memberCount,
			LastUpdated: timeago.Since(p.UpdatedAt),
		})
	}

	httpjson.Respond(w, http.StatusOK, map[string]interface{}{"projects": items})
}

// internal/app/features/groups/directory.go
package groups

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/dalemusser/collabhub/internal/app/store/queries/groupdirectory"
	"github.com/dalemusser/collabhub/internal/app/system/authz"
	"github.com/dalemusser/collabhub/internal/app/system/httpjson"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
)

// ServeDirectory handles GET /api/v1/groups: the signed-in user's
// groups with member and project counts and their own role in each.
func (h *Handler) ServeDirectory(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Unauthorized(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, err := groupdirectory.ListForUser(ctx, h.DB, userID)
	if err != nil {
		h.Log.Error("groups: directory query failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}
	if items == nil {
		items = []groupdirectory.DirectoryItem{}
	}

	httpjson.Respond(w, http.StatusOK, map[string]interface{}{"groups": items})
}

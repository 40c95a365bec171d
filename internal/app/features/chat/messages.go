// internal/app/features/chat/messages.go
package chat

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	chatstore "github.com/dalemusser/collabhub/internal/app/store/chat"
	"github.com/dalemusser/collabhub/internal/app/system/authz"
	"github.com/dalemusser/collabhub/internal/app/system/httpjson"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
)

// ServeMessages handles GET /api/v1/groups/{groupID}/chat/messages.
// Returns the group's full message history, oldest first, with sender
// name and avatar joined in.
func (h *Handler) ServeMessages(w http.ResponseWriter, r *http.Request) {
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

	records, err := h.Messages.ListByGroup(ctx, groupID)
	if err != nil {
		h.Log.Error("chat: message list failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}
	if records == nil {
		records = []chatstore.MessageRecord{}
	}

	httpjson.Respond(w, http.StatusOK, map[string]interface{}{"messages": records})
}

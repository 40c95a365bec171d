// internal/app/features/chat/send.go
package chat

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/dalemusser/collabhub/internal/app/system/authz"
	"github.com/dalemusser/collabhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/collabhub/internal/app/system/httpjson"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
)

type sendMessageRequest struct {
	Content string `json:"content"`
}

// HandleSendMessage handles POST /api/v1/groups/{groupID}/chat/messages.
// Content is trimmed and stripped of markup before the emptiness check,
// so a message of only whitespace or only tags is rejected. The message
// is stored exactly once; subscribers receive it through the change
// stream feed.
func (h *Handler) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
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

	var req sendMessageRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.ValidationError(w, "invalid JSON body")
		return
	}
	content := htmlsanitize.Text(req.Content)
	if content == "" {
		httpjson.ValidationError(w, "Message content is required.")
		return
	}

	m, err := h.Messages.Insert(ctx, groupID, userID, content)
	if err != nil {
		h.Log.Error("chat: insert failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}

	record, err := h.Messages.GetMessage(ctx, m.ID)
	if err != nil {
		h.Log.Error("chat: fetch after insert failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}

	httpjson.Respond(w, http.StatusCreated, record)
}

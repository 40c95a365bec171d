// internal/app/features/chat/ws.go
package chat

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/dalemusser/collabhub/internal/app/system/authz"
	"github.com/dalemusser/collabhub/internal/app/system/httpjson"
	"github.com/dalemusser/collabhub/internal/app/system/realtime"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
)

const readWait = 60 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cookie auth is checked before the upgrade; cross-origin browser
	// clients are expected (editor runs on its own origin).
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleFeed handles GET /api/v1/groups/{groupID}/chat/ws. Membership
// is checked before the upgrade; after it, the socket joins the
// group's room and receives every message inserted while it is open.
// The read side only services pings and close frames; messages are
// sent over REST.
func (h *Handler) HandleFeed(w http.ResponseWriter, r *http.Request) {
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
	roleCtx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	_, err := h.Members.GetRole(roleCtx, groupID, userID)
	cancel()
	if err != nil {
		httpjson.Forbidden(w, "not a member of this group")
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		h.Log.Debug("chat: websocket upgrade failed", zap.Error(err))
		return
	}

	roomID := groupID.Hex()
	conn := realtime.NewConnection(userID.Hex(), ws)
	h.Hub.Attach(conn)
	conn.Start()
	h.Hub.Join(roomID, conn)
	h.ensureWatcher(groupID)

	defer func() {
		h.Hub.Detach(conn)
		conn.Close(websocket.CloseNormalClosure, "")
		h.releaseWatcher(groupID)
	}()

	ws.SetReadLimit(512)
	_ = ws.SetReadDeadline(time.Now().Add(readWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(readWait))
	})

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			return
		}
		_ = ws.SetReadDeadline(time.Now().Add(readWait))
	}
}

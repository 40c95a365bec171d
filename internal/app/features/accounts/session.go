// internal/app/features/accounts/session.go
package accounts

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/dalemusser/collabhub/internal/app/system/auth"
	"github.com/dalemusser/collabhub/internal/app/system/httpjson"
)

// ServeSession returns the signed-in user's identity. The client calls
// this on page load to restore its session state.
func (h *Handler) ServeSession(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Unauthorized(w)
		return
	}

	httpjson.Respond(w, http.StatusOK, accountResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
	})
}

// HandleLogout clears the session cookie.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.SignOut(w, r); err != nil {
		h.Log.Error("logout: session clear failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]bool{"ok": true})
}

// internal/app/features/authgoogle/callback.go
package authgoogle

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.uber.org/zap"

	"github.com/dalemusser/collabhub/internal/app/system/normalize"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
)

// ServeCallback handles GET /auth/google/callback. The state token is
// consumed (one-time use) before the code exchange; the Google profile
// then upserts the account by email and the session cookie is set.
func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.Log.Warn("authgoogle: consent denied",
			zap.String("error", errParam),
			zap.String("description", r.URL.Query().Get("error_description")))
		h.redirectWithError(w, r, "google_denied")
		return
	}

	state := r.URL.Query().Get("state")
	if state == "" {
		h.redirectWithError(w, r, "invalid_state")
		return
	}

	stateCtx, cancelState := context.WithTimeout(ctx, timeouts.Short())
	defer cancelState()

	returnURL, valid, err := h.StateStore.Validate(stateCtx, state)
	if err != nil {
		h.Log.Error("authgoogle: state validation failed", zap.Error(err))
		h.redirectWithError(w, r, "internal")
		return
	}
	if !valid {
		h.Log.Warn("authgoogle: invalid or expired state")
		h.redirectWithError(w, r, "invalid_state")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.redirectWithError(w, r, "invalid_code")
		return
	}

	token, err := h.oauth2Config().Exchange(ctx, code)
	if err != nil {
		h.Log.Error("authgoogle: code exchange failed", zap.Error(err))
		h.redirectWithError(w, r, "token_exchange")
		return
	}

	googleUser, err := fetchGoogleUserInfo(ctx, token)
	if err != nil {
		h.Log.Error("authgoogle: user info fetch failed", zap.Error(err))
		h.redirectWithError(w, r, "user_info")
		return
	}
	if !googleUser.EmailVerified {
		h.Log.Warn("authgoogle: unverified email", zap.String("email", googleUser.Email))
		h.redirectWithError(w, r, "email_unverified")
		return
	}

	// Fresh budget for the upsert: the Google round-trips above may have
	// consumed most of the state context's allowance.
	upsertCtx, cancelUpsert := context.WithTimeout(ctx, timeouts.Short())
	defer cancelUpsert()

	u, err := h.Users.UpsertGoogleUser(upsertCtx, googleUser.Name, googleUser.Email, googleUser.Picture)
	if err != nil {
		h.Log.Error("authgoogle: user upsert failed", zap.Error(err))
		h.redirectWithError(w, r, "internal")
		return
	}
	if normalize.Status(u.Status) == "disabled" {
		h.Log.Info("authgoogle: disabled account", zap.String("user_id", u.ID.Hex()))
		h.redirectWithError(w, r, "account_disabled")
		return
	}

	if err := h.SessionMgr.SignIn(w, r, u.ID.Hex()); err != nil {
		h.Log.Error("authgoogle: session save failed", zap.Error(err))
		h.redirectWithError(w, r, "session")
		return
	}

	h.Log.Info("authgoogle: user signed in",
		zap.String("user_id", u.ID.Hex()),
		zap.String("email", u.Email))

	http.Redirect(w, r, urlutil.SafeReturn(returnURL, "", "/"), http.StatusSeeOther)
}

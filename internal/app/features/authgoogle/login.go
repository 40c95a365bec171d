// internal/app/features/authgoogle/login.go
package authgoogle

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
)

// ServeLogin handles GET /auth/google. It stores a single-use state
// token and redirects the browser to Google's consent screen.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		h.Log.Warn("authgoogle: oauth not configured")
		h.redirectWithError(w, r, "google_not_configured")
		return
	}

	state, err := generateState()
	if err != nil {
		h.Log.Error("authgoogle: state generation failed", zap.Error(err))
		h.redirectWithError(w, r, "internal")
		return
	}

	returnURL := query.Get(r, "return")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	expiresAt := time.Now().UTC().Add(10 * time.Minute)
	if err := h.StateStore.Save(ctx, state, returnURL, expiresAt); err != nil {
		h.Log.Error("authgoogle: state save failed", zap.Error(err))
		h.redirectWithError(w, r, "internal")
		return
	}

	url := h.oauth2Config().AuthCodeURL(state, oauth2.AccessTypeOffline)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// generateState creates a cryptographically secure random state string.
func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

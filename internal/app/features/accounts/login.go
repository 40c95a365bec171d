// internal/app/features/accounts/login.go
package accounts

import (
	"context"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/dalemusser/collabhub/internal/app/system/httpjson"
	"github.com/dalemusser/collabhub/internal/app/system/normalize"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
	"github.com/dalemusser/collabhub/internal/domain/models"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies email/password credentials and starts a session.
// The failure response is identical for unknown emails and wrong
// passwords so the endpoint cannot be used to probe for accounts.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.ValidationError(w, "invalid JSON body")
		return
	}

	email := normalize.Email(req.Email)
	if email == "" || req.Password == "" {
		httpjson.ValidationError(w, "email and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		httpjson.Error(w, http.StatusUnauthorized, httpjson.CodeUnauthorized, "invalid email or password")
		return
	}
	if u.AuthMethod != models.AuthPassword || u.PasswordHash == "" {
		// Google-only account; no password to check.
		httpjson.Error(w, http.StatusUnauthorized, httpjson.CodeUnauthorized, "invalid email or password")
		return
	}
	if normalize.Status(u.Status) == "disabled" {
		httpjson.Error(w, http.StatusUnauthorized, httpjson.CodeUnauthorized, "account is disabled")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		httpjson.Error(w, http.StatusUnauthorized, httpjson.CodeUnauthorized, "invalid email or password")
		return
	}

	if err := h.Sessions.SignIn(w, r, u.ID.Hex()); err != nil {
		h.Log.Error("login: session sign-in failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}

	httpjson.Respond(w, http.StatusOK, accountResponse{
		ID:        u.ID.Hex(),
		Name:      u.FullName,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
	})
}

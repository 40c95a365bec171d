// internal/app/features/accounts/signup.go
package accounts

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	userstore "github.com/dalemusser/collabhub/internal/app/store/users"
	"github.com/dalemusser/collabhub/internal/app/system/httpjson"
	"github.com/dalemusser/collabhub/internal/app/system/inputval"
	"github.com/dalemusser/collabhub/internal/app/system/normalize"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
	"github.com/dalemusser/collabhub/internal/domain/models"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type accountResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// HandleSignup creates a password account and signs the new user in.
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.ValidationError(w, "invalid JSON body")
		return
	}

	name := normalize.Name(req.Name)
	email := normalize.Email(req.Email)

	var v inputval.Result
	v.Required("name", name)
	v.MaxLen("name", name, 120)
	v.Required("email", email)
	v.Email("email", email)
	v.Required("password", req.Password)
	v.MinLen("password", req.Password, 8)
	if v.HasErrors() {
		httpjson.ValidationError(w, v.First())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.Log.Error("signup: bcrypt failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.Create(ctx, models.User{
		FullName:     name,
		Email:        email,
		AuthMethod:   models.AuthPassword,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			httpjson.Conflict(w, "an account with this email already exists")
			return
		}
		h.Log.Error("signup: create user failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}

	if err := h.Sessions.SignIn(w, r, u.ID.Hex()); err != nil {
		h.Log.Error("signup: session sign-in failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}

	httpjson.Respond(w, http.StatusCreated, accountResponse{
		ID:    u.ID.Hex(),
		Name:  u.FullName,
		Email: u.Email,
	})
}

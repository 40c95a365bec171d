// internal/app/features/authgoogle/routes.go
package authgoogle

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the Google OAuth subtree, mounted at /auth/google.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeLogin)
	r.Get("/callback", h.ServeCallback)

	return r
}

// internal/app/features/accounts/routes.go
package accounts

import (
	"github.com/go-chi/chi/v5"

	"github.com/dalemusser/collabhub/internal/app/system/auth"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Public: account creation and login.
	r.Post("/signup", h.HandleSignup)
	r.Post("/login", h.HandleLogin)

	// Authenticated: session probe and logout.
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/session", h.ServeSession)
		pr.Post("/logout", h.HandleLogout)
	})

	return r
}

// internal/app/features/files/routes.go
package files

import (
	"github.com/go-chi/chi/v5"

	"github.com/dalemusser/collabhub/internal/app/system/auth"
)

// Routes returns the project files subtree, mounted at /api/v1/projects.
// Unlike the group-scoped features this one is addressed by project ID,
// so it carries its own session requirement.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(sm.RequireSignedIn)

		r.Route("/{projectID}/files", func(r chi.Router) {
			r.Get("/", h.ServeFileTree)
			r.Get("/content", h.ServeFileContent)
			r.Put("/content", h.HandleSaveFile)
		})
	})

	return r
}

// internal/app/features/projects/routes.go
package projects

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the projects subtree. It is mounted by the groups
// feature under /groups/{groupID}/projects, inside the authenticated
// route group, so no session middleware is applied here.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeProjectList)
	r.Post("/", h.HandleCreateProject)

	return r
}

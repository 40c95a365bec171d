// internal/app/features/groups/routes.go
package groups

import (
	"github.com/go-chi/chi/v5"

	"github.com/dalemusser/collabhub/internal/app/system/auth"
)

// Routes builds the /groups subtree. The members, projects, and chat
// routers are built by their own features and mounted here under
// /{groupID}/ so they inherit the same authentication requirement.
func Routes(h *Handler, sm *auth.SessionManager, members, projects, chat chi.Router) chi.Router {
	r := chi.NewRouter()

	// Everything under /groups requires authentication
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		// DIRECTORY
		pr.Get("/", h.ServeDirectory)

		// CREATE
		pr.Post("/", h.HandleCreateGroup)

		// VIEW
		pr.Get("/{groupID}", h.ServeGroupView)

		// SETTINGS (admin only)
		pr.Put("/{groupID}", h.HandleUpdateGroup)
		pr.Delete("/{groupID}", h.HandleDeleteGroup)

		// Per-group subtrees owned by sibling features.
		pr.Mount("/{groupID}/members", members)
		pr.Mount("/{groupID}/projects", projects)
		pr.Mount("/{groupID}/chat", chat)
	})

	return r
}

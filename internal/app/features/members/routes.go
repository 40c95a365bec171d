// internal/app/features/members/routes.go
package members

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the members subtree. It is mounted by the groups
// feature under /groups/{groupID}/members, inside the authenticated
// route group, so no session middleware is applied here.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeMemberList)
	r.Post("/", h.HandleInvite)
	r.Put("/{userID}", h.HandleUpdateRole)
	r.Delete("/{userID}", h.HandleRemove)

	return r
}

// internal/app/features/chat/routes.go
package chat

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the chat subtree. It is mounted by the groups feature
// under /groups/{groupID}/chat, inside the authenticated route group,
// so no session middleware is applied here.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/messages", h.ServeMessages)
	r.Post("/messages", h.HandleSendMessage)
	r.Get("/ws", h.HandleFeed)

	return r
}

// internal/app/features/messages/routes.go
package messages

import "github.com/go-chi/chi/v5"

// Routes returns the messaging subrouter, mounted under /messages.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.ServeSend)
	r.Get("/", h.ServeConversation)
	r.Delete("/{id}", h.ServeDelete)
	return r
}

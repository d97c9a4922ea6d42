// internal/app/features/invites/routes.go
package invites

import "github.com/go-chi/chi/v5"

// Routes returns the invite workflow subrouter, mounted under /invites.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.ServeCreate)
	r.Get("/", h.ServeAll)
	r.Get("/received", h.ServeReceived)
	r.Get("/sent", h.ServeSent)
	r.Post("/{id}/accept", h.ServeAccept)
	r.Delete("/{id}", h.ServeDelete)
	return r
}

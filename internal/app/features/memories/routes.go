// internal/app/features/memories/routes.go
package memories

import "github.com/go-chi/chi/v5"

// Routes returns the memories subrouter, mounted under /memories. The family
// listing (GET /families/{id}/memories) is attached to the families
// subrouter in bootstrap.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.ServeCreate)
	return r
}

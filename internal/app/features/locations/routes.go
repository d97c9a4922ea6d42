// internal/app/features/locations/routes.go
package locations

import "github.com/go-chi/chi/v5"

// Routes returns the location sharing subrouter, mounted under /locations.
// The family roster listing (GET /families/{id}/locations) is attached to
// the families subrouter in bootstrap.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Put("/me", h.ServeUpsert)
	r.Get("/near", h.ServeNear)
	return r
}

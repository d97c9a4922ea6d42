// internal/app/features/realtime/routes.go
package realtime

import "github.com/go-chi/chi/v5"

// Routes returns the realtime subrouter, mounted under /realtime. The ws
// endpoint authenticates with a ticket instead of the bearer middleware, so
// bootstrap mounts it outside the auth-guarded group.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/ticket", h.ServeTicket)
	return r
}

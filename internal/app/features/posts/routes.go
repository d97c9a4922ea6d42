// internal/app/features/posts/routes.go
package posts

import "github.com/go-chi/chi/v5"

// Routes returns the feed subrouter, mounted under /posts. The family-scoped
// feed listing (GET /families/{id}/posts) is attached to the families
// subrouter in bootstrap.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.ServeCreate)
	r.Get("/{id}", h.ServeGet)
	r.Post("/{id}/like", h.ServeLike)
	r.Delete("/{id}/like", h.ServeUnlike)
	return r
}

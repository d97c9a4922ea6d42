// internal/app/features/families/routes.go
package families

import "github.com/go-chi/chi/v5"

// Routes returns the family registry subrouter, mounted under /families.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.ServeCreate)
	r.Get("/", h.ServeList)
	r.Get("/{id}", h.ServeGet)
	r.Get("/{id}/members", h.ServeMembers)
	r.Get("/{id}/members.csv", h.ServeMembersCSV)
	r.Post("/{id}/leave", h.ServeLeave)
	return r
}

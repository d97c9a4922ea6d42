// internal/app/features/users/routes.go
package users

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the user directory subrouter, mounted under /users.
// searchLimit is applied to the search endpoint only; the rest of the
// directory is self-scoped and cannot be used to enumerate users.
func Routes(h *Handler, searchLimit func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/login", h.ServeLogin)
	r.With(searchLimit).Get("/search", h.ServeSearch)
	r.Get("/me", h.ServeMe)
	r.Patch("/me", h.ServeUpdateMe)
	r.Put("/me/fcm-token", h.ServeSetFCMToken)
	r.Get("/me/families", h.ServeMyFamilies)
	return r
}

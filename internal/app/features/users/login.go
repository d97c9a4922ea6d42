package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	userstore "github.com/familiahq/familia/internal/app/store/users"
	"github.com/familiahq/familia/internal/app/system/auth"
	"github.com/familiahq/familia/internal/app/system/httperr"
	"github.com/familiahq/familia/internal/app/system/timeouts"
)

// ServeLogin handles POST /users/login.
//
// The credential has already been verified by the auth middleware; this
// endpoint maps the identity onto a user record, creating one on first login.
// Calling it again with the same identity returns the same record.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id, ok := auth.CurrentIdentity(r)
	if !ok {
		httperr.Write(w, h.Log, httperr.Unauthorized("missing credentials"))
		return
	}

	u, err := h.Users.ResolveOrCreate(ctx, id.AuthID, id.Name, id.Email, id.PhotoURL)
	if err != nil {
		switch {
		case errors.Is(err, userstore.ErrDuplicateEmail),
			errors.Is(err, userstore.ErrMissingAuthID),
			errors.Is(err, userstore.ErrMissingName),
			errors.Is(err, userstore.ErrMissingEmail):
			httperr.Write(w, h.Log, httperr.UserInput(err.Error()))
		default:
			httperr.Write(w, h.Log, httperr.Internal(err))
		}
		return
	}

	h.Audit.LoginSuccess(ctx, r, u.ID, u.Email)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(u)
}

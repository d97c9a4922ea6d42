package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	userstore "github.com/familiahq/familia/internal/app/store/users"
	"github.com/familiahq/familia/internal/app/system/authz"
	"github.com/familiahq/familia/internal/app/system/httperr"
	"github.com/familiahq/familia/internal/app/system/sanitize"
	"github.com/familiahq/familia/internal/app/system/timeouts"
	"github.com/familiahq/familia/internal/domain/models"
)

// ServeMe handles GET /users/me.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := authz.CurrentUser(ctx, r, h.Users)
	if err != nil {
		httperr.Write(w, h.Log, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(u)
}

type updateMeRequest struct {
	Name     *string `json:"name"`
	About    *string `json:"about"`
	PhotoURL *string `json:"photo_url"`
}

// ServeUpdateMe handles PATCH /users/me. Absent fields stay untouched.
func (h *Handler) ServeUpdateMe(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := authz.CurrentUser(ctx, r, h.Users)
	if err != nil {
		httperr.Write(w, h.Log, err)
		return
	}

	var req updateMeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, h.Log, httperr.UserInput("invalid request body"))
		return
	}

	upd := userstore.ProfileUpdate{PhotoURL: req.PhotoURL}
	if req.Name != nil {
		name := sanitize.Text(*req.Name)
		upd.Name = &name
	}
	if req.About != nil {
		about := sanitize.Text(*req.About)
		upd.About = &about
	}

	if err := h.Users.UpdateProfile(ctx, u.ID, upd); err != nil {
		if errors.Is(err, userstore.ErrMissingName) {
			httperr.Write(w, h.Log, httperr.UserInput(err.Error()))
			return
		}
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}

	updated, err := h.Users.GetByID(ctx, u.ID)
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(updated)
}

type fcmTokenRequest struct {
	Token string `json:"token"`
}

// ServeSetFCMToken handles PUT /users/me/fcm-token.
func (h *Handler) ServeSetFCMToken(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := authz.CurrentUser(ctx, r, h.Users)
	if err != nil {
		httperr.Write(w, h.Log, err)
		return
	}

	var req fcmTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, h.Log, httperr.UserInput("invalid request body"))
		return
	}
	if req.Token == "" {
		httperr.Write(w, h.Log, httperr.UserInput("token is required"))
		return
	}

	if err := h.Users.SetFCMToken(ctx, u.ID, req.Token); err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ServeMyFamilies handles GET /users/me/families.
func (h *Handler) ServeMyFamilies(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := authz.CurrentUser(ctx, r, h.Users)
	if err != nil {
		httperr.Write(w, h.Log, err)
		return
	}

	ids, err := h.Memberships.FamilyIDsByUser(ctx, u.ID)
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}

	families, err := h.Families.GetByIDs(ctx, ids)
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}
	if families == nil {
		families = []models.Family{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(families)
}

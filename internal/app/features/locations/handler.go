// Package locations is the position sharing surface: one last-known point
// per user, visible to fellow family members.
package locations

import (
	"context"
	"encoding/json"
	"net/http"

	locationstore "github.com/familiahq/familia/internal/app/store/locations"
	membershipstore "github.com/familiahq/familia/internal/app/store/memberships"
	userstore "github.com/familiahq/familia/internal/app/store/users"
	"github.com/familiahq/familia/internal/app/system/authz"
	"github.com/familiahq/familia/internal/app/system/httperr"
	"github.com/familiahq/familia/internal/app/system/timeouts"
	"github.com/familiahq/familia/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler holds the location sharing dependencies.
type Handler struct {
	Log         *zap.Logger
	Users       *userstore.Store
	Memberships *membershipstore.Store
	Locations   *locationstore.Store
}

// NewHandler constructs a locations Handler.
func NewHandler(log *zap.Logger, users *userstore.Store, memberships *membershipstore.Store, locations *locationstore.Store) *Handler {
	return &Handler{
		Log:         log,
		Users:       users,
		Memberships: memberships,
		Locations:   locations,
	}
}

type upsertRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ServeUpsert handles PUT /locations/me.
func (h *Handler) ServeUpsert(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	caller, err := authz.CurrentUser(ctx, r, h.Users)
	if err != nil {
		httperr.Write(w, h.Log, err)
		return
	}

	var req upsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, h.Log, httperr.UserInput("invalid request body"))
		return
	}
	if req.Latitude < -90 || req.Latitude > 90 || req.Longitude < -180 || req.Longitude > 180 {
		httperr.Write(w, h.Log, httperr.UserInput("latitude or longitude out of range"))
		return
	}

	if err := h.Locations.Upsert(ctx, caller.ID, req.Latitude, req.Longitude); err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ServeListByFamily handles GET /families/{id}/locations: last positions of
// the family's members. Member-gated.
func (h *Handler) ServeListByFamily(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	caller, err := authz.CurrentUser(ctx, r, h.Users)
	if err != nil {
		httperr.Write(w, h.Log, err)
		return
	}

	familyID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httperr.Write(w, h.Log, httperr.UserInput("invalid family id"))
		return
	}

	isMember, err := h.Memberships.Exists(ctx, familyID, caller.ID)
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}
	if !isMember {
		httperr.Write(w, h.Log, httperr.Forbidden("you are not a member of this family"))
		return
	}

	memberIDs, err := h.Memberships.MemberIDs(ctx, familyID)
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}
	locations, err := h.Locations.GetByUsers(ctx, memberIDs)
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}
	if locations == nil {
		locations = []models.Location{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(locations)
}

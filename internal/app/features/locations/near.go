package locations

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/familiahq/familia/internal/app/system/authz"
	"github.com/familiahq/familia/internal/app/system/httperr"
	"github.com/familiahq/familia/internal/app/system/timeouts"
	"github.com/familiahq/familia/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	defaultNearRadiusMeters = 5000
	maxNearRadiusMeters     = 50000
)

// ServeNear handles GET /locations/near?latitude=&longitude=&radius=.
//
// Proximity search over the caller's relatives only: results are restricted
// to members of families the caller belongs to, the same visibility rule as
// the per-family listing. Radius is in meters, capped at 50km.
func (h *Handler) ServeNear(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	caller, err := authz.CurrentUser(ctx, r, h.Users)
	if err != nil {
		httperr.Write(w, h.Log, err)
		return
	}

	latitude, err := strconv.ParseFloat(query.Get(r, "latitude"), 64)
	if err != nil {
		httperr.Write(w, h.Log, httperr.UserInput("invalid latitude"))
		return
	}
	longitude, err := strconv.ParseFloat(query.Get(r, "longitude"), 64)
	if err != nil {
		httperr.Write(w, h.Log, httperr.UserInput("invalid longitude"))
		return
	}
	if latitude < -90 || latitude > 90 || longitude < -180 || longitude > 180 {
		httperr.Write(w, h.Log, httperr.UserInput("latitude or longitude out of range"))
		return
	}

	radius := float64(defaultNearRadiusMeters)
	if raw := query.Get(r, "radius"); raw != "" {
		radius, err = strconv.ParseFloat(raw, 64)
		if err != nil || radius <= 0 {
			httperr.Write(w, h.Log, httperr.UserInput("invalid radius"))
			return
		}
		if radius > maxNearRadiusMeters {
			radius = maxNearRadiusMeters
		}
	}

	familyIDs, err := h.Memberships.FamilyIDsByUser(ctx, caller.ID)
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}
	visible := make(map[primitive.ObjectID]struct{})
	for _, fid := range familyIDs {
		memberIDs, err := h.Memberships.MemberIDs(ctx, fid)
		if err != nil {
			httperr.Write(w, h.Log, httperr.Internal(err))
			return
		}
		for _, uid := range memberIDs {
			visible[uid] = struct{}{}
		}
	}

	found, err := h.Locations.Near(ctx, latitude, longitude, radius)
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}

	locations := make([]models.Location, 0, len(found))
	for _, loc := range found {
		if _, ok := visible[loc.UserID]; ok {
			locations = append(locations, loc)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(locations)
}

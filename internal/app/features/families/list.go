package families

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/familiahq/familia/internal/app/system/httperr"
	"github.com/familiahq/familia/internal/app/system/timeouts"
	"github.com/familiahq/familia/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func familyIDParam(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return primitive.NilObjectID, httperr.UserInput("invalid family id")
	}
	return id, nil
}

// ServeList handles GET /families.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	families, err := h.Families.List(ctx)
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

// ServeGet handles GET /families/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, err := familyIDParam(r)
	if err != nil {
		httperr.Write(w, h.Log, err)
		return
	}

	f, err := h.Families.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httperr.Write(w, h.Log, httperr.NotFound("family not found"))
			return
		}
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(f)
}

// ServeMembers handles GET /families/{id}/members: the membership ledger
// joined out to user records.
func (h *Handler) ServeMembers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id, err := familyIDParam(r)
	if err != nil {
		httperr.Write(w, h.Log, err)
		return
	}

	if _, err := h.Families.GetByID(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httperr.Write(w, h.Log, httperr.NotFound("family not found"))
			return
		}
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}

	memberIDs, err := h.Memberships.MemberIDs(ctx, id)
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}

	members, err := h.Users.GetByIDs(ctx, memberIDs)
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}
	if members == nil {
		members = []models.User{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(members)
}

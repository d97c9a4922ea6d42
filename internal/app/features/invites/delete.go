package invites

import (
	"context"
	"errors"
	"net/http"

	"github.com/familiahq/familia/internal/app/policy/invitepolicy"
	"github.com/familiahq/familia/internal/app/system/authz"
	"github.com/familiahq/familia/internal/app/system/events"
	"github.com/familiahq/familia/internal/app/system/httperr"
	"github.com/familiahq/familia/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ServeDelete handles DELETE /invites/{id}: the sender withdrawing or the
// recipient rejecting. Anyone else is turned away.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	caller, err := authz.CurrentUser(ctx, r, h.Users)
	if err != nil {
		httperr.Write(w, h.Log, err)
		return
	}

	inviteID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httperr.Write(w, h.Log, httperr.UserInput("invalid invite id"))
		return
	}

	inv, err := h.Invites.GetByID(ctx, inviteID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httperr.Write(w, h.Log, httperr.NotFound("invite not found"))
			return
		}
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}

	if err := invitepolicy.CanDelete(inv, caller.ID); err != nil {
		httperr.Write(w, h.Log, err)
		return
	}

	// Hydrate before the document goes away so the event carries the full
	// picture.
	resolved, hydrated, err := h.resolveOne(ctx, *inv)
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}

	deleted, err := h.Invites.Delete(ctx, inv.ID)
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}
	if !deleted {
		// Consumed by a concurrent accept or delete between load and here.
		httperr.Write(w, h.Log, httperr.NotFound("invite not found"))
		return
	}

	if hydrated {
		h.Bus.Publish(events.TopicInviteDeleted, resolved)
	}
	h.Audit.InviteWithdrawn(ctx, r, caller.ID, inv.FamilyID, inv.ID)

	w.WriteHeader(http.StatusNoContent)
}

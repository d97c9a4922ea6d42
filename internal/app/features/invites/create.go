package invites

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	invitestore "github.com/familiahq/familia/internal/app/store/invites"
	"github.com/familiahq/familia/internal/app/policy/invitepolicy"
	"github.com/familiahq/familia/internal/app/system/authz"
	"github.com/familiahq/familia/internal/app/system/events"
	"github.com/familiahq/familia/internal/app/system/httperr"
	"github.com/familiahq/familia/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type createRequest struct {
	FamilyID string `json:"family_id"`
	To       string `json:"to"`
}

// ServeCreate handles POST /invites.
//
// Only the family's creator may send invites, never to themselves, never to
// an existing member, and never twice to the same person. The duplicate
// check is advisory; the unique (family_id, from_id, to_id) index is what
// actually prevents two racing sends from both landing.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	sender, err := authz.CurrentUser(ctx, r, h.Users)
	if err != nil {
		httperr.Write(w, h.Log, err)
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, h.Log, httperr.UserInput("invalid request body"))
		return
	}
	familyID, err := primitive.ObjectIDFromHex(req.FamilyID)
	if err != nil {
		httperr.Write(w, h.Log, httperr.UserInput("invalid family id"))
		return
	}
	toID, err := primitive.ObjectIDFromHex(req.To)
	if err != nil {
		httperr.Write(w, h.Log, httperr.UserInput("invalid recipient id"))
		return
	}

	family, err := h.Families.GetByID(ctx, familyID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httperr.Write(w, h.Log, httperr.NotFound("family not found"))
			return
		}
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}

	recipient, err := h.Users.GetByID(ctx, toID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httperr.Write(w, h.Log, httperr.NotFound("user not found"))
			return
		}
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}

	recipientIsMember, err := h.Memberships.Exists(ctx, familyID, recipient.ID)
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}
	alreadyInvited, err := h.Invites.Exists(ctx, familyID, sender.ID, recipient.ID)
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}

	if err := invitepolicy.CanSend(family, sender.ID, recipient.ID, recipientIsMember, alreadyInvited); err != nil {
		httperr.Write(w, h.Log, err)
		return
	}

	inv, err := h.Invites.Create(ctx, familyID, sender.ID, recipient.ID)
	if err != nil {
		if errors.Is(err, invitestore.ErrDuplicateInvite) {
			httperr.Write(w, h.Log, httperr.Forbidden("invite already sent"))
			return
		}
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}

	resolved, ok, err := h.resolveOne(ctx, inv)
	if err != nil || !ok {
		if err == nil {
			err = errors.New("invite references vanished during create")
		}
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}

	h.Bus.Publish(events.TopicInviteCreated, resolved)
	h.Audit.InviteCreated(ctx, r, sender.ID, recipient.ID, familyID, inv.ID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(resolved)
}

package invites

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/familiahq/familia/internal/app/system/authz"
	"github.com/familiahq/familia/internal/app/system/httperr"
	"github.com/familiahq/familia/internal/app/system/timeouts"
	"github.com/familiahq/familia/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeReceived handles GET /invites/received: pending invites addressed to
// the caller, hydrated.
func (h *Handler) ServeReceived(w http.ResponseWriter, r *http.Request) {
	h.serveList(w, r, func(ctx context.Context, userID primitive.ObjectID) ([]models.Invite, error) {
		return h.Invites.ListByRecipient(ctx, userID)
	})
}

// ServeSent handles GET /invites/sent: pending invites the caller sent.
func (h *Handler) ServeSent(w http.ResponseWriter, r *http.Request) {
	h.serveList(w, r, func(ctx context.Context, userID primitive.ObjectID) ([]models.Invite, error) {
		return h.Invites.ListBySender(ctx, userID)
	})
}

// ServeAll handles GET /invites: every pending invite.
func (h *Handler) ServeAll(w http.ResponseWriter, r *http.Request) {
	h.serveList(w, r, func(ctx context.Context, _ primitive.ObjectID) ([]models.Invite, error) {
		return h.Invites.ListAll(ctx)
	})
}

func (h *Handler) serveList(w http.ResponseWriter, r *http.Request, load func(context.Context, primitive.ObjectID) ([]models.Invite, error)) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	caller, err := authz.CurrentUser(ctx, r, h.Users)
	if err != nil {
		httperr.Write(w, h.Log, err)
		return
	}

	invs, err := load(ctx, caller.ID)
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}

	resolved, err := h.resolve(ctx, invs)
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resolved)
}

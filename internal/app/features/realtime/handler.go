// Package realtime pushes bus events to connected clients over websockets.
//
// Browsers cannot set the Authorization header on a websocket dial, so the
// flow is: POST /realtime/ticket (authenticated) returns a short-lived signed
// ticket, then GET /realtime/ws?ticket= presents it on the upgrade request.
package realtime

import (
	"context"
	"encoding/json"
	"net/http"

	membershipstore "github.com/familiahq/familia/internal/app/store/memberships"
	userstore "github.com/familiahq/familia/internal/app/store/users"
	"github.com/familiahq/familia/internal/app/system/authz"
	"github.com/familiahq/familia/internal/app/system/events"
	"github.com/familiahq/familia/internal/app/system/httperr"
	"github.com/familiahq/familia/internal/app/system/timeouts"
	"github.com/familiahq/familia/internal/app/system/wsauth"
	"go.uber.org/zap"
)

// Handler holds the realtime dependencies.
type Handler struct {
	Log         *zap.Logger
	Users       *userstore.Store
	Memberships *membershipstore.Store
	Bus         *events.Bus
	Ticketer    *wsauth.Ticketer
}

// NewHandler constructs a realtime Handler.
func NewHandler(log *zap.Logger, users *userstore.Store, memberships *membershipstore.Store, bus *events.Bus, ticketer *wsauth.Ticketer) *Handler {
	return &Handler{
		Log:         log,
		Users:       users,
		Memberships: memberships,
		Bus:         bus,
		Ticketer:    ticketer,
	}
}

// ServeTicket handles POST /realtime/ticket.
func (h *Handler) ServeTicket(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	caller, err := authz.CurrentUser(ctx, r, h.Users)
	if err != nil {
		httperr.Write(w, h.Log, err)
		return
	}

	ticket, err := h.Ticketer.Issue(caller.ID.Hex())
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"ticket": ticket})
}

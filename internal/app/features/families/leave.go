package families

import (
	"context"
	"errors"
	"net/http"

	"github.com/familiahq/familia/internal/app/system/authz"
	"github.com/familiahq/familia/internal/app/system/httperr"
	"github.com/familiahq/familia/internal/app/system/timeouts"
	"github.com/familiahq/familia/internal/app/system/txn"
	"go.mongodb.org/mongo-driver/mongo"
)

// ServeLeave handles POST /families/{id}/leave.
//
// Leaving is the inverse membership transition: remove the row, decrement
// member_count, in one scope. The creator cannot leave; a family never
// outlives its creator's membership.
func (h *Handler) ServeLeave(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "family leave")
	defer cancel()

	caller, err := authz.CurrentUser(ctx, r, h.Users)
	if err != nil {
		httperr.Write(w, h.Log, err)
		return
	}

	id, err := familyIDParam(r)
	if err != nil {
		httperr.Write(w, h.Log, err)
		return
	}

	family, err := h.Families.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httperr.Write(w, h.Log, httperr.NotFound("family not found"))
			return
		}
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}

	if family.CreatorID == caller.ID {
		httperr.Write(w, h.Log, httperr.Forbidden("you cannot leave a family you created"))
		return
	}

	isMember, err := h.Memberships.Exists(ctx, id, caller.ID)
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}
	if !isMember {
		httperr.Write(w, h.Log, httperr.Forbidden("you are not a member of this family"))
		return
	}

	err = txn.WithTransaction(ctx, h.Client, func(ctx context.Context) error {
		if err := h.Memberships.Remove(ctx, id, caller.ID); err != nil {
			return err
		}
		return h.Families.DecMemberCount(ctx, id)
	})
	if err != nil {
		httperr.Write(w, h.Log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

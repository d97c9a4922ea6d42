package invites

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	membershipstore "github.com/familiahq/familia/internal/app/store/memberships"
	"github.com/familiahq/familia/internal/app/policy/invitepolicy"
	"github.com/familiahq/familia/internal/app/system/authz"
	"github.com/familiahq/familia/internal/app/system/httperr"
	"github.com/familiahq/familia/internal/app/system/timeouts"
	"github.com/familiahq/familia/internal/app/system/txn"
	"github.com/familiahq/familia/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ServeAccept handles POST /invites/{id}/accept.
//
// Acceptance is the membership state transition: reserve a slot, insert the
// membership, consume the invite, atomically. The slot reservation is a
// conditional increment guarded by member_count < MaxFamilyMembers, so when
// two accepts race for a family's last free slot, exactly one wins; the
// loser sees the cap error. The increment runs first and is compensated when
// the membership insert fails, so the counter and the ledger stay consistent
// even on deployments where txn degrades to unsessioned execution. The
// unique membership index turns a racing duplicate join into a clean
// forbidden error instead of a double membership.
func (h *Handler) ServeAccept(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "invite accept")
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

	callerIsMember, err := h.Memberships.Exists(ctx, inv.FamilyID, caller.ID)
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}
	if err := invitepolicy.CanAccept(inv, caller.ID, callerIsMember); err != nil {
		httperr.Write(w, h.Log, err)
		return
	}

	err = txn.WithTransaction(ctx, h.Client, func(ctx context.Context) error {
		ok, err := h.Families.IncMemberCountIfBelow(ctx, inv.FamilyID, models.MaxFamilyMembers)
		if err != nil {
			return err
		}
		if !ok {
			return httperr.Forbidden("cannot add more than 12 members")
		}
		if err := h.Memberships.Add(ctx, inv.FamilyID, caller.ID); err != nil {
			// Release the reserved slot. Inside a real transaction the abort
			// does this anyway; on the unsessioned fallback it is what keeps
			// member_count equal to the membership rows.
			if derr := h.Families.DecMemberCount(ctx, inv.FamilyID); derr != nil {
				return derr
			}
			if errors.Is(err, membershipstore.ErrDuplicateMembership) {
				return httperr.Forbidden("user is already a member")
			}
			return err
		}
		if _, err := h.Invites.Delete(ctx, inv.ID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		httperr.Write(w, h.Log, err)
		return
	}

	h.Audit.InviteAccepted(ctx, r, caller.ID, inv.FamilyID, inv.ID)

	family, err := h.Families.GetByID(ctx, inv.FamilyID)
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(family)
}

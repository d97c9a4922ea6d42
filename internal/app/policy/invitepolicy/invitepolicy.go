// internal/app/policy/invitepolicy.go
package invitepolicy

import (
	"github.com/familiahq/familia/internal/app/system/httperr"
	"github.com/familiahq/familia/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Admission checks for the invite workflow. All checks are pure: callers load
// the relevant state first, then ask whether the transition is allowed. The
// returned errors are httperr values ready to render.

// CanSend reports whether sender may invite recipient to the family.
// recipientIsMember and alreadyInvited reflect current ledger state; the
// unique membership and invite indexes backstop them against races.
func CanSend(family *models.Family, senderID, recipientID primitive.ObjectID, recipientIsMember, alreadyInvited bool) error {
	if family.CreatorID != senderID {
		return httperr.Forbidden("you cannot invite someone to this family")
	}
	if senderID == recipientID {
		return httperr.Forbidden("you cannot invite yourself")
	}
	if recipientIsMember {
		return httperr.Forbidden("user is already a member")
	}
	if alreadyInvited {
		return httperr.Forbidden("invite already sent")
	}
	return nil
}

// CanAccept reports whether caller may accept the invite. Only the recipient
// can, and not when they already joined the family through another path.
func CanAccept(inv *models.Invite, callerID primitive.ObjectID, callerIsMember bool) error {
	if inv.ToID != callerID {
		return httperr.Forbidden("you cannot accept this invite")
	}
	if callerIsMember {
		return httperr.Forbidden("user is already a member")
	}
	return nil
}

// CanDelete reports whether caller may withdraw or reject the invite.
// The sender withdraws; the recipient rejects; nobody else may touch it.
func CanDelete(inv *models.Invite, callerID primitive.ObjectID) error {
	if inv.FromID != callerID && inv.ToID != callerID {
		return httperr.Forbidden("you cannot delete this invite")
	}
	return nil
}

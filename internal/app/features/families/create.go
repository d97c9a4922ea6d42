package families

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/familiahq/familia/internal/app/system/authz"
	"github.com/familiahq/familia/internal/app/system/httperr"
	"github.com/familiahq/familia/internal/app/system/sanitize"
	"github.com/familiahq/familia/internal/app/system/timeouts"
	"github.com/familiahq/familia/internal/app/system/txn"
	"github.com/familiahq/familia/internal/domain/models"
)

type createRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ServeCreate handles POST /families.
//
// Family creation is all-or-nothing: the family document, the creator's
// membership, and the bump of member_count to 1 land in one transaction
// scope. A family never exists without its creator as a member.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "family create")
	defer cancel()

	u, err := authz.CurrentUser(ctx, r, h.Users)
	if err != nil {
		httperr.Write(w, h.Log, err)
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, h.Log, httperr.UserInput("invalid request body"))
		return
	}
	if sanitize.Text(req.Name) == "" {
		httperr.Write(w, h.Log, httperr.UserInput("family name is required"))
		return
	}

	var created models.Family
	err = txn.WithTransaction(ctx, h.Client, func(ctx context.Context) error {
		f, err := h.Families.Create(ctx, models.Family{
			Name:        req.Name,
			Description: sanitize.Text(req.Description),
			CreatorID:   u.ID,
		})
		if err != nil {
			return err
		}
		if err := h.Memberships.Add(ctx, f.ID, u.ID); err != nil {
			return err
		}
		ok, err := h.Families.IncMemberCountIfBelow(ctx, f.ID, models.MaxFamilyMembers)
		if err != nil {
			return err
		}
		if !ok {
			return httperr.Forbidden("cannot add more than 12 members")
		}
		f.MemberCount = 1
		created = f
		return nil
	})
	if err != nil {
		httperr.Write(w, h.Log, err)
		return
	}

	h.Audit.FamilyCreated(ctx, r, u.ID, created.ID, created.Name)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(created)
}

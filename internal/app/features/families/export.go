package families

import (
	"context"
	"errors"
	"net/http"

	"github.com/familiahq/familia/internal/app/system/authz"
	"github.com/familiahq/familia/internal/app/system/csvutil"
	"github.com/familiahq/familia/internal/app/system/httperr"
	"github.com/familiahq/familia/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ServeMembersCSV handles GET /families/{id}/members.csv: the roster as a
// downloadable file. Members only; the roster is not public.
func (h *Handler) ServeMembersCSV(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
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

	if _, err := h.Families.GetByID(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httperr.Write(w, h.Log, httperr.NotFound("family not found"))
			return
		}
		httperr.Write(w, h.Log, httperr.Internal(err))
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

	memberships, err := h.Memberships.ListByFamily(ctx, id)
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}

	ids := make([]primitive.ObjectID, 0, len(memberships))
	joined := make(map[primitive.ObjectID]int, len(memberships))
	for i, m := range memberships {
		ids = append(ids, m.UserID)
		joined[m.UserID] = i
	}

	users, err := h.Users.GetByIDs(ctx, ids)
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}

	rows := make([]csvutil.RosterRow, 0, len(users))
	for _, u := range users {
		row := csvutil.RosterRow{Name: u.Name, Email: u.Email}
		if i, ok := joined[u.ID]; ok {
			row.JoinedAt = memberships[i].CreatedAt
		}
		rows = append(rows, row)
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="members.csv"`)
	if err := csvutil.WriteRoster(w, rows); err != nil {
		h.Log.Error("roster export failed mid-write", zap.Error(err))
	}
}

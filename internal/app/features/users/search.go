package users

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/familiahq/familia/internal/app/system/httperr"
	"github.com/familiahq/familia/internal/app/system/paging"
	"github.com/familiahq/familia/internal/app/system/timeouts"
	"github.com/familiahq/familia/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type searchPage struct {
	Users      []models.User `json:"users"`
	HasPrev    bool          `json:"has_prev"`
	HasNext    bool          `json:"has_next"`
	PrevCursor string        `json:"prev_cursor,omitempty"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// ServeSearch handles GET /users/search?q=&before=&after=.
// Prefix search over folded name and email, keyset-paged on name_ci; an empty
// query returns an empty page rather than the whole directory.
func (h *Handler) ServeSearch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	q := r.URL.Query().Get("q")
	before, after := paging.Cursors(r)
	cfg := paging.ConfigureKeyset(before, after)

	found, err := h.Users.Search(ctx, q, cfg)
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}

	res := paging.TrimPage(&found, before, after)
	if cfg.Direction == paging.Backward {
		paging.Reverse(found)
	}
	prev, next := paging.BuildCursors(found,
		func(u models.User) string { return u.NameCI },
		func(u models.User) primitive.ObjectID { return u.ID })

	if found == nil {
		found = []models.User{}
	}
	page := searchPage{
		Users:   found,
		HasPrev: res.HasPrev,
		HasNext: res.HasNext,
	}
	if res.HasPrev {
		page.PrevCursor = prev
	}
	if res.HasNext {
		page.NextCursor = next
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(page)
}

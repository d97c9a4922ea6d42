// Package memories is the shared moments surface: dated entries a family
// keeps together.
package memories

import (
	"context"
	"encoding/json"
	"net/http"

	membershipstore "github.com/familiahq/familia/internal/app/store/memberships"
	memorystore "github.com/familiahq/familia/internal/app/store/memories"
	userstore "github.com/familiahq/familia/internal/app/store/users"
	"github.com/familiahq/familia/internal/app/system/authz"
	"github.com/familiahq/familia/internal/app/system/httperr"
	"github.com/familiahq/familia/internal/app/system/sanitize"
	"github.com/familiahq/familia/internal/app/system/timeouts"
	"github.com/familiahq/familia/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler holds the memories dependencies.
type Handler struct {
	Log         *zap.Logger
	Users       *userstore.Store
	Memberships *membershipstore.Store
	Memories    *memorystore.Store
}

// NewHandler constructs a memories Handler.
func NewHandler(log *zap.Logger, users *userstore.Store, memberships *membershipstore.Store, memories *memorystore.Store) *Handler {
	return &Handler{
		Log:         log,
		Users:       users,
		Memberships: memberships,
		Memories:    memories,
	}
}

type createRequest struct {
	FamilyID string `json:"family_id"`
	Type     string `json:"type"`
	Content  string `json:"content"`
	Date     string `json:"date"`
}

// ServeCreate handles POST /memories. Member-gated.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	caller, err := authz.CurrentUser(ctx, r, h.Users)
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
	if sanitize.Text(req.Content) == "" {
		httperr.Write(w, h.Log, httperr.UserInput("memory content is required"))
		return
	}

	if err := h.requireMember(ctx, familyID, caller.ID); err != nil {
		httperr.Write(w, h.Log, err)
		return
	}

	memory, err := h.Memories.Create(ctx, models.Memory{
		Type:     sanitize.Text(req.Type),
		Content:  req.Content,
		FamilyID: familyID,
		Date:     req.Date,
	})
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(memory)
}

// ServeListByFamily handles GET /families/{id}/memories. Member-gated.
func (h *Handler) ServeListByFamily(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	caller, err := authz.CurrentUser(ctx, r, h.Users)
	if err != nil {
		httperr.Write(w, h.Log, err)
		return
	}

	familyID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httperr.Write(w, h.Log, httperr.UserInput("invalid family id"))
		return
	}

	if err := h.requireMember(ctx, familyID, caller.ID); err != nil {
		httperr.Write(w, h.Log, err)
		return
	}

	memories, err := h.Memories.ListByFamily(ctx, familyID)
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}
	if memories == nil {
		memories = []models.Memory{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(memories)
}

func (h *Handler) requireMember(ctx context.Context, familyID, userID primitive.ObjectID) error {
	isMember, err := h.Memberships.Exists(ctx, familyID, userID)
	if err != nil {
		return httperr.Internal(err)
	}
	if !isMember {
		return httperr.Forbidden("you are not a member of this family")
	}
	return nil
}

package messages

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/familiahq/familia/internal/app/system/authz"
	"github.com/familiahq/familia/internal/app/system/events"
	"github.com/familiahq/familia/internal/app/system/httperr"
	"github.com/familiahq/familia/internal/app/system/sanitize"
	"github.com/familiahq/familia/internal/app/system/timeouts"
	"github.com/familiahq/familia/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type sendRequest struct {
	FamilyID string `json:"family_id"`
	To       string `json:"to"`
	Text     string `json:"text"`
}

// ServeSend handles POST /messages. Both ends of the conversation must be
// members of the family the message travels in.
func (h *Handler) ServeSend(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	sender, err := authz.CurrentUser(ctx, r, h.Users)
	if err != nil {
		httperr.Write(w, h.Log, err)
		return
	}

	var req sendRequest
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

	text := sanitize.Text(req.Text)
	if text == "" {
		httperr.Write(w, h.Log, httperr.UserInput("message text is required"))
		return
	}
	if len(text) > models.MaxMessageLength {
		httperr.Write(w, h.Log, httperr.UserInput("message text is too long"))
		return
	}

	for _, userID := range []primitive.ObjectID{sender.ID, toID} {
		isMember, err := h.Memberships.Exists(ctx, familyID, userID)
		if err != nil {
			httperr.Write(w, h.Log, httperr.Internal(err))
			return
		}
		if !isMember {
			httperr.Write(w, h.Log, httperr.Forbidden("both users must be members of the family"))
			return
		}
	}

	msg, err := h.Messages.Create(ctx, models.Message{
		FamilyID: familyID,
		FromID:   sender.ID,
		ToID:     toID,
		Text:     req.Text,
	})
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}

	// Delivered only to the two participants; the realtime feature filters
	// by from/to ids.
	h.Bus.Publish(events.TopicMessageAdded, msg)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(msg)
}

// ServeConversation handles GET /messages?family=&with=: the caller's chat
// with one other member, newest first.
func (h *Handler) ServeConversation(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	caller, err := authz.CurrentUser(ctx, r, h.Users)
	if err != nil {
		httperr.Write(w, h.Log, err)
		return
	}

	familyID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("family"))
	if err != nil {
		httperr.Write(w, h.Log, httperr.UserInput("invalid family id"))
		return
	}
	withID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("with"))
	if err != nil {
		httperr.Write(w, h.Log, httperr.UserInput("invalid user id"))
		return
	}

	isMember, err := h.Memberships.Exists(ctx, familyID, caller.ID)
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}
	if !isMember {
		httperr.Write(w, h.Log, httperr.Forbidden("both users must be members of the family"))
		return
	}

	msgs, err := h.Messages.Conversation(ctx, familyID, caller.ID, withID, 0)
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}
	if msgs == nil {
		msgs = []models.Message{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(msgs)
}

// ServeDelete handles DELETE /messages/{id}. Author only.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	caller, err := authz.CurrentUser(ctx, r, h.Users)
	if err != nil {
		httperr.Write(w, h.Log, err)
		return
	}

	msgID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httperr.Write(w, h.Log, httperr.UserInput("invalid message id"))
		return
	}

	msg, err := h.Messages.GetByID(ctx, msgID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httperr.Write(w, h.Log, httperr.NotFound("message not found"))
			return
		}
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}
	if msg.FromID != caller.ID {
		httperr.Write(w, h.Log, httperr.Forbidden("you cannot delete this message"))
		return
	}

	if _, err := h.Messages.Delete(ctx, msg.ID); err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}

	h.Bus.Publish(events.TopicMessageDeleted, msg)

	w.WriteHeader(http.StatusNoContent)
}

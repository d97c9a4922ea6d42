package posts

import (
	"context"
	"net/http"

	"github.com/familiahq/familia/internal/app/system/authz"
	"github.com/familiahq/familia/internal/app/system/events"
	"github.com/familiahq/familia/internal/app/system/httperr"
	"github.com/familiahq/familia/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// likeEvent is the payload for post.liked / post.unliked.
type likeEvent struct {
	PostID   primitive.ObjectID `json:"post_id"`
	FamilyID primitive.ObjectID `json:"family_id"`
	UserID   primitive.ObjectID `json:"user_id"`
}

// EventFamilyID scopes like events to the post's family.
func (e likeEvent) EventFamilyID() primitive.ObjectID { return e.FamilyID }

// ServeLike handles POST /posts/{id}/like. Liking twice is a no-op success;
// the unique index swallows the duplicate.
func (h *Handler) ServeLike(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	caller, err := authz.CurrentUser(ctx, r, h.Users)
	if err != nil {
		httperr.Write(w, h.Log, err)
		return
	}

	post, err := h.loadPost(ctx, r)
	if err != nil {
		httperr.Write(w, h.Log, err)
		return
	}
	if err := h.requireMember(ctx, post.FamilyID, caller.ID); err != nil {
		httperr.Write(w, h.Log, err)
		return
	}

	added, err := h.Likes.Like(ctx, post.ID, caller.ID)
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}
	if added {
		h.Bus.Publish(events.TopicPostLiked, likeEvent{
			PostID:   post.ID,
			FamilyID: post.FamilyID,
			UserID:   caller.ID,
		})
	}

	w.WriteHeader(http.StatusNoContent)
}

// ServeUnlike handles DELETE /posts/{id}/like.
func (h *Handler) ServeUnlike(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	caller, err := authz.CurrentUser(ctx, r, h.Users)
	if err != nil {
		httperr.Write(w, h.Log, err)
		return
	}

	post, err := h.loadPost(ctx, r)
	if err != nil {
		httperr.Write(w, h.Log, err)
		return
	}
	if err := h.requireMember(ctx, post.FamilyID, caller.ID); err != nil {
		httperr.Write(w, h.Log, err)
		return
	}

	removed, err := h.Likes.Unlike(ctx, post.ID, caller.ID)
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}
	if removed {
		h.Bus.Publish(events.TopicPostUnliked, likeEvent{
			PostID:   post.ID,
			FamilyID: post.FamilyID,
			UserID:   caller.ID,
		})
	}

	w.WriteHeader(http.StatusNoContent)
}

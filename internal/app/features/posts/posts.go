package posts

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

type createRequest struct {
	FamilyID string `json:"family_id"`
	Title    string `json:"title"`
	Text     string `json:"text"`
	ImageURL string `json:"image_url"`
}

// ServeCreate handles POST /posts. Posting is member-gated.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	author, err := authz.CurrentUser(ctx, r, h.Users)
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
	if sanitize.Text(req.Title) == "" {
		httperr.Write(w, h.Log, httperr.UserInput("post title is required"))
		return
	}

	isMember, err := h.Memberships.Exists(ctx, familyID, author.ID)
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}
	if !isMember {
		httperr.Write(w, h.Log, httperr.Forbidden("sorry you cannot post in a family you don't belong to"))
		return
	}

	post, err := h.Posts.Create(ctx, models.Post{
		Title:    req.Title,
		Text:     req.Text,
		ImageURL: req.ImageURL,
		AuthorID: author.ID,
		FamilyID: familyID,
	})
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}

	h.Bus.Publish(events.TopicPostAdded, post)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(post)
}

// postView is a post with its like count attached.
type postView struct {
	models.Post
	LikeCount int64 `json:"like_count"`
}

// ServeGet handles GET /posts/{id}. Member-gated like the feed itself.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
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

	n, err := h.Likes.CountByPost(ctx, post.ID)
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(postView{Post: *post, LikeCount: n})
}

// ServeListByFamily handles GET /families/{id}/posts.
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

	posts, err := h.Posts.ListByFamily(ctx, familyID, 0)
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(posts)
}

func (h *Handler) loadPost(ctx context.Context, r *http.Request) (*models.Post, error) {
	postID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return nil, httperr.UserInput("invalid post id")
	}
	post, err := h.Posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, httperr.NotFound("post not found")
		}
		return nil, httperr.Internal(err)
	}
	return post, nil
}

func (h *Handler) requireMember(ctx context.Context, familyID, userID primitive.ObjectID) error {
	isMember, err := h.Memberships.Exists(ctx, familyID, userID)
	if err != nil {
		return httperr.Internal(err)
	}
	if !isMember {
		return httperr.Forbidden("sorry you cannot post in a family you don't belong to")
	}
	return nil
}

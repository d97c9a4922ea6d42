// Package posts is the family feed surface: posts and their likes.
package posts

import (
	familystore "github.com/familiahq/familia/internal/app/store/families"
	likestore "github.com/familiahq/familia/internal/app/store/likes"
	membershipstore "github.com/familiahq/familia/internal/app/store/memberships"
	poststore "github.com/familiahq/familia/internal/app/store/posts"
	userstore "github.com/familiahq/familia/internal/app/store/users"
	"github.com/familiahq/familia/internal/app/system/events"
	"go.uber.org/zap"
)

// Handler holds the feed dependencies.
type Handler struct {
	Log         *zap.Logger
	Users       *userstore.Store
	Families    *familystore.Store
	Memberships *membershipstore.Store
	Posts       *poststore.Store
	Likes       *likestore.Store
	Bus         *events.Bus
}

// NewHandler constructs a posts Handler.
func NewHandler(log *zap.Logger, users *userstore.Store, families *familystore.Store, memberships *membershipstore.Store, posts *poststore.Store, likes *likestore.Store, bus *events.Bus) *Handler {
	return &Handler{
		Log:         log,
		Users:       users,
		Families:    families,
		Memberships: memberships,
		Posts:       posts,
		Likes:       likes,
		Bus:         bus,
	}
}

// Package messages is the direct messaging surface between family members.
package messages

import (
	membershipstore "github.com/familiahq/familia/internal/app/store/memberships"
	messagestore "github.com/familiahq/familia/internal/app/store/messages"
	userstore "github.com/familiahq/familia/internal/app/store/users"
	"github.com/familiahq/familia/internal/app/system/events"
	"go.uber.org/zap"
)

// Handler holds the messaging dependencies.
type Handler struct {
	Log         *zap.Logger
	Users       *userstore.Store
	Memberships *membershipstore.Store
	Messages    *messagestore.Store
	Bus         *events.Bus
}

// NewHandler constructs a messages Handler.
func NewHandler(log *zap.Logger, users *userstore.Store, memberships *membershipstore.Store, messages *messagestore.Store, bus *events.Bus) *Handler {
	return &Handler{
		Log:         log,
		Users:       users,
		Memberships: memberships,
		Messages:    messages,
		Bus:         bus,
	}
}

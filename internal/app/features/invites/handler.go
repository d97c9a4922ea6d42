// Package invites is the invite workflow surface: the only path by which a
// user joins a family after its creation.
package invites

import (
	familystore "github.com/familiahq/familia/internal/app/store/families"
	invitestore "github.com/familiahq/familia/internal/app/store/invites"
	membershipstore "github.com/familiahq/familia/internal/app/store/memberships"
	userstore "github.com/familiahq/familia/internal/app/store/users"
	"github.com/familiahq/familia/internal/app/system/auditlog"
	"github.com/familiahq/familia/internal/app/system/events"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler holds the invite workflow dependencies. Client is needed for the
// acceptance transaction; Bus notifies realtime subscribers. Audit may be
// nil, which disables audit logging.
type Handler struct {
	Log         *zap.Logger
	Client      *mongo.Client
	Users       *userstore.Store
	Families    *familystore.Store
	Memberships *membershipstore.Store
	Invites     *invitestore.Store
	Bus         *events.Bus
	Audit       *auditlog.Logger
}

// NewHandler constructs an invites Handler.
func NewHandler(log *zap.Logger, client *mongo.Client, users *userstore.Store, families *familystore.Store, memberships *membershipstore.Store, invites *invitestore.Store, bus *events.Bus, audit *auditlog.Logger) *Handler {
	return &Handler{
		Log:         log,
		Client:      client,
		Users:       users,
		Families:    families,
		Memberships: memberships,
		Invites:     invites,
		Bus:         bus,
		Audit:       audit,
	}
}

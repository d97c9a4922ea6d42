// Package families is the family registry surface: creation, listing, and
// member rosters.
package families

import (
	familystore "github.com/familiahq/familia/internal/app/store/families"
	membershipstore "github.com/familiahq/familia/internal/app/store/memberships"
	userstore "github.com/familiahq/familia/internal/app/store/users"
	"github.com/familiahq/familia/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler holds the family registry dependencies. Client is needed for the
// creation transaction. Audit may be nil, which disables audit logging.
type Handler struct {
	Log         *zap.Logger
	Client      *mongo.Client
	Users       *userstore.Store
	Families    *familystore.Store
	Memberships *membershipstore.Store
	Audit       *auditlog.Logger
}

// NewHandler constructs a families Handler.
func NewHandler(log *zap.Logger, client *mongo.Client, users *userstore.Store, families *familystore.Store, memberships *membershipstore.Store, audit *auditlog.Logger) *Handler {
	return &Handler{
		Log:         log,
		Client:      client,
		Users:       users,
		Families:    families,
		Memberships: memberships,
		Audit:       audit,
	}
}

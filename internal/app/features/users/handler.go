// Package users is the user directory surface: login (resolve-or-create),
// search, and self-service profile updates.
package users

import (
	familystore "github.com/familiahq/familia/internal/app/store/families"
	membershipstore "github.com/familiahq/familia/internal/app/store/memberships"
	userstore "github.com/familiahq/familia/internal/app/store/users"
	"github.com/familiahq/familia/internal/app/system/auditlog"
	"go.uber.org/zap"
)

// Handler holds the user directory dependencies. Audit may be nil, which
// disables audit logging.
type Handler struct {
	Log         *zap.Logger
	Users       *userstore.Store
	Families    *familystore.Store
	Memberships *membershipstore.Store
	Audit       *auditlog.Logger
}

// NewHandler constructs a users Handler.
func NewHandler(log *zap.Logger, users *userstore.Store, families *familystore.Store, memberships *membershipstore.Store, audit *auditlog.Logger) *Handler {
	return &Handler{
		Log:         log,
		Users:       users,
		Families:    families,
		Memberships: memberships,
		Audit:       audit,
	}
}

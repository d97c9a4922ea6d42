// internal/app/system/authz/authz.go
// Package authz resolves the verified request identity to the internal user
// record. Features call CurrentUser at the top of every authenticated
// handler; the returned errors are httperr values ready to render.
package authz

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/familiahq/familia/internal/app/store/users"
	"github.com/familiahq/familia/internal/app/system/auth"
	"github.com/familiahq/familia/internal/app/system/httperr"
	"github.com/familiahq/familia/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// CurrentUser loads the user record behind the request's verified identity.
// Returns NotFound when the identity has no user record yet (the caller must
// log in first so resolveOrCreate can run).
func CurrentUser(ctx context.Context, r *http.Request, users *userstore.Store) (*models.User, error) {
	id, ok := auth.CurrentIdentity(r)
	if !ok {
		return nil, httperr.Unauthorized("missing credentials")
	}
	u, err := users.GetByAuthID(ctx, id.AuthID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, httperr.NotFound("user not found")
		}
		return nil, httperr.Internal(err)
	}
	return u, nil
}

// internal/app/system/auth/auth.go
// Package auth turns an opaque credential from the external identity provider
// into a verified Identity and injects it into the request context.
//
// The app never stores credentials: every request carries the provider's
// identity token, and the User Directory (users feature) maps the verified
// identity onto an internal user record.
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/familiahq/familia/internal/app/system/httperr"
	"go.uber.org/zap"
)

// Identity is the verified result of the external provider's credential.
type Identity struct {
	AuthID   string
	Name     string
	Email    string
	PhotoURL string
}

// Verifier resolves an opaque credential to a stable identity.
type Verifier interface {
	Verify(ctx context.Context, credential string) (Identity, error)
}

type ctxKey string

const identityKey ctxKey = "verifiedIdentity"

// CurrentIdentity returns the verified identity and a "found?" flag.
func CurrentIdentity(r *http.Request) (Identity, bool) {
	id, ok := r.Context().Value(identityKey).(Identity)
	return id, ok
}

// WithIdentity returns a request whose context carries the identity.
// Exposed for handler tests.
func WithIdentity(r *http.Request, id Identity) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), identityKey, id))
}

// RequireVerified verifies the Authorization credential on every request and
// injects the Identity into context. Requests without a valid credential get
// a 401 and never reach the handler.
func RequireVerified(v Verifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			credential := bearerToken(r)
			if credential == "" {
				httperr.Write(w, logger, httperr.Unauthorized("missing credentials"))
				return
			}

			id, err := v.Verify(r.Context(), credential)
			if err != nil {
				httperr.Write(w, logger, err)
				return
			}

			next.ServeHTTP(w, WithIdentity(r, id))
		})
	}
}

// bearerToken extracts the credential from the Authorization header.
// Both "Bearer <token>" and a bare token are accepted.
func bearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(h), "bearer ") {
		return strings.TrimSpace(h[len("bearer "):])
	}
	return h
}

// internal/app/system/auth/verifier.go
package auth

import (
	"context"

	"github.com/familiahq/familia/internal/app/system/httperr"
	"github.com/golang-jwt/jwt/v5"
)

// TokenVerifier verifies the identity provider's signed ID tokens.
// Tokens are HS256 JWTs carrying sub / name / email / picture claims.
type TokenVerifier struct {
	secret []byte
	issuer string
}

// NewTokenVerifier builds a verifier for tokens signed with secret.
// If issuer is non-empty, the token's iss claim must match.
func NewTokenVerifier(secret, issuer string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret), issuer: issuer}
}

var errInvalidToken = httperr.Unauthorized("invalid or expired token")

// Verify parses and validates the credential and extracts the identity.
func (v *TokenVerifier) Verify(ctx context.Context, credential string) (Identity, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	tok, err := jwt.Parse(credential, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil || !tok.Valid {
		return Identity{}, errInvalidToken
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, errInvalidToken
	}

	authID, _ := claims["sub"].(string)
	if authID == "" {
		return Identity{}, errInvalidToken
	}

	name, _ := claims["name"].(string)
	email, _ := claims["email"].(string)
	photoURL, _ := claims["picture"].(string)

	return Identity{
		AuthID:   authID,
		Name:     name,
		Email:    email,
		PhotoURL: photoURL,
	}, nil
}

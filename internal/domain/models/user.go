// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account created on first successful identity verification.
//
// NOTE:
//   - AuthID is the stable id issued by the external identity provider;
//     it is unique and never changes.
//   - Family membership is not embedded on User.
//     Use the memberships collection to discover a user's families.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AuthID   string             `bson:"auth_id" json:"auth_id"`
	Name     string             `bson:"name" json:"name"`
	NameCI   string             `bson:"name_ci" json:"name_ci"` // lowercase, diacritics-stripped
	Email    string             `bson:"email" json:"email"`
	About    string             `bson:"about,omitempty" json:"about,omitempty"`
	PhotoURL string             `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	FCMToken string             `bson:"fcm_token,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// internal/domain/models/membership.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Membership is the authoritative join between users and families.
// Exactly one document per (family_id, user_id); enforced by a unique index.
type Membership struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FamilyID primitive.ObjectID `bson:"family_id" json:"family_id"`
	UserID   primitive.ObjectID `bson:"user_id" json:"user_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

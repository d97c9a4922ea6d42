// internal/domain/models/invite.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Invite is a pending proposal for a user to join a family. Only the family's
// creator may send one. An invite either gets deleted (withdrawn or rejected)
// or is consumed by acceptance; there is no persisted "accepted" state.
// A unique index on (family_id, from_id, to_id) prevents duplicate sends.
type Invite struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FamilyID primitive.ObjectID `bson:"family_id" json:"family_id"`
	FromID   primitive.ObjectID `bson:"from_id" json:"from_id"`
	ToID     primitive.ObjectID `bson:"to_id" json:"to_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// ResolvedInvite is an invite with its references hydrated. Reference ids and
// hydrated documents are never conflated in one field; hydration is an
// explicit, separate step.
type ResolvedInvite struct {
	ID     primitive.ObjectID `json:"id"`
	Family Family             `json:"family"`
	From   User               `json:"from"`
	To     User               `json:"to"`

	CreatedAt time.Time `json:"created_at"`
}

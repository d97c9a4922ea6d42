// internal/domain/models/family.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxFamilyMembers is the hard cap on memberships per family.
const MaxFamilyMembers = 12

// Family is a bounded group with exactly one creator and up to
// MaxFamilyMembers members.
//
// NOTE:
//   - Member lists are not embedded on Family. All membership is stored in
//     the memberships collection.
//   - MemberCount is denormalized for read efficiency and must always equal
//     the number of membership documents referencing this family. The only
//     writers are the family-creation transaction and the invite-accept
//     transition.
type Family struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"name_ci"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatorID   primitive.ObjectID `bson:"creator_id" json:"creator_id"`
	MemberCount int                `bson:"member_count" json:"member_count"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

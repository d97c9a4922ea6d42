// internal/domain/models/message.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxMessageLength caps direct-message text size.
const MaxMessageLength = 1000

// Message is a direct message between two members of the same family.
type Message struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FamilyID primitive.ObjectID `bson:"family_id" json:"family_id"`
	FromID   primitive.ObjectID `bson:"from_id" json:"from_id"`
	ToID     primitive.ObjectID `bson:"to_id" json:"to_id"`
	Text     string             `bson:"text" json:"text"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

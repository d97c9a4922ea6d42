// internal/domain/models/memory.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory is a shared family moment (an anniversary, a trip, a photo note).
type Memory struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Type     string             `bson:"type" json:"type"`
	Content  string             `bson:"content" json:"content"`
	FamilyID primitive.ObjectID `bson:"family_id" json:"family_id"`
	Date     string             `bson:"date" json:"date"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

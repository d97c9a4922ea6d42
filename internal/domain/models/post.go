// internal/domain/models/post.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is content shared inside a family. Only members may post.
type Post struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title    string             `bson:"title" json:"title"`
	Text     string             `bson:"text,omitempty" json:"text,omitempty"`
	ImageURL string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
	AuthorID primitive.ObjectID `bson:"author_id" json:"author_id"`
	FamilyID primitive.ObjectID `bson:"family_id" json:"family_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Like marks a user's like on a post. One document per (post_id, liked_by_id).
type Like struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PostID    primitive.ObjectID `bson:"post_id" json:"post_id"`
	LikedByID primitive.ObjectID `bson:"liked_by_id" json:"liked_by_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// internal/app/store/likes/likestore.go
package likestore

import (
	"context"
	"time"

	"github.com/familiahq/familia/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("likes")}
}

// Like records a user's like on a post. Liking twice is a no-op: the unique
// (post_id, liked_by_id) index absorbs the duplicate. Reports whether a new
// like was recorded.
func (s *Store) Like(ctx context.Context, postID, userID primitive.ObjectID) (bool, error) {
	_, err := s.c.InsertOne(ctx, models.Like{
		ID:        primitive.NewObjectID(),
		PostID:    postID,
		LikedByID: userID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Unlike removes the user's like. Reports whether a like was removed.
func (s *Store) Unlike(ctx context.Context, postID, userID primitive.ObjectID) (bool, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"post_id": postID, "liked_by_id": userID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}

// CountByPost returns the number of likes on a post.
func (s *Store) CountByPost(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"post_id": postID})
}

// LikerIDs returns the ids of users who liked the post.
func (s *Store) LikerIDs(ctx context.Context, postID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := s.c.Find(ctx, bson.M{"post_id": postID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var l models.Like
		if err := cur.Decode(&l); err != nil {
			return nil, err
		}
		ids = append(ids, l.LikedByID)
	}
	return ids, cur.Err()
}

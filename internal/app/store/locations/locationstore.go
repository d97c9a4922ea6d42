// internal/app/store/locations/locationstore.go
package locationstore

import (
	"context"
	"errors"
	"time"

	"github.com/familiahq/familia/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("locations")}
}

var errBadCoordinates = errors.New("latitude or longitude out of range")

// Upsert writes the user's last shared position. One document per user,
// replaced in place.
func (s *Store) Upsert(ctx context.Context, userID primitive.ObjectID, latitude, longitude float64) error {
	if latitude < -90 || latitude > 90 || longitude < -180 || longitude > 180 {
		return errBadCoordinates
	}

	now := time.Now().UTC()
	_, err := s.c.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{
			"$set": bson.M{
				"location":   models.NewGeoPoint(latitude, longitude),
				"updated_at": now,
			},
			"$setOnInsert": bson.M{
				"user_id":    userID,
				"created_at": now,
			},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

// GetByUser loads a user's last position.
// Returns mongo.ErrNoDocuments if the user never shared one.
func (s *Store) GetByUser(ctx context.Context, userID primitive.ObjectID) (*models.Location, error) {
	var l models.Location
	if err := s.c.FindOne(ctx, bson.M{"user_id": userID}).Decode(&l); err != nil {
		return nil, err
	}
	return &l, nil
}

// GetByUsers loads the last positions for a set of users. Users who never
// shared a position are simply absent from the result.
func (s *Store) GetByUsers(ctx context.Context, userIDs []primitive.ObjectID) ([]models.Location, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"user_id": bson.M{"$in": userIDs}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var locations []models.Location
	if err := cur.All(ctx, &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

// DeleteStale removes positions not refreshed within the retention window.
// Returns the number of documents removed.
func (s *Store) DeleteStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	res, err := s.c.DeleteMany(ctx, bson.M{"updated_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Near returns locations within maxMeters of the given point, closest first.
// Uses the 2dsphere index.
func (s *Store) Near(ctx context.Context, latitude, longitude float64, maxMeters float64) ([]models.Location, error) {
	if latitude < -90 || latitude > 90 || longitude < -180 || longitude > 180 {
		return nil, errBadCoordinates
	}

	filter := bson.M{
		"location": bson.M{
			"$near": bson.M{
				"$geometry":    models.NewGeoPoint(latitude, longitude),
				"$maxDistance": maxMeters,
			},
		},
	}
	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var locations []models.Location
	if err := cur.All(ctx, &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

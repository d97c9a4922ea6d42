// internal/app/store/memories/memorystore.go
package memorystore

import (
	"context"
	"errors"
	"time"

	"github.com/familiahq/familia/internal/app/system/sanitize"
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
	return &Store{c: db.Collection("memories")}
}

var errMissingContent = errors.New("memory content is required")

// Create inserts a memory after sanitizing the content.
func (s *Store) Create(ctx context.Context, m models.Memory) (models.Memory, error) {
	m.ID = primitive.NewObjectID()
	m.Content = sanitize.Text(m.Content)

	if m.Content == "" {
		return models.Memory{}, errMissingContent
	}

	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.Memory{}, err
	}
	return m, nil
}

// ListByFamily returns the family's memories, most recent date first.
func (s *Store) ListByFamily(ctx context.Context, familyID primitive.ObjectID) ([]models.Memory, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"family_id": familyID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var memories []models.Memory
	if err := cur.All(ctx, &memories); err != nil {
		return nil, err
	}
	return memories, nil
}

// Delete removes a memory by id. Reports whether a document was deleted.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}

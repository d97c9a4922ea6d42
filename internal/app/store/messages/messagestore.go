// internal/app/store/messages/messagestore.go
package messagestore

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
	return &Store{c: db.Collection("messages")}
}

var (
	errMissingText = errors.New("message text is required")
	errTextTooLong = errors.New("message text is too long")
)

// Create inserts a direct message after sanitizing and length-checking the
// text.
func (s *Store) Create(ctx context.Context, m models.Message) (models.Message, error) {
	m.ID = primitive.NewObjectID()
	m.Text = sanitize.Text(m.Text)

	if m.Text == "" {
		return models.Message{}, errMissingText
	}
	if len(m.Text) > models.MaxMessageLength {
		return models.Message{}, errTextTooLong
	}

	m.CreatedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.Message{}, err
	}
	return m, nil
}

// GetByID loads a message. Returns mongo.ErrNoDocuments if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Message, error) {
	var m models.Message
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Conversation returns the messages exchanged between two users inside a
// family, newest first.
func (s *Store) Conversation(ctx context.Context, familyID, a, b primitive.ObjectID, limit int64) ([]models.Message, error) {
	if limit <= 0 {
		limit = 100
	}
	filter := bson.M{
		"family_id": familyID,
		"$or": []bson.M{
			{"from_id": a, "to_id": b},
			{"from_id": b, "to_id": a},
		},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var messages []models.Message
	if err := cur.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// Delete removes a message by id. Reports whether a document was deleted.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}

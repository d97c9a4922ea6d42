// internal/app/store/invites/invitestore.go
package invitestore

import (
	"context"
	"errors"
	"time"

	"github.com/familiahq/familia/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("invites")}
}

// ErrDuplicateInvite is returned when an identical pending invite already
// exists. Backed by the unique (family_id, from_id, to_id) index.
var ErrDuplicateInvite = errors.New("invite already sent")

// Create inserts a pending invite.
func (s *Store) Create(ctx context.Context, familyID, fromID, toID primitive.ObjectID) (models.Invite, error) {
	inv := models.Invite{
		ID:        primitive.NewObjectID(),
		FamilyID:  familyID,
		FromID:    fromID,
		ToID:      toID,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, inv); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Invite{}, ErrDuplicateInvite
		}
		return models.Invite{}, err
	}
	return inv, nil
}

// GetByID loads an invite. Returns mongo.ErrNoDocuments if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Invite, error) {
	var inv models.Invite
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// Exists checks whether a pending invite exists for (familyID, fromID, toID).
func (s *Store) Exists(ctx context.Context, familyID, fromID, toID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{
		"family_id": familyID,
		"from_id":   fromID,
		"to_id":     toID,
	}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes an invite by id. Reports whether a document was deleted;
// false means it was already gone (e.g. consumed by a concurrent accept).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}

// ListByRecipient returns pending invites addressed to the user,
// newest first.
func (s *Store) ListByRecipient(ctx context.Context, userID primitive.ObjectID) ([]models.Invite, error) {
	return s.list(ctx, bson.M{"to_id": userID})
}

// ListBySender returns pending invites sent by the user, newest first.
func (s *Store) ListBySender(ctx context.Context, userID primitive.ObjectID) ([]models.Invite, error) {
	return s.list(ctx, bson.M{"from_id": userID})
}

// ListAll returns every pending invite, newest first.
func (s *Store) ListAll(ctx context.Context) ([]models.Invite, error) {
	return s.list(ctx, bson.M{})
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.Invite, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var invites []models.Invite
	if err := cur.All(ctx, &invites); err != nil {
		return nil, err
	}
	return invites, nil
}

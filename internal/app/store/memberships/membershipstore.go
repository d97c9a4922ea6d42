// internal/app/store/memberships/membershipstore.go
package membershipstore

import (
	"context"
	"errors"
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
	return &Store{c: db.Collection("memberships")}
}

// ErrDuplicateMembership is returned when the user already belongs to the
// family. Backed by the unique (family_id, user_id) index, so the check is
// race-proof rather than check-then-act.
var ErrDuplicateMembership = errors.New("user is already a member")

// Add creates a membership for (familyID, userID).
func (s *Store) Add(ctx context.Context, familyID, userID primitive.ObjectID) error {
	_, err := s.c.InsertOne(ctx, models.Membership{
		ID:        primitive.NewObjectID(),
		FamilyID:  familyID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateMembership
		}
		return err
	}
	return nil
}

// Remove deletes the membership document for (familyID, userID).
func (s *Store) Remove(ctx context.Context, familyID, userID primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"family_id": familyID, "user_id": userID})
	return err
}

// Exists checks whether the user belongs to the family.
func (s *Store) Exists(ctx context.Context, familyID, userID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"family_id": familyID, "user_id": userID}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CountByFamily returns the number of memberships in the family. The families
// collection denormalizes this as member_count; this count is the source of
// truth for reconciliation.
func (s *Store) CountByFamily(ctx context.Context, familyID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"family_id": familyID})
}

// MemberIDs returns the user ids belonging to the family.
func (s *Store) MemberIDs(ctx context.Context, familyID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := s.c.Find(ctx, bson.M{"family_id": familyID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var m models.Membership
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		ids = append(ids, m.UserID)
	}
	return ids, cur.Err()
}

// ListByFamily returns the membership documents for the family, oldest first.
// Used where the join date matters, like the roster export.
func (s *Store) ListByFamily(ctx context.Context, familyID primitive.ObjectID) ([]models.Membership, error) {
	cur, err := s.c.Find(ctx, bson.M{"family_id": familyID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var members []models.Membership
	if err := cur.All(ctx, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// FamilyIDsByUser returns the ids of the families the user belongs to.
func (s *Store) FamilyIDsByUser(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var m models.Membership
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		ids = append(ids, m.FamilyID)
	}
	return ids, cur.Err()
}

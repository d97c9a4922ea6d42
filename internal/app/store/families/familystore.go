// internal/app/store/families/familystore.go
package familystore

import (
	"context"
	"errors"
	"time"

	"github.com/familiahq/familia/internal/app/system/normalize"
	"github.com/familiahq/familia/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("families")}
}

var errMissingName = errors.New("family name is required")

// Create inserts a family with a zero member count. The caller is expected
// to add the creator's membership and bump the count in the same transaction
// scope (see the families feature).
func (s *Store) Create(ctx context.Context, f models.Family) (models.Family, error) {
	f.ID = primitive.NewObjectID()
	f.Name = normalize.Name(f.Name)
	f.NameCI = text.Fold(f.Name)
	f.MemberCount = 0

	if f.Name == "" {
		return models.Family{}, errMissingName
	}

	now := time.Now().UTC()
	f.CreatedAt = now
	f.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, f); err != nil {
		return models.Family{}, err
	}
	return f, nil
}

// GetByID loads a family by ObjectID. Returns mongo.ErrNoDocuments if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Family, error) {
	var f models.Family
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&f); err != nil {
		return nil, err
	}
	return &f, nil
}

// GetByIDs loads the families for a set of ids, in no particular order.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Family, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var families []models.Family
	if err := cur.All(ctx, &families); err != nil {
		return nil, err
	}
	return families, nil
}

// List returns all families sorted by name.
func (s *Store) List(ctx context.Context) ([]models.Family, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var families []models.Family
	if err := cur.All(ctx, &families); err != nil {
		return nil, err
	}
	return families, nil
}

// IncMemberCountIfBelow atomically increments member_count only while it is
// under max. Reports whether the increment happened; false means the family
// is full (or does not exist). This is the cap guard for concurrent invite
// acceptance: two racing accepts against one free slot match at most once.
func (s *Store) IncMemberCountIfBelow(ctx context.Context, id primitive.ObjectID, max int) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "member_count": bson.M{"$lt": max}},
		bson.M{
			"$inc": bson.M{"member_count": 1},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// DecMemberCount decrements member_count, flooring at zero.
func (s *Store) DecMemberCount(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "member_count": bson.M{"$gt": 0}},
		bson.M{
			"$inc": bson.M{"member_count": -1},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

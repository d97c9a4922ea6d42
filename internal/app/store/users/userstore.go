// internal/app/store/users/userstore.go
package userstore

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - AuthID / authID / auth_id: The stable id issued by the external identity provider

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/familiahq/familia/internal/app/system/normalize"
	"github.com/familiahq/familia/internal/app/system/paging"
	"github.com/familiahq/familia/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
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
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateEmail is returned when another account already owns the email.
	ErrDuplicateEmail = errors.New("a user with this email already exists")

	ErrMissingAuthID = errors.New("auth id is required")
	ErrMissingName   = errors.New("name is required")
	ErrMissingEmail  = errors.New("email is required")
)

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByAuthID loads a user by the external provider's id.
// Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByAuthID(ctx context.Context, authID string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"auth_id": authID}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email.
// Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByIDs loads the users for a set of ids, in no particular order.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Create inserts a new user after normalizing and validating fields.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.AuthID = normalize.Name(u.AuthID)
	u.Name = normalize.Name(u.Name)
	u.NameCI = text.Fold(u.Name)
	u.Email = normalize.Email(u.Email)

	if u.AuthID == "" {
		return models.User{}, ErrMissingAuthID
	}
	if u.Name == "" {
		return models.User{}, ErrMissingName
	}
	if u.Email == "" {
		return models.User{}, ErrMissingEmail
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// ResolveOrCreate returns the user for a verified identity, creating the
// record on first login. Safe to call concurrently for the same identity:
// the unique auth_id index turns a racing insert into a re-read.
func (s *Store) ResolveOrCreate(ctx context.Context, authID, name, email, photoURL string) (*models.User, error) {
	u, err := s.GetByAuthID(ctx, authID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	created, err := s.Create(ctx, models.User{
		AuthID:   authID,
		Name:     name,
		Email:    email,
		PhotoURL: photoURL,
	})
	if err == nil {
		return &created, nil
	}
	if wafflemongo.IsDup(err) || errors.Is(err, ErrDuplicateEmail) {
		// Lost the race to a concurrent first login.
		return s.GetByAuthID(ctx, authID)
	}
	return nil, err
}

// ProfileUpdate holds the fields a user may change on their own record.
// Nil pointers leave the field untouched.
type ProfileUpdate struct {
	Name     *string
	About    *string
	PhotoURL *string
}

// UpdateProfile applies a partial profile update.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd ProfileUpdate) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Name != nil {
		name := normalize.Name(*upd.Name)
		if name == "" {
			return ErrMissingName
		}
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	if upd.About != nil {
		set["about"] = *upd.About
	}
	if upd.PhotoURL != nil {
		set["photo_url"] = *upd.PhotoURL
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetFCMToken stores the user's push notification token.
func (s *Store) SetFCMToken(ctx context.Context, id primitive.ObjectID, token string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"fcm_token": token, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Search returns users whose folded name or email starts with the query,
// sorted by name. The query is quoted so user input cannot inject regex.
func (s *Store) Search(ctx context.Context, q string, page paging.KeysetConfig) ([]models.User, error) {
	q = normalize.Name(q)
	if q == "" {
		return nil, nil
	}

	prefix := "^" + regexp.QuoteMeta(text.Fold(q))
	filter := bson.M{"$or": []bson.M{
		{"name_ci": bson.M{"$regex": prefix}},
		{"email": bson.M{"$regex": "^" + regexp.QuoteMeta(normalize.Email(q))}},
	}}
	if window := page.KeysetWindow("name_ci"); window != nil {
		filter = bson.M{"$and": []bson.M{filter, window}}
	}

	opts := options.Find()
	page.ApplyToFind(opts, "name_ci")
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

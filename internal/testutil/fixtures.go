package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/familiahq/familia/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user. AuthID is derived from the email so the
// same fixture user can be addressed through the identity layer.
func (f *Fixtures) CreateUser(ctx context.Context, name, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:        primitive.NewObjectID(),
		AuthID:    "auth|" + email,
		Name:      name,
		NameCI:    text.Fold(name),
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateFamily creates a family with the creator already a member
// (member_count 1 plus the creator's membership), matching what family
// creation produces in production.
func (f *Fixtures) CreateFamily(ctx context.Context, name string, creatorID primitive.ObjectID) models.Family {
	f.t.Helper()

	now := time.Now().UTC()
	family := models.Family{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      text.Fold(name),
		CreatorID:   creatorID,
		MemberCount: 1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := f.db.Collection("families").InsertOne(ctx, family); err != nil {
		f.t.Fatalf("failed to create test family: %v", err)
	}
	if _, err := f.db.Collection("memberships").InsertOne(ctx, models.Membership{
		ID:        primitive.NewObjectID(),
		FamilyID:  family.ID,
		UserID:    creatorID,
		CreatedAt: now,
	}); err != nil {
		f.t.Fatalf("failed to create creator membership: %v", err)
	}
	return family
}

// AddMember joins a user to a family directly: inserts the membership and
// bumps member_count, bypassing the invite workflow.
func (f *Fixtures) AddMember(ctx context.Context, familyID, userID primitive.ObjectID) models.Membership {
	f.t.Helper()

	now := time.Now().UTC()
	m := models.Membership{
		ID:        primitive.NewObjectID(),
		FamilyID:  familyID,
		UserID:    userID,
		CreatedAt: now,
	}
	if _, err := f.db.Collection("memberships").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test membership: %v", err)
	}
	if _, err := f.db.Collection("families").UpdateOne(ctx,
		bson.M{"_id": familyID},
		bson.M{"$inc": bson.M{"member_count": 1}},
	); err != nil {
		f.t.Fatalf("failed to bump member_count: %v", err)
	}
	return m
}

// FillFamily adds members until the family has total members, creating
// throwaway users as needed. Useful for cap tests.
func (f *Fixtures) FillFamily(ctx context.Context, family models.Family, total int) {
	f.t.Helper()

	for i := family.MemberCount; i < total; i++ {
		u := f.CreateUser(ctx,
			fmt.Sprintf("Filler %d", i),
			fmt.Sprintf("filler%d-%s@example.com", i, family.ID.Hex()))
		f.AddMember(ctx, family.ID, u.ID)
	}
}

// CreateInvite creates a pending invite.
func (f *Fixtures) CreateInvite(ctx context.Context, familyID, fromID, toID primitive.ObjectID) models.Invite {
	f.t.Helper()

	invite := models.Invite{
		ID:        primitive.NewObjectID(),
		FamilyID:  familyID,
		FromID:    fromID,
		ToID:      toID,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("invites").InsertOne(ctx, invite); err != nil {
		f.t.Fatalf("failed to create test invite: %v", err)
	}
	return invite
}

// CreatePost creates a post authored by the given member.
func (f *Fixtures) CreatePost(ctx context.Context, familyID, authorID primitive.ObjectID, title string) models.Post {
	f.t.Helper()

	now := time.Now().UTC()
	post := models.Post{
		ID:        primitive.NewObjectID(),
		Title:     title,
		AuthorID:  authorID,
		FamilyID:  familyID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("posts").InsertOne(ctx, post); err != nil {
		f.t.Fatalf("failed to create test post: %v", err)
	}
	return post
}

// MemberCount reads the current member_count of a family straight from the
// database.
func (f *Fixtures) MemberCount(ctx context.Context, familyID primitive.ObjectID) int {
	f.t.Helper()

	var fam models.Family
	if err := f.db.Collection("families").FindOne(ctx, bson.M{"_id": familyID}).Decode(&fam); err != nil {
		f.t.Fatalf("failed to load family: %v", err)
	}
	return fam.MemberCount
}

// MembershipCount counts membership documents for a family.
func (f *Fixtures) MembershipCount(ctx context.Context, familyID primitive.ObjectID) int64 {
	f.t.Helper()

	n, err := f.db.Collection("memberships").CountDocuments(ctx, bson.M{"family_id": familyID})
	if err != nil {
		f.t.Fatalf("failed to count memberships: %v", err)
	}
	return n
}

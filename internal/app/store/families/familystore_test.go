package familystore_test

import (
	"sync"
	"testing"

	familystore "github.com/familiahq/familia/internal/app/store/families"
	"github.com/familiahq/familia/internal/testutil"
	"github.com/familiahq/familia/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := familystore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "creator@example.com")

	family, err := store.Create(ctx, models.Family{
		Name:      "  The Smiths  ",
		CreatorID: creator.ID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if family.Name != "The Smiths" {
		t.Errorf("Name: got %q, want %q", family.Name, "The Smiths")
	}
	if family.MemberCount != 0 {
		t.Errorf("MemberCount: got %d, want 0", family.MemberCount)
	}

	loaded, err := store.GetByID(ctx, family.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if loaded.CreatorID != creator.ID {
		t.Errorf("CreatorID: got %v, want %v", loaded.CreatorID, creator.ID)
	}
}

func TestStore_Create_EmptyName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := familystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, models.Family{
		Name:      "   ",
		CreatorID: primitive.NewObjectID(),
	})
	if err == nil {
		t.Fatal("expected error for empty family name")
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := familystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByID(ctx, primitive.NewObjectID())
	if err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments, got %v", err)
	}
}

func TestStore_IncMemberCountIfBelow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := familystore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "creator@example.com")
	family := fixtures.CreateFamily(ctx, "The Testers", creator.ID)

	ok, err := store.IncMemberCountIfBelow(ctx, family.ID, models.MaxFamilyMembers)
	if err != nil {
		t.Fatalf("IncMemberCountIfBelow failed: %v", err)
	}
	if !ok {
		t.Fatal("increment should succeed below the cap")
	}
	if got := fixtures.MemberCount(ctx, family.ID); got != 2 {
		t.Errorf("member_count: got %d, want 2", got)
	}
}

func TestStore_IncMemberCountIfBelow_AtCap(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := familystore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "creator@example.com")
	family := fixtures.CreateFamily(ctx, "Full House", creator.ID)
	fixtures.FillFamily(ctx, family, models.MaxFamilyMembers)

	ok, err := store.IncMemberCountIfBelow(ctx, family.ID, models.MaxFamilyMembers)
	if err != nil {
		t.Fatalf("IncMemberCountIfBelow failed: %v", err)
	}
	if ok {
		t.Fatal("increment must not succeed at the cap")
	}
	if got := fixtures.MemberCount(ctx, family.ID); got != models.MaxFamilyMembers {
		t.Errorf("member_count: got %d, want %d", got, models.MaxFamilyMembers)
	}
}

// One free slot, many concurrent increments: exactly one may win.
func TestStore_IncMemberCountIfBelow_Race(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := familystore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "creator@example.com")
	family := fixtures.CreateFamily(ctx, "Almost Full", creator.ID)
	fixtures.FillFamily(ctx, family, models.MaxFamilyMembers-1)

	const racers = 8
	var wg sync.WaitGroup
	wins := make(chan bool, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := store.IncMemberCountIfBelow(ctx, family.ID, models.MaxFamilyMembers)
			if err != nil {
				t.Errorf("IncMemberCountIfBelow failed: %v", err)
				return
			}
			wins <- ok
		}()
	}
	wg.Wait()
	close(wins)

	won := 0
	for ok := range wins {
		if ok {
			won++
		}
	}
	if won != 1 {
		t.Errorf("expected exactly 1 winner, got %d", won)
	}
	if got := fixtures.MemberCount(ctx, family.ID); got != models.MaxFamilyMembers {
		t.Errorf("member_count: got %d, want %d", got, models.MaxFamilyMembers)
	}
}

func TestStore_DecMemberCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := familystore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "creator@example.com")
	family := fixtures.CreateFamily(ctx, "The Testers", creator.ID)

	if err := store.DecMemberCount(ctx, family.ID); err != nil {
		t.Fatalf("DecMemberCount failed: %v", err)
	}
	if got := fixtures.MemberCount(ctx, family.ID); got != 0 {
		t.Errorf("member_count: got %d, want 0", got)
	}

	// Already at zero, nothing to decrement.
	if err := store.DecMemberCount(ctx, family.ID); err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments at zero, got %v", err)
	}
}

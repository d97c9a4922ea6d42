package locationstore_test

import (
	"testing"
	"time"

	locationstore "github.com/familiahq/familia/internal/app/store/locations"
	"github.com/familiahq/familia/internal/domain/models"
	"github.com/familiahq/familia/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Upsert(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := locationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "Alice", "alice@example.com")

	if err := store.Upsert(ctx, u.ID, 38.95, -92.33); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	// Second write replaces in place.
	if err := store.Upsert(ctx, u.ID, 40.71, -74.00); err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}

	n, err := db.Collection("locations").CountDocuments(ctx, bson.M{"user_id": u.ID})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 location document, got %d", n)
	}

	loc, err := store.GetByUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	// GeoJSON stores [longitude, latitude].
	if loc.Location.Coordinates[0] != -74.00 || loc.Location.Coordinates[1] != 40.71 {
		t.Errorf("coordinates: got %v", loc.Location.Coordinates)
	}
}

func TestStore_DeleteStale(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := locationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fresh := fixtures.CreateUser(ctx, "Fresh", "fresh@example.com")
	stale := fixtures.CreateUser(ctx, "Stale", "stale@example.com")

	if err := store.Upsert(ctx, fresh.ID, 38.95, -92.33); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	// Inserted directly so updated_at can sit outside the retention window.
	old := time.Now().UTC().Add(-48 * time.Hour)
	if _, err := db.Collection("locations").InsertOne(ctx, models.Location{
		ID:        primitive.NewObjectID(),
		UserID:    stale.ID,
		Location:  models.NewGeoPoint(40.71, -74.00),
		CreatedAt: old,
		UpdatedAt: old,
	}); err != nil {
		t.Fatalf("insert stale location: %v", err)
	}

	n, err := store.DeleteStale(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("DeleteStale failed: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted: got %d, want 1", n)
	}

	if _, err := store.GetByUser(ctx, fresh.ID); err != nil {
		t.Errorf("fresh location should survive: %v", err)
	}
	if _, err := store.GetByUser(ctx, stale.ID); err != mongo.ErrNoDocuments {
		t.Errorf("stale location should be gone, got err %v", err)
	}
}

func TestStore_Upsert_BadCoordinates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := locationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "Alice", "alice@example.com")

	if err := store.Upsert(ctx, u.ID, 91, 0); err == nil {
		t.Error("expected error for out-of-range latitude")
	}
	if err := store.Upsert(ctx, u.ID, 0, 181); err == nil {
		t.Error("expected error for out-of-range longitude")
	}
}

package invitestore_test

import (
	"testing"

	invitestore "github.com/familiahq/familia/internal/app/store/invites"
	"github.com/familiahq/familia/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := invitestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "creator@example.com")
	family := fixtures.CreateFamily(ctx, "The Testers", creator.ID)
	invitee := fixtures.CreateUser(ctx, "Invitee", "invitee@example.com")

	inv, err := store.Create(ctx, family.ID, creator.ID, invitee.ID)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	loaded, err := store.GetByID(ctx, inv.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if loaded.FamilyID != family.ID || loaded.FromID != creator.ID || loaded.ToID != invitee.ID {
		t.Errorf("loaded invite does not match created one: %+v", loaded)
	}
}

func TestStore_Create_Duplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := invitestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "creator@example.com")
	family := fixtures.CreateFamily(ctx, "The Testers", creator.ID)
	invitee := fixtures.CreateUser(ctx, "Invitee", "invitee@example.com")

	if _, err := store.Create(ctx, family.ID, creator.ID, invitee.ID); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	if _, err := store.Create(ctx, family.ID, creator.ID, invitee.ID); err != invitestore.ErrDuplicateInvite {
		t.Errorf("expected ErrDuplicateInvite, got %v", err)
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := invitestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByID(ctx, primitive.NewObjectID())
	if err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments, got %v", err)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := invitestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "creator@example.com")
	family := fixtures.CreateFamily(ctx, "The Testers", creator.ID)
	invitee := fixtures.CreateUser(ctx, "Invitee", "invitee@example.com")
	inv := fixtures.CreateInvite(ctx, family.ID, creator.ID, invitee.ID)

	deleted, err := store.Delete(ctx, inv.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !deleted {
		t.Error("Delete reported no document removed")
	}

	// A second delete finds nothing, e.g. after a concurrent accept consumed it.
	deleted, err = store.Delete(ctx, inv.ID)
	if err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
	if deleted {
		t.Error("second Delete should report nothing removed")
	}
}

func TestStore_Lists(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := invitestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "creator@example.com")
	family := fixtures.CreateFamily(ctx, "The Testers", creator.ID)
	alice := fixtures.CreateUser(ctx, "Alice", "alice@example.com")
	bob := fixtures.CreateUser(ctx, "Bob", "bob@example.com")

	fixtures.CreateInvite(ctx, family.ID, creator.ID, alice.ID)
	fixtures.CreateInvite(ctx, family.ID, creator.ID, bob.ID)

	received, err := store.ListByRecipient(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListByRecipient failed: %v", err)
	}
	if len(received) != 1 {
		t.Errorf("received: got %d invites, want 1", len(received))
	}

	sent, err := store.ListBySender(ctx, creator.ID)
	if err != nil {
		t.Fatalf("ListBySender failed: %v", err)
	}
	if len(sent) != 2 {
		t.Errorf("sent: got %d invites, want 2", len(sent))
	}

	all, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("all: got %d invites, want 2", len(all))
	}
}

func TestStore_Exists(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := invitestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "creator@example.com")
	family := fixtures.CreateFamily(ctx, "The Testers", creator.ID)
	invitee := fixtures.CreateUser(ctx, "Invitee", "invitee@example.com")
	fixtures.CreateInvite(ctx, family.ID, creator.ID, invitee.ID)

	ok, err := store.Exists(ctx, family.ID, creator.ID, invitee.ID)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !ok {
		t.Error("pending invite should exist")
	}

	ok, err = store.Exists(ctx, family.ID, creator.ID, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if ok {
		t.Error("invite for unknown recipient should not exist")
	}
}

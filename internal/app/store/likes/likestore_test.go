package likestore_test

import (
	"testing"

	likestore "github.com/familiahq/familia/internal/app/store/likes"
	"github.com/familiahq/familia/internal/testutil"
)

func TestStore_LikeUnlike(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := likestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "creator@example.com")
	family := fixtures.CreateFamily(ctx, "The Testers", creator.ID)
	post := fixtures.CreatePost(ctx, family.ID, creator.ID, "First post")

	added, err := store.Like(ctx, post.ID, creator.ID)
	if err != nil {
		t.Fatalf("Like failed: %v", err)
	}
	if !added {
		t.Error("first Like should record a new like")
	}

	// Liking twice is a no-op, not an error.
	added, err = store.Like(ctx, post.ID, creator.ID)
	if err != nil {
		t.Fatalf("second Like failed: %v", err)
	}
	if added {
		t.Error("second Like should be absorbed by the unique index")
	}

	n, err := store.CountByPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("CountByPost failed: %v", err)
	}
	if n != 1 {
		t.Errorf("CountByPost: got %d, want 1", n)
	}

	removed, err := store.Unlike(ctx, post.ID, creator.ID)
	if err != nil {
		t.Fatalf("Unlike failed: %v", err)
	}
	if !removed {
		t.Error("Unlike should remove the like")
	}

	removed, err = store.Unlike(ctx, post.ID, creator.ID)
	if err != nil {
		t.Fatalf("second Unlike failed: %v", err)
	}
	if removed {
		t.Error("second Unlike should find nothing")
	}
}

// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
Errors are aggregated so every problem is visible and startup can fail fast.

The unique indexes here back the domain invariants, not just lookups:
memberships (family_id, user_id) makes duplicate membership impossible and
invites (family_id, from_id, to_id) makes duplicate-invite prevention
race-proof rather than check-then-act.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureFamilies(ctx, db); err != nil {
		problems = append(problems, "families: "+err.Error())
	}
	if err := ensureMemberships(ctx, db); err != nil {
		problems = append(problems, "memberships: "+err.Error())
	}
	if err := ensureInvites(ctx, db); err != nil {
		problems = append(problems, "invites: "+err.Error())
	}
	if err := ensurePosts(ctx, db); err != nil {
		problems = append(problems, "posts: "+err.Error())
	}
	if err := ensureLikes(ctx, db); err != nil {
		problems = append(problems, "likes: "+err.Error())
	}
	if err := ensureMessages(ctx, db); err != nil {
		problems = append(problems, "messages: "+err.Error())
	}
	if err := ensureLocations(ctx, db); err != nil {
		problems = append(problems, "locations: "+err.Error())
	}
	if err := ensureMemories(ctx, db); err != nil {
		problems = append(problems, "memories: "+err.Error())
	}
	if err := ensureAuditEvents(ctx, db); err != nil {
		problems = append(problems, "audit_events: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// ensureIndexSet creates the desired indexes, tolerating re-runs where the
// index already exists under the same or a conflicting name.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	for _, m := range models {
		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isOptionsConflictErr(err) {
				continue
			}
			return err
		}
	}
	return nil
}

// Mongo/DocDB returns IndexOptionsConflict when an index with the same keys
// already exists under a different name.
func isOptionsConflictErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "IndexOptionsConflict")
}

func unique(name string) *options.IndexOptions {
	return options.Index().SetName(name).SetUnique(true)
}

func named(name string) *options.IndexOptions {
	return options.Index().SetName(name)
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("users"), []mongo.IndexModel{
		{Keys: bson.D{{Key: "auth_id", Value: 1}}, Options: unique("uniq_auth_id")},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique("uniq_email")},
		{Keys: bson.D{{Key: "name_ci", Value: 1}}, Options: named("name_ci")},
	})
}

func ensureFamilies(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("families"), []mongo.IndexModel{
		{Keys: bson.D{{Key: "creator_id", Value: 1}}, Options: named("creator")},
	})
}

func ensureMemberships(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("memberships"), []mongo.IndexModel{
		{Keys: bson.D{{Key: "family_id", Value: 1}, {Key: "user_id", Value: 1}}, Options: unique("uniq_family_user")},
		{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: named("by_user")},
	})
}

func ensureInvites(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("invites"), []mongo.IndexModel{
		{Keys: bson.D{{Key: "family_id", Value: 1}, {Key: "from_id", Value: 1}, {Key: "to_id", Value: 1}}, Options: unique("uniq_family_from_to")},
		{Keys: bson.D{{Key: "to_id", Value: 1}}, Options: named("by_recipient")},
		{Keys: bson.D{{Key: "from_id", Value: 1}}, Options: named("by_sender")},
	})
}

func ensurePosts(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("posts"), []mongo.IndexModel{
		{Keys: bson.D{{Key: "family_id", Value: 1}, {Key: "created_at", Value: -1}}, Options: named("family_recent")},
	})
}

func ensureLikes(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("likes"), []mongo.IndexModel{
		{Keys: bson.D{{Key: "post_id", Value: 1}, {Key: "liked_by_id", Value: 1}}, Options: unique("uniq_post_user")},
	})
}

func ensureMessages(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("messages"), []mongo.IndexModel{
		{Keys: bson.D{{Key: "family_id", Value: 1}, {Key: "from_id", Value: 1}, {Key: "to_id", Value: 1}, {Key: "created_at", Value: -1}}, Options: named("chat")},
	})
}

func ensureLocations(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("locations"), []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: unique("uniq_user")},
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}, Options: named("geo")},
	})
}

func ensureMemories(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("memories"), []mongo.IndexModel{
		{Keys: bson.D{{Key: "family_id", Value: 1}, {Key: "date", Value: -1}}, Options: named("family_date")},
	})
}

func ensureAuditEvents(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("audit_events"), []mongo.IndexModel{
		{Keys: bson.D{{Key: "timestamp", Value: -1}}, Options: named("recent")},
		{Keys: bson.D{{Key: "family_id", Value: 1}, {Key: "timestamp", Value: -1}}, Options: named("family_recent")},
	})
}

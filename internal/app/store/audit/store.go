// internal/app/store/audit/store.go
package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Event categories
const (
	CategoryAuth       = "auth"
	CategoryMembership = "membership"
)

// Auth event types
const (
	EventLoginSuccess = "login_success"
)

// Membership event types
const (
	EventFamilyCreated   = "family_created"
	EventInviteCreated   = "invite_created"
	EventInviteAccepted  = "invite_accepted"
	EventInviteWithdrawn = "invite_withdrawn"
)

// Event represents an audit event.
type Event struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty"`
	Timestamp time.Time           `bson:"timestamp"`
	FamilyID  *primitive.ObjectID `bson:"family_id,omitempty"`

	// Event classification
	Category  string `bson:"category"`
	EventType string `bson:"event_type"`

	// Who
	UserID  *primitive.ObjectID `bson:"user_id,omitempty"`  // affected user
	ActorID *primitive.ObjectID `bson:"actor_id,omitempty"` // who performed the action

	// Context
	IP        string `bson:"ip"`
	UserAgent string `bson:"user_agent,omitempty"`

	// Outcome
	Success       bool   `bson:"success"`
	FailureReason string `bson:"failure_reason,omitempty"`

	// Additional details (varies by event type)
	Details map[string]string `bson:"details,omitempty"`
}

// Store manages audit event records.
type Store struct {
	c *mongo.Collection
}

// New creates a new audit Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("audit_events")}
}

// Log writes an audit event. The timestamp is set here if the caller left it
// zero.
func (s *Store) Log(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	_, err := s.c.InsertOne(ctx, event)
	return err
}

// ListByFamily returns the most recent events for a family, newest first.
func (s *Store) ListByFamily(ctx context.Context, familyID primitive.ObjectID, limit int64) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	cur, err := s.c.Find(ctx,
		bson.M{"family_id": familyID},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}).SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var events []Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

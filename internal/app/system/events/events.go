// internal/app/system/events/events.go
// Package events is the in-process publish/subscribe fan-out behind realtime
// updates. It is constructed once in bootstrap and passed by reference to the
// features that publish or subscribe; there is no package-level singleton.
//
// Delivery is best-effort: subscribers that stop draining lose events rather
// than blocking publishers, and late subscribers never see prior events.
package events

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Topics published by the API features.
const (
	TopicInviteCreated  = "invite.created"
	TopicInviteDeleted  = "invite.deleted"
	TopicPostAdded      = "post.added"
	TopicPostLiked      = "post.liked"
	TopicPostUnliked    = "post.unliked"
	TopicMessageAdded   = "message.added"
	TopicMessageDeleted = "message.deleted"
)

// Event is a published payload tagged with its topic.
type Event struct {
	Topic   string
	Payload interface{}
}

// subscriberBuffer is the per-subscriber channel depth. A slow websocket
// client falls behind by dropping events, never by stalling a publisher.
const subscriberBuffer = 16

type subscriber struct {
	ch     chan Event
	topics map[string]struct{}
}

// Bus fans published events out to topic subscribers.
type Bus struct {
	mu     sync.RWMutex
	subs   map[string]*subscriber
	logger *zap.Logger
}

// NewBus constructs an empty bus.
func NewBus(logger *zap.Logger) *Bus {
	return &Bus{
		subs:   make(map[string]*subscriber),
		logger: logger,
	}
}

// Publish delivers the event to every subscriber of topic. It never blocks;
// full subscriber buffers drop the event for that subscriber.
func (b *Bus) Publish(topic string, payload interface{}) {
	ev := Event{Topic: topic, Payload: payload}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, sub := range b.subs {
		if _, ok := sub.topics[topic]; !ok {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
			if b.logger != nil {
				b.logger.Warn("event dropped for slow subscriber",
					zap.String("topic", topic),
					zap.String("subscriber", id))
			}
		}
	}
}

// Subscribe registers for the given topics and returns the event stream.
// The subscription ends and the channel closes when ctx is done.
func (b *Bus) Subscribe(ctx context.Context, topics ...string) <-chan Event {
	sub := &subscriber{
		ch:     make(chan Event, subscriberBuffer),
		topics: make(map[string]struct{}, len(topics)),
	}
	for _, t := range topics {
		sub.topics[t] = struct{}{}
	}

	id := uuid.NewString()

	b.mu.Lock()
	b.subs[id] = sub
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
		close(sub.ch)
	}()

	return sub.ch
}

// SubscriberCount reports the number of live subscriptions.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Predicate decides whether a subscriber should see an event.
type Predicate func(Event) bool

// FamilyScoped is implemented by payloads whose visibility follows family
// membership rather than named participants.
type FamilyScoped interface {
	EventFamilyID() primitive.ObjectID
}

// Filter applies keep to a stream. It is a pure stream transform, independent
// of the transport: the realtime feature uses it to scope message and invite
// events to their participants. The returned channel closes when in closes.
// Delivery follows the same policy as Publish: a full out buffer drops the
// event, so a reader that stopped draining cannot park the filter goroutine
// on a send it will never complete.
func Filter(in <-chan Event, keep Predicate) <-chan Event {
	out := make(chan Event, subscriberBuffer)
	go func() {
		defer close(out)
		for ev := range in {
			if !keep(ev) {
				continue
			}
			select {
			case out <- ev:
			default:
			}
		}
	}()
	return out
}

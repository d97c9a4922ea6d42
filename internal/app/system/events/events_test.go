package events

import (
	"context"
	"runtime"
	"testing"
	"time"

	"go.uber.org/zap"
)

func recvOne(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev, ok := <-ch:
		if !ok {
			t.Fatal("channel closed before event arrived")
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestBus_PublishSubscribe(t *testing.T) {
	bus := NewBus(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := bus.Subscribe(ctx, TopicInviteCreated)

	bus.Publish(TopicInviteCreated, "payload-1")

	ev := recvOne(t, ch)
	if ev.Topic != TopicInviteCreated {
		t.Errorf("topic = %q, want %q", ev.Topic, TopicInviteCreated)
	}
	if ev.Payload != "payload-1" {
		t.Errorf("payload = %v", ev.Payload)
	}
}

func TestBus_TopicIsolation(t *testing.T) {
	bus := NewBus(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	invites := bus.Subscribe(ctx, TopicInviteCreated)
	posts := bus.Subscribe(ctx, TopicPostAdded)

	bus.Publish(TopicPostAdded, "a-post")

	ev := recvOne(t, posts)
	if ev.Payload != "a-post" {
		t.Errorf("payload = %v", ev.Payload)
	}

	select {
	case ev := <-invites:
		t.Errorf("invite subscriber received %v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBus_UnsubscribeOnContextDone(t *testing.T) {
	bus := NewBus(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())

	ch := bus.Subscribe(ctx, TopicInviteDeleted)
	if got := bus.SubscriberCount(); got != 1 {
		t.Fatalf("SubscriberCount = %d, want 1", got)
	}

	cancel()

	// Channel closes once the bus drops the subscriber.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				if got := bus.SubscriberCount(); got != 0 {
					t.Errorf("SubscriberCount = %d after cancel, want 0", got)
				}
				return
			}
		case <-deadline:
			t.Fatal("channel never closed after cancel")
		}
	}
}

func TestBus_SlowSubscriberDoesNotBlockPublish(t *testing.T) {
	bus := NewBus(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_ = bus.Subscribe(ctx, TopicMessageAdded) // never drained

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*3; i++ {
			bus.Publish(TopicMessageAdded, i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}
}

func TestFilter(t *testing.T) {
	in := make(chan Event, 4)
	out := Filter(in, func(ev Event) bool {
		n, ok := ev.Payload.(int)
		return ok && n%2 == 0
	})

	for i := 0; i < 4; i++ {
		in <- Event{Topic: "t", Payload: i}
	}
	close(in)

	var got []int
	for ev := range out {
		got = append(got, ev.Payload.(int))
	}
	if len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Errorf("filtered = %v, want [0 2]", got)
	}
}

func TestFilter_UndrainedReaderDoesNotLeakGoroutine(t *testing.T) {
	before := runtime.NumGoroutine()

	bus := NewBus(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())

	in := bus.Subscribe(ctx, TopicMessageAdded)
	out := Filter(in, func(Event) bool { return true })

	// Push well past the out buffer without ever reading from it, the shape
	// of a websocket client that disconnected mid-stream.
	for i := 0; i < subscriberBuffer*3; i++ {
		bus.Publish(TopicMessageAdded, i)
	}
	cancel()

	// Both the subscription goroutine and the filter goroutine must exit even
	// though out is never drained; a filter parked on a send to a full out
	// would survive the cancel forever.
	deadline := time.Now().Add(2 * time.Second)
	for runtime.NumGoroutine() > before {
		if time.Now().After(deadline) {
			t.Fatalf("goroutines: got %d, want at most %d after cancel",
				runtime.NumGoroutine(), before)
		}
		time.Sleep(10 * time.Millisecond)
	}
	_ = out
}

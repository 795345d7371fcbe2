package worker

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"pulsegram/internal/queue"
)

func newTestStream(t *testing.T) (queue.Publisher, queue.Consumer) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return queue.NewPublisher(client), queue.NewConsumer(client)
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestManager_RepairsPublishedDrift(t *testing.T) {
	publisher, consumer := newTestStream(t)

	counters := newMockCounters()
	key := counters.key("likes", 42)
	counters.counts[key] = 11

	mgr := NewManager(consumer, NewHandler(counters, counters, counters, counters), ManagerConfig{
		WorkerCount:  1,
		BatchSize:    10,
		BlockTimeout: 20 * time.Millisecond,
	})
	if err := mgr.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer mgr.Stop()

	event := queue.NewDriftEvent(queue.CounterLikes, 42, 1, "like")
	if _, err := publisher.Publish(context.Background(), queue.StreamReconcile, event); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	ok := waitFor(t, 2*time.Second, func() bool {
		_, written := counters.written(key)
		return written
	})
	if !ok {
		t.Fatal("drift event was not processed in time")
	}
	if got, _ := counters.written(key); got != 11 {
		t.Errorf("like_count = %d, want the recomputed 11", got)
	}
}

// Events published before the workers start are picked up because the
// consumer group begins at the start of the stream.
func TestManager_DrainsBacklogOnStart(t *testing.T) {
	publisher, consumer := newTestStream(t)

	counters := newMockCounters()
	counters.counts[counters.key("followers", 7)] = 3
	counters.counts[counters.key("links", 8)] = 12

	ctx := context.Background()
	for _, event := range []queue.DriftEvent{
		queue.NewDriftEvent(queue.CounterFollowers, 7, 1, "follow"),
		queue.NewDriftEvent(queue.CounterHashtagPosts, 8, 1, "hashtag"),
	} {
		if _, err := publisher.Publish(ctx, queue.StreamReconcile, event); err != nil {
			t.Fatalf("Publish: %v", err)
		}
	}

	mgr := NewManager(consumer, NewHandler(counters, counters, counters, counters), ManagerConfig{
		WorkerCount:  2,
		BatchSize:    10,
		BlockTimeout: 20 * time.Millisecond,
	})
	if err := mgr.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer mgr.Stop()

	ok := waitFor(t, 2*time.Second, func() bool {
		return counters.writeCount() == 2
	})
	if !ok {
		t.Fatalf("backlog not drained, %d of 2 counters repaired", counters.writeCount())
	}

	if got, _ := counters.written(counters.key("followers", 7)); got != 3 {
		t.Errorf("follower_count = %d, want 3", got)
	}
	if got, _ := counters.written(counters.key("links", 8)); got != 12 {
		t.Errorf("hashtag post_count = %d, want 12", got)
	}
}

// An event no handler understands is acked anyway so it cannot wedge
// the stream.
func TestManager_AcksPoisonedEvents(t *testing.T) {
	publisher, consumer := newTestStream(t)

	counters := newMockCounters()
	mgr := NewManager(consumer, NewHandler(counters, counters, counters, counters), ManagerConfig{
		WorkerCount:  1,
		BatchSize:    10,
		BlockTimeout: 20 * time.Millisecond,
	})

	ctx := context.Background()
	if err := mgr.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer mgr.Stop()

	counters.counts[counters.key("likes", 5)] = 1

	// Poison first, then a valid event behind it
	if _, err := publisher.Publish(ctx, queue.StreamReconcile, queue.NewDriftEvent("view_count", 1, 1, "view")); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if _, err := publisher.Publish(ctx, queue.StreamReconcile, queue.NewDriftEvent(queue.CounterLikes, 5, 1, "like")); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	ok := waitFor(t, 2*time.Second, func() bool {
		_, written := counters.written(counters.key("likes", 5))
		return written
	})
	if !ok {
		t.Fatal("worker did not progress past the poisoned event")
	}

	ok = waitFor(t, 2*time.Second, func() bool {
		pending, err := consumer.Pending(ctx, queue.StreamReconcile, queue.ConsumerGroupReconcile)
		return err == nil && pending == 0
	})
	if !ok {
		t.Fatal("poisoned event still pending, expected it to be acked")
	}
}

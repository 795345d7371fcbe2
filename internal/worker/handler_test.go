package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"pulsegram/internal/queue"
	"pulsegram/internal/repository"
)

// The server wires the repositories straight into NewHandler; these
// assertions keep that composition honest at compile time.
var (
	_ FollowCounters  = repository.FollowRepository(nil)
	_ UserCounters    = repository.UserRepository(nil)
	_ PostCounters    = repository.PostRepository(nil)
	_ HashtagCounters = repository.HashtagRepository(nil)
)

// mockCounters satisfies all four counter interfaces. Counts come from
// the maps; every Set* call is recorded in sets. The mutex makes it
// safe to share with worker goroutines.
type mockCounters struct {
	mu     sync.Mutex
	counts map[string]int
	sets   map[string]int
	setErr error
}

func newMockCounters() *mockCounters {
	return &mockCounters{
		counts: map[string]int{},
		sets:   map[string]int{},
	}
}

func (m *mockCounters) key(kind string, id int64) string {
	return fmt.Sprintf("%s:%d", kind, id)
}

func (m *mockCounters) count(key string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[key], nil
}

func (m *mockCounters) set(key string, count int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.sets[key] = count
	return nil
}

// written reports whether a Set* landed for key and with what value.
func (m *mockCounters) written(key string) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.sets[key]
	return v, ok
}

func (m *mockCounters) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sets)
}

func (m *mockCounters) CountFollowers(ctx context.Context, userID int64) (int, error) {
	return m.count(m.key("followers", userID))
}

func (m *mockCounters) CountFollowing(ctx context.Context, userID int64) (int, error) {
	return m.count(m.key("following", userID))
}

func (m *mockCounters) SetFollowerCount(ctx context.Context, userID int64, count int) error {
	return m.set(m.key("followers", userID), count)
}

func (m *mockCounters) SetFollowingCount(ctx context.Context, userID int64, count int) error {
	return m.set(m.key("following", userID), count)
}

func (m *mockCounters) CountLikes(ctx context.Context, postID int64) (int, error) {
	return m.count(m.key("likes", postID))
}

func (m *mockCounters) CountComments(ctx context.Context, postID int64) (int, error) {
	return m.count(m.key("comments", postID))
}

func (m *mockCounters) SetLikeCount(ctx context.Context, postID int64, count int) error {
	return m.set(m.key("likes", postID), count)
}

func (m *mockCounters) SetCommentCount(ctx context.Context, postID int64, count int) error {
	return m.set(m.key("comments", postID), count)
}

func (m *mockCounters) CountLinks(ctx context.Context, hashtagID int64) (int, error) {
	return m.count(m.key("links", hashtagID))
}

func (m *mockCounters) SetPostCount(ctx context.Context, hashtagID int64, count int) error {
	return m.set(m.key("links", hashtagID), count)
}

func TestHandler_HandleEvent_RoutesByCounter(t *testing.T) {
	tests := []struct {
		name     string
		counter  string
		entityID int64
		countKey string
	}{
		{"followers", queue.CounterFollowers, 1, "followers"},
		{"following", queue.CounterFollowing, 2, "following"},
		{"likes", queue.CounterLikes, 3, "likes"},
		{"comments", queue.CounterComments, 4, "comments"},
		{"hashtag posts", queue.CounterHashtagPosts, 5, "links"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counters := newMockCounters()
			key := counters.key(tt.countKey, tt.entityID)
			counters.counts[key] = 17

			h := NewHandler(counters, counters, counters, counters)

			event := queue.NewDriftEvent(tt.counter, tt.entityID, 1, "test")
			if err := h.HandleEvent(context.Background(), event); err != nil {
				t.Fatalf("HandleEvent: %v", err)
			}

			got, ok := counters.written(key)
			if !ok {
				t.Fatalf("counter %s was not written", tt.counter)
			}
			if got != 17 {
				t.Errorf("wrote %d, want the recomputed 17", got)
			}
		})
	}
}

func TestHandler_HandleEvent_UnknownCounter(t *testing.T) {
	counters := newMockCounters()
	h := NewHandler(counters, counters, counters, counters)

	event := queue.NewDriftEvent("view_count", 1, 1, "test")
	if err := h.HandleEvent(context.Background(), event); err == nil {
		t.Fatal("expected error for unknown counter kind")
	}
	if n := counters.writeCount(); n != 0 {
		t.Errorf("unexpected counter writes: %d", n)
	}
}

// The repair overwrites with the recomputed value, so handling the same
// event twice lands on the same state. The lost delta is never replayed.
func TestHandler_HandleEvent_Idempotent(t *testing.T) {
	counters := newMockCounters()
	key := counters.key("likes", 9)
	counters.counts[key] = 5

	h := NewHandler(counters, counters, counters, counters)
	event := queue.NewDriftEvent(queue.CounterLikes, 9, 3, "like")

	for i := 0; i < 2; i++ {
		if err := h.HandleEvent(context.Background(), event); err != nil {
			t.Fatalf("HandleEvent pass %d: %v", i+1, err)
		}
	}

	if got, _ := counters.written(key); got != 5 {
		t.Errorf("like_count = %d, want 5 after repeated repair", got)
	}
}

func TestHandler_HandleEvent_WriteFailure(t *testing.T) {
	counters := newMockCounters()
	counters.setErr = errors.New("db timeout")

	h := NewHandler(counters, counters, counters, counters)

	event := queue.NewDriftEvent(queue.CounterFollowers, 1, 1, "follow")
	if err := h.HandleEvent(context.Background(), event); err == nil {
		t.Fatal("expected error when the counter write fails")
	}
}

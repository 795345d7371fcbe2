package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Counter kinds carried by drift events. Each names one denormalized
// counter together with the entity that owns it.
const (
	CounterFollowers    = "follower_count"  // users.follower_count, keyed by user id
	CounterFollowing    = "following_count" // users.following_count, keyed by user id
	CounterLikes        = "like_count"      // posts.like_count, keyed by post id
	CounterComments     = "comment_count"   // posts.comment_count, keyed by post id
	CounterHashtagPosts = "post_count"      // hashtags.post_count, keyed by hashtag id
)

// Stream names
const (
	StreamReconcile = "stream:reconcile"
)

// Consumer group name for reconciler workers
const (
	ConsumerGroupReconcile = "reconcile_workers"
)

// DriftEvent flags a counter whose cached value may have diverged from
// its edge table. The reconciler recomputes the true count and writes
// it back; the delta that failed is recorded for the log trail only.
type DriftEvent struct {
	Counter   string `json:"counter"`   // one of the Counter* kinds
	EntityID  int64  `json:"entity_id"` // user, post or hashtag id depending on Counter
	Delta     int    `json:"delta"`     // the adjustment that was lost
	Reason    string `json:"reason"`    // short operation tag, e.g. "follow", "unlike"
	Timestamp int64  `json:"timestamp"` // Unix timestamp when drift was detected
}

// NewDriftEvent creates a drift event for a counter adjustment that
// could not be applied.
func NewDriftEvent(counter string, entityID int64, delta int, reason string) DriftEvent {
	return DriftEvent{
		Counter:   counter,
		EntityID:  entityID,
		Delta:     delta,
		Reason:    reason,
		Timestamp: time.Now().Unix(),
	}
}

// ToMap converts the event to a map for Redis XADD.
// Redis Streams store field-value pairs, so we serialize to JSON in a "data" field.
func (e DriftEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"counter": e.Counter,
		"data":    string(data),
	}, nil
}

// ParseDriftEvent parses a DriftEvent from Redis stream message values.
func ParseDriftEvent(values map[string]interface{}) (DriftEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return DriftEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event DriftEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return DriftEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}

package service

import (
	"context"
	"log"

	"pulsegram/internal/queue"
)

// reportDrift records a counter adjustment that could not be applied
// after its edge write already succeeded. The operation itself is not
// failed: the edge row is the source of truth and the counter is
// repaired out of band by the reconciler. If even publishing fails,
// the log line is the last trace of the drift.
func reportDrift(ctx context.Context, publisher queue.Publisher, counter string, entityID int64, delta int, reason string, cause error) {
	log.Printf("[Drift] counter=%s entity=%d delta=%d reason=%s err=%v",
		counter, entityID, delta, reason, cause)

	if publisher == nil {
		return
	}

	event := queue.NewDriftEvent(counter, entityID, delta, reason)
	if _, err := publisher.Publish(ctx, queue.StreamReconcile, event); err != nil {
		log.Printf("[Drift] publish failed: counter=%s entity=%d err=%v", counter, entityID, err)
	}
}

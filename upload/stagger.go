package upload

import (
	"context"
	"log"
	"time"
)

// RunBatch invokes publish on each item in order, suspending for
// delayBetween after every item except the last. A publish failure does not
// abort the batch; remaining items are still attempted after the same delay.
// Results come back in input order. A delay of zero skips the suspension.
//
// The wait respects ctx so a shutdown signal does not sit out a full stagger
// delay, but every item is still attempted: in-flight batches run to
// completion on cancellation.
func RunBatch[T, R any](ctx context.Context, items []T, delayBetween time.Duration, publish func(context.Context, T) R) []R {
	results := make([]R, 0, len(items))
	for i, item := range items {
		results = append(results, publish(ctx, item))

		if delayBetween > 0 && i < len(items)-1 {
			log.Printf("[upload] Waiting %s before next upload to avoid spam detection...", delayBetween)
			sleepCtx(ctx, delayBetween)
		}
	}
	return results
}

func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

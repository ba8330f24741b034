package upload

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publishOutcome struct {
	item string
	err  error
}

func TestRunBatch_OrderPreserved(t *testing.T) {
	var calls []string
	results := RunBatch(context.Background(), []string{"A", "B", "C"}, 0,
		func(_ context.Context, item string) publishOutcome {
			calls = append(calls, item)
			return publishOutcome{item: item}
		})

	assert.Equal(t, []string{"A", "B", "C"}, calls)
	require.Len(t, results, 3)
	assert.Equal(t, "A", results[0].item)
	assert.Equal(t, "B", results[1].item)
	assert.Equal(t, "C", results[2].item)
}

func TestRunBatch_FailureIsolation(t *testing.T) {
	boom := errors.New("boom")
	results := RunBatch(context.Background(), []string{"A", "B", "C"}, 0,
		func(_ context.Context, item string) publishOutcome {
			if item == "B" {
				return publishOutcome{item: item, err: boom}
			}
			return publishOutcome{item: item}
		})

	require.Len(t, results, 3)
	assert.NoError(t, results[0].err)
	assert.ErrorIs(t, results[1].err, boom)
	assert.NoError(t, results[2].err)
}

func TestRunBatch_DelayBetweenItems(t *testing.T) {
	delay := 20 * time.Millisecond
	start := time.Now()
	RunBatch(context.Background(), []string{"A", "B", "C"}, delay,
		func(_ context.Context, item string) struct{} { return struct{}{} })

	// Two gaps for three items; no delay after the last one
	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, 2*delay)
	assert.Less(t, elapsed, 10*delay)
}

func TestRunBatch_CancelledContextStillAttemptsAll(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int
	RunBatch(ctx, []string{"A", "B", "C"}, time.Hour,
		func(_ context.Context, item string) struct{} {
			calls++
			return struct{}{}
		})

	// Cancellation skips the stagger waits but never drops batch items
	assert.Equal(t, 3, calls)
}

func TestRunBatch_Empty(t *testing.T) {
	results := RunBatch(context.Background(), nil, time.Second,
		func(_ context.Context, item string) struct{} { return struct{}{} })
	assert.Empty(t, results)
}

package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorker_ShutdownDrainsQueue(t *testing.T) {
	w := NewWorker(2)

	var ran atomic.Int64
	for i := 0; i < 20; i++ {
		w.Enqueue(func(ctx context.Context) error {
			ran.Add(1)
			return nil
		})
	}

	// Shutdown must not drop jobs still sitting in the queue.
	w.Shutdown()
	assert.Equal(t, int64(20), ran.Load())
}

func TestWorker_ShutdownWaitsForAsyncJobs(t *testing.T) {
	w := NewWorker(1)

	var ran atomic.Int64
	for i := 0; i < 5; i++ {
		w.EnqueueAsync(func(ctx context.Context) error {
			ran.Add(1)
			return nil
		})
	}

	w.Shutdown()
	assert.Equal(t, int64(5), ran.Load())
}

func TestWorker_StatsCountsCompletedAndFailed(t *testing.T) {
	w := NewWorker(1)

	w.EnqueueAsync(func(ctx context.Context) error { return nil })
	w.EnqueueAsync(func(ctx context.Context) error { return errors.New("boom") })
	w.Shutdown()

	stats := w.Stats()
	assert.Equal(t, int64(2), stats.CompletedJobs)
	assert.Equal(t, int64(1), stats.FailedJobs)
	assert.Equal(t, 0, stats.ActiveJobs)
	assert.Equal(t, 0, stats.QueueLength)
}

package pacing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalPacerFirstWaitIsImmediate(t *testing.T) {
	pacer := NewIntervalPacer(time.Second)

	start := time.Now()
	require.NoError(t, pacer.Wait(context.Background()))
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestIntervalPacerEnforcesMinimumDelay(t *testing.T) {
	interval := 50 * time.Millisecond
	pacer := NewIntervalPacer(interval)

	require.NoError(t, pacer.Wait(context.Background()))

	start := time.Now()
	require.NoError(t, pacer.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), interval-5*time.Millisecond)
}

func TestIntervalPacerHonorsCancellation(t *testing.T) {
	pacer := NewIntervalPacer(time.Minute)
	require.NoError(t, pacer.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := pacer.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestIntervalPacerConcurrentCallersShareOneSchedule(t *testing.T) {
	interval := 5 * time.Millisecond
	pacer := NewIntervalPacer(interval)

	const goroutines = 4
	const callsPerGoroutine = 5

	start := time.Now()
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < callsPerGoroutine; i++ {
				require.NoError(t, pacer.Wait(context.Background()))
			}
		}()
	}
	wg.Wait()

	// 20 calls through one pacer leave 19 full intervals between them,
	// no matter how the callers interleave.
	total := goroutines * callsPerGoroutine
	minimum := time.Duration(total-1) * interval
	assert.GreaterOrEqual(t, time.Since(start), minimum-5*time.Millisecond)
}

func TestNopPacerNeverWaits(t *testing.T) {
	pacer := NopPacer{}

	start := time.Now()
	for i := 0; i < 100; i++ {
		require.NoError(t, pacer.Wait(context.Background()))
	}
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

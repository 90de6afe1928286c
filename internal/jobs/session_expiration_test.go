package jobs

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingSweeper struct {
	calls atomic.Int32
	last  atomic.Int64
}

func (s *countingSweeper) ExpireIdle(now time.Time) int {
	s.calls.Add(1)
	s.last.Store(now.Unix())
	return 2
}

func TestSweepUsesClock(t *testing.T) {
	sweeper := &countingSweeper{}
	job := NewSessionExpirationJob(sweeper, time.Minute)
	fixed := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	job.now = func() time.Time { return fixed }

	assert.Equal(t, 2, job.sweep())
	assert.Equal(t, fixed.Unix(), sweeper.last.Load())
}

func TestJobRunsOnTicker(t *testing.T) {
	sweeper := &countingSweeper{}
	job := NewSessionExpirationJob(sweeper, 10*time.Millisecond)

	job.Start(context.Background())
	defer job.Stop()

	assert.Eventually(t, func() bool {
		return sweeper.calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestStopIsIdempotent(t *testing.T) {
	job := NewSessionExpirationJob(&countingSweeper{}, 0)
	assert.Equal(t, 30*time.Second, job.interval)

	job.Start(context.Background())
	job.Stop()
	assert.NotPanics(t, job.Stop)
}

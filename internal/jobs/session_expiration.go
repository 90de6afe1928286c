package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"ticketdesk/internal/logger"
)

// SessionSweeper drops idle registration sessions
type SessionSweeper interface {
	ExpireIdle(now time.Time) int
}

// SessionExpirationJob periodically removes idle wizard sessions
type SessionExpirationJob struct {
	sessions SessionSweeper
	interval time.Duration
	now      func() time.Time

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
}

func NewSessionExpirationJob(sessions SessionSweeper, interval time.Duration) *SessionExpirationJob {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &SessionExpirationJob{
		sessions: sessions,
		interval: interval,
		now:      time.Now,
		done:     make(chan struct{}),
	}
}

// Start begins checking for idle sessions every interval
func (j *SessionExpirationJob) Start(ctx context.Context) {
	slog.Info("Starting session expiration job", "check_interval", j.interval.String())

	j.ticker = time.NewTicker(j.interval)

	go func() {
		for {
			select {
			case <-j.ticker.C:
				j.sweep()
			case <-ctx.Done():
				slog.Info("Session expiration job stopped", "reason", ctx.Err())
				return
			case <-j.done:
				slog.Info("Session expiration job stopped")
				return
			}
		}
	}()
}

// Stop halts the job; safe to call more than once
func (j *SessionExpirationJob) Stop() {
	j.stopOnce.Do(func() {
		if j.ticker != nil {
			j.ticker.Stop()
		}
		close(j.done)
	})
}

func (j *SessionExpirationJob) sweep() int {
	now := j.now()
	expired := j.sessions.ExpireIdle(now)
	if expired > 0 {
		logger.WithFields("job", "session_expiration", "swept_at", now).Info("Expired idle registration sessions", "count", expired)
	} else {
		slog.Debug("No idle sessions found")
	}
	return expired
}

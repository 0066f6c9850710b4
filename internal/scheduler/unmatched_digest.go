package scheduler

import (
	"context"
	"time"

	"procurement_backend/platform/logger"
)

const defaultUnmatchedDigestInterval = 24 * time.Hour

// UnmatchedDigestScheduler periodically enqueues the unmatched-lines
// digest task.
type UnmatchedDigestScheduler struct {
	client   *Client
	log      *logger.Logger
	interval time.Duration
}

func NewUnmatchedDigestScheduler(client *Client, log *logger.Logger, interval time.Duration) *UnmatchedDigestScheduler {
	if interval <= 0 {
		interval = defaultUnmatchedDigestInterval
	}

	return &UnmatchedDigestScheduler{
		client:   client,
		log:      log,
		interval: interval,
	}
}

func (s *UnmatchedDigestScheduler) Run(ctx context.Context) {
	if s == nil || s.client == nil {
		return
	}

	s.enqueue(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.enqueue(ctx)
		}
	}
}

func (s *UnmatchedDigestScheduler) enqueue(ctx context.Context) {
	if err := s.client.EnqueueUnmatchedDigest(ctx, time.Now()); err != nil {
		s.log.Warn("unmatched digest enqueue failed", "error", err)
	}
}

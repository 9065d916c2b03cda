package app

import (
	"context"
	"log"
	"time"

	"github.com/ransjnr/evote-sub001/internal/clock"
)

// PendingIntentSource lists pending intents older than a cutoff.
type PendingIntentSource interface {
	ListExpiredPendingReferences(ctx context.Context, olderThan time.Time, limit int) ([]string, error)
}

// IntentExpirer forces a stale intent through the release path.
type IntentExpirer interface {
	Expire(ctx context.Context, reference string) error
}

const (
	defaultIntentTTL     = 30 * time.Minute
	defaultSweepInterval = time.Minute
	defaultSweepBatch    = 100
)

// Sweeper periodically expires payment intents stuck in pending past the
// TTL, returning their reserved capacity to the pool. It is the only
// reclamation path for abandoned checkouts.
type Sweeper struct {
	source   PendingIntentSource
	expirer  IntentExpirer
	clock    clock.Clock
	logger   *log.Logger
	ttl      time.Duration
	interval time.Duration
	batch    int
}

type SweeperOption func(*Sweeper)

func WithIntentTTL(d time.Duration) SweeperOption {
	return func(s *Sweeper) {
		if d > 0 {
			s.ttl = d
		}
	}
}

func WithSweepInterval(d time.Duration) SweeperOption {
	return func(s *Sweeper) {
		if d > 0 {
			s.interval = d
		}
	}
}

func WithSweepBatch(n int) SweeperOption {
	return func(s *Sweeper) {
		if n > 0 {
			s.batch = n
		}
	}
}

func NewSweeper(source PendingIntentSource, expirer IntentExpirer, clk clock.Clock, logger *log.Logger, opts ...SweeperOption) *Sweeper {
	if logger == nil {
		logger = log.Default()
	}
	s := &Sweeper{
		source:   source,
		expirer:  expirer,
		clock:    clk,
		logger:   logger,
		ttl:      defaultIntentTTL,
		interval: defaultSweepInterval,
		batch:    defaultSweepBatch,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run sweeps on a fixed interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			expired, err := s.SweepOnce(ctx)
			if err != nil {
				s.logger.Printf("sweeper: sweep failed: %v", err)
				continue
			}
			if expired > 0 {
				s.logger.Printf("sweeper: expired %d stale payment intents", expired)
			}
		}
	}
}

// SweepOnce expires one batch of stale pending intents and returns how many
// were expired. A failure on one intent is logged and does not stop the rest
// of the batch.
func (s *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	cutoff := s.clock.Now().Add(-s.ttl)
	refs, err := s.source.ListExpiredPendingReferences(ctx, cutoff, s.batch)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, ref := range refs {
		if err := s.expirer.Expire(ctx, ref); err != nil {
			s.logger.Printf("sweeper: expire %s: %v", ref, err)
			continue
		}
		expired++
	}
	return expired, nil
}

package app

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/ransjnr/evote-sub001/internal/clock"
	"github.com/ransjnr/evote-sub001/internal/domain"
)

func TestSweeper_SweepOnce(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	quiet := log.New(io.Discard, "", 0)

	t.Run("expires stale pending intents only", func(t *testing.T) {
		repo := newFakeAllocationRepo()
		repo.addTicketType(domain.TicketType{ID: "tt-1", PriceCents: 500, Capacity: 10, Reserved: 2})
		repo.addIntent(domain.PaymentIntent{
			ExternalReference: "ref-stale",
			Kind:              domain.KindTicket,
			TargetID:          "tt-1",
			Quantity:          1,
			Status:            domain.IntentStatusPending,
			CreatedAt:         now.Add(-time.Hour),
		})
		repo.addIntent(domain.PaymentIntent{
			ExternalReference: "ref-fresh",
			Kind:              domain.KindTicket,
			TargetID:          "tt-1",
			Quantity:          1,
			Status:            domain.IntentStatusPending,
			CreatedAt:         now.Add(-time.Minute),
		})

		svc := NewAllocationService(repo, clock.NewFixed(now))
		sweeper := NewSweeper(svc, svc, clock.NewFixed(now), quiet, WithIntentTTL(30*time.Minute))

		expired, err := sweeper.SweepOnce(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if expired != 1 {
			t.Fatalf("expected 1 expired, got %d", expired)
		}
		if repo.intents["ref-stale"].Status != domain.IntentStatusExpired {
			t.Fatalf("stale intent not expired: %s", repo.intents["ref-stale"].Status)
		}
		if repo.intents["ref-fresh"].Status != domain.IntentStatusPending {
			t.Fatalf("fresh intent was expired: %s", repo.intents["ref-fresh"].Status)
		}
		if repo.ticketTypes["tt-1"].Reserved != 1 {
			t.Fatalf("expected reserved 1 after release, got %d", repo.ticketTypes["tt-1"].Reserved)
		}
	})

	t.Run("resolved intents are never swept", func(t *testing.T) {
		repo := newFakeAllocationRepo()
		repo.addTicketType(domain.TicketType{ID: "tt-1", PriceCents: 500, Capacity: 10, Committed: 1})
		repo.addIntent(domain.PaymentIntent{
			ExternalReference: "ref-done",
			Kind:              domain.KindTicket,
			TargetID:          "tt-1",
			Quantity:          1,
			Status:            domain.IntentStatusSucceeded,
			CreatedAt:         now.Add(-2 * time.Hour),
		})

		svc := NewAllocationService(repo, clock.NewFixed(now))
		sweeper := NewSweeper(svc, svc, clock.NewFixed(now), quiet)

		expired, err := sweeper.SweepOnce(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if expired != 0 {
			t.Fatalf("expected 0 expired, got %d", expired)
		}
		if repo.ticketTypes["tt-1"].Committed != 1 {
			t.Fatalf("sweep touched committed counter: %d", repo.ticketTypes["tt-1"].Committed)
		}
	})

	t.Run("batch limit bounds one sweep", func(t *testing.T) {
		repo := newFakeAllocationRepo()
		for _, ref := range []string{"ref-1", "ref-2", "ref-3"} {
			repo.addIntent(domain.PaymentIntent{
				ExternalReference: ref,
				Kind:              domain.KindVote,
				TargetID:          "nom-1",
				Quantity:          1,
				Status:            domain.IntentStatusPending,
				CreatedAt:         now.Add(-time.Hour),
			})
		}

		svc := NewAllocationService(repo, clock.NewFixed(now))
		sweeper := NewSweeper(svc, svc, clock.NewFixed(now), quiet, WithSweepBatch(2))

		expired, err := sweeper.SweepOnce(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if expired != 2 {
			t.Fatalf("expected 2 expired, got %d", expired)
		}

		// The next sweep picks up the remainder.
		expired, err = sweeper.SweepOnce(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if expired != 1 {
			t.Fatalf("expected 1 expired, got %d", expired)
		}
	})
}

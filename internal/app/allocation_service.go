package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ransjnr/evote-sub001/internal/clock"
	"github.com/ransjnr/evote-sub001/internal/domain"
)

// AllocationRepository is the storage surface the allocation engine
// orchestrates. Reserve/Commit/Release must be single conditional updates
// against the ticket type counters; MarkIntentResolved must only transition
// an intent that is still pending.
type AllocationRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	FindIntentByReference(ctx context.Context, reference string) (*domain.PaymentIntent, error)
	GetIntentByReferenceForUpdate(ctx context.Context, reference string) (domain.PaymentIntent, error)
	CreateIntent(ctx context.Context, intent domain.PaymentIntent) error
	MarkIntentResolved(ctx context.Context, reference string, status domain.IntentStatus, at time.Time) (bool, error)
	ListExpiredPendingReferences(ctx context.Context, olderThan time.Time, limit int) ([]string, error)
	GetEventByNominee(ctx context.Context, nomineeID string) (domain.Event, error)
	GetTicketType(ctx context.Context, ticketTypeID string) (domain.TicketType, error)
	ReserveCapacity(ctx context.Context, ticketTypeID string, quantity int) error
	CommitCapacity(ctx context.Context, ticketTypeID string, quantity int) error
	ReleaseCapacity(ctx context.Context, ticketTypeID string, quantity int) error
	CreateVote(ctx context.Context, vote domain.Vote) error
	CreateTicket(ctx context.Context, ticket domain.Ticket) error
	FindVoteByReference(ctx context.Context, reference string) (*domain.Vote, error)
	FindTicketByReference(ctx context.Context, reference string) (*domain.Ticket, error)
}

// ConflictReporter surfaces conflicting payment resolutions (for example a
// success webhook for an intent already marked failed) to an operator
// channel. Conflicts are never auto-corrected.
type ConflictReporter interface {
	ReportResolutionConflict(ctx context.Context, reference string, attempted, current domain.IntentStatus)
}

type AllocationService struct {
	repo      AllocationRepository
	clock     clock.Clock
	conflicts ConflictReporter
}

func NewAllocationService(repo AllocationRepository, clk clock.Clock, opts ...AllocationServiceOption) *AllocationService {
	svc := &AllocationService{
		repo:  repo,
		clock: clk,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type AllocationServiceOption func(*AllocationService)

// WithConflictReporter wires an operator-queue reporter for resolution
// conflicts.
func WithConflictReporter(r ConflictReporter) AllocationServiceOption {
	return func(s *AllocationService) {
		s.conflicts = r
	}
}

type InitiatePurchaseInput struct {
	Kind              domain.PurchaseKind
	TargetID          string
	Quantity          int
	AmountCents       int64
	BuyerName         string
	BuyerPhone        string
	ExternalReference string
}

// Initiate reserves inventory and records a pending payment intent.
// Reservation happens before the intent insert, so no intent ever references
// capacity that was not actually held. A replayed reference with identical
// parameters returns the original intent.
func (s *AllocationService) Initiate(ctx context.Context, in InitiatePurchaseInput) (domain.PaymentIntent, error) {
	if in.Quantity <= 0 {
		return domain.PaymentIntent{}, domain.ErrInvalidQuantity
	}
	if in.ExternalReference == "" {
		return domain.PaymentIntent{}, domain.ErrReferenceRequired
	}
	if in.Kind != domain.KindVote && in.Kind != domain.KindTicket {
		return domain.PaymentIntent{}, fmt.Errorf("unknown purchase kind %q", in.Kind)
	}
	if in.AmountCents < 0 {
		return domain.PaymentIntent{}, domain.ErrInvalidAmount
	}

	now := s.clock.Now()
	var result domain.PaymentIntent

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if existing, err := s.repo.FindIntentByReference(txCtx, in.ExternalReference); err != nil {
			return err
		} else if existing != nil {
			if !matchesIntent(*existing, in) {
				return domain.ErrDuplicateReference
			}
			result = *existing
			return nil
		}

		unitPrice, err := s.unitPrice(txCtx, in)
		if err != nil {
			return err
		}
		if in.AmountCents != unitPrice*int64(in.Quantity) {
			return domain.ErrAmountMismatch
		}

		if in.Kind == domain.KindTicket {
			if err := s.repo.ReserveCapacity(txCtx, in.TargetID, in.Quantity); err != nil {
				return err
			}
		}

		intent := domain.PaymentIntent{
			ID:                uuid.NewString(),
			ExternalReference: in.ExternalReference,
			Kind:              in.Kind,
			TargetID:          in.TargetID,
			Quantity:          in.Quantity,
			AmountCents:       in.AmountCents,
			BuyerName:         in.BuyerName,
			BuyerPhone:        in.BuyerPhone,
			Status:            domain.IntentStatusPending,
			CreatedAt:         now,
		}

		if err := s.repo.CreateIntent(txCtx, intent); err != nil {
			// Re-read on conflict so a concurrent identical retry still
			// gets the winning intent back.
			if err == domain.ErrDuplicateReference {
				existing, err := s.repo.FindIntentByReference(txCtx, in.ExternalReference)
				if err != nil {
					return err
				}
				if existing != nil {
					if !matchesIntent(*existing, in) {
						return domain.ErrDuplicateReference
					}
					result = *existing
					return nil
				}
			}
			return err
		}

		result = intent
		return nil
	})
	if err != nil {
		return domain.PaymentIntent{}, err
	}
	return result, nil
}

func (s *AllocationService) unitPrice(ctx context.Context, in InitiatePurchaseInput) (int64, error) {
	switch in.Kind {
	case domain.KindVote:
		event, err := s.repo.GetEventByNominee(ctx, in.TargetID)
		if err != nil {
			return 0, err
		}
		if event.MaxVotesPerIntent > 0 && in.Quantity > event.MaxVotesPerIntent {
			return 0, domain.ErrVoteLimitExceeded
		}
		return event.VotePriceCents, nil
	default:
		tt, err := s.repo.GetTicketType(ctx, in.TargetID)
		if err != nil {
			return 0, err
		}
		return tt.PriceCents, nil
	}
}

func matchesIntent(existing domain.PaymentIntent, in InitiatePurchaseInput) bool {
	return existing.Kind == in.Kind &&
		existing.TargetID == in.TargetID &&
		existing.Quantity == in.Quantity &&
		existing.AmountCents == in.AmountCents
}

type ConfirmResult struct {
	Credit  domain.CommittedCredit
	Created bool
}

// Confirm converts a pending intent into a durable credit. Replays return
// the existing credit without touching inventory; a confirm for an intent
// already failed or expired is a resolution conflict.
func (s *AllocationService) Confirm(ctx context.Context, reference string) (ConfirmResult, error) {
	if reference == "" {
		return ConfirmResult{}, domain.ErrReferenceRequired
	}

	now := s.clock.Now()
	var result ConfirmResult
	var conflictWith domain.IntentStatus

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		intent, err := s.repo.GetIntentByReferenceForUpdate(txCtx, reference)
		if err != nil {
			return err
		}

		switch intent.Status {
		case domain.IntentStatusSucceeded:
			credit, err := s.findCredit(txCtx, intent)
			if err != nil {
				return err
			}
			result = ConfirmResult{Credit: credit, Created: false}
			return nil
		case domain.IntentStatusFailed, domain.IntentStatusExpired:
			conflictWith = intent.Status
			return domain.ErrInconsistentResolution
		}

		if intent.Kind == domain.KindTicket {
			if err := s.repo.CommitCapacity(txCtx, intent.TargetID, intent.Quantity); err != nil {
				return err
			}
		}

		credit, err := s.createCredit(txCtx, intent, now)
		if err != nil {
			// The payment_reference uniqueness backstop: a duplicate insert
			// means another confirm already credited this intent.
			if err == domain.ErrDuplicateReference {
				credit, err := s.findCredit(txCtx, intent)
				if err != nil {
					return err
				}
				result = ConfirmResult{Credit: credit, Created: false}
				return nil
			}
			return err
		}

		ok, err := s.repo.MarkIntentResolved(txCtx, reference, domain.IntentStatusSucceeded, now)
		if err != nil {
			return err
		}
		if !ok {
			conflictWith = intent.Status
			return domain.ErrInconsistentResolution
		}

		result = ConfirmResult{Credit: credit, Created: true}
		return nil
	})
	if err != nil {
		if err == domain.ErrInconsistentResolution {
			s.reportConflict(ctx, reference, domain.IntentStatusSucceeded, conflictWith)
		}
		return ConfirmResult{}, err
	}
	return result, nil
}

// Deny releases the reservation of a pending intent after a failed payment.
// A deny for an intent already succeeded is a resolution conflict; a deny
// for an intent already failed or expired is a no-op.
func (s *AllocationService) Deny(ctx context.Context, reference string) error {
	return s.resolveNegative(ctx, reference, domain.IntentStatusFailed, false)
}

// Expire releases the reservation of a pending intent past its TTL. Expire
// never conflicts: a late sweep racing a legitimate webhook loses quietly.
func (s *AllocationService) Expire(ctx context.Context, reference string) error {
	return s.resolveNegative(ctx, reference, domain.IntentStatusExpired, true)
}

func (s *AllocationService) resolveNegative(ctx context.Context, reference string, status domain.IntentStatus, tolerateSucceeded bool) error {
	if reference == "" {
		return domain.ErrReferenceRequired
	}

	now := s.clock.Now()
	var conflictWith domain.IntentStatus

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		intent, err := s.repo.GetIntentByReferenceForUpdate(txCtx, reference)
		if err != nil {
			return err
		}

		switch intent.Status {
		case domain.IntentStatusFailed, domain.IntentStatusExpired:
			return nil
		case domain.IntentStatusSucceeded:
			if tolerateSucceeded {
				return nil
			}
			conflictWith = intent.Status
			return domain.ErrInconsistentResolution
		}

		if intent.Kind == domain.KindTicket {
			if err := s.repo.ReleaseCapacity(txCtx, intent.TargetID, intent.Quantity); err != nil {
				return err
			}
		}

		ok, err := s.repo.MarkIntentResolved(txCtx, reference, status, now)
		if err != nil {
			return err
		}
		if !ok {
			if tolerateSucceeded {
				return nil
			}
			conflictWith = domain.IntentStatusSucceeded
			return domain.ErrInconsistentResolution
		}
		return nil
	})
	if err == domain.ErrInconsistentResolution {
		s.reportConflict(ctx, reference, status, conflictWith)
	}
	return err
}

func (s *AllocationService) createCredit(ctx context.Context, intent domain.PaymentIntent, now time.Time) (domain.CommittedCredit, error) {
	if intent.Kind == domain.KindVote {
		vote := domain.Vote{
			ID:               uuid.NewString(),
			NomineeID:        intent.TargetID,
			Quantity:         intent.Quantity,
			AmountCents:      intent.AmountCents,
			PaymentReference: intent.ExternalReference,
			CreatedAt:        now,
		}
		if err := s.repo.CreateVote(ctx, vote); err != nil {
			return domain.CommittedCredit{}, err
		}
		return domain.CommittedCredit{Vote: &vote}, nil
	}

	ticket := domain.Ticket{
		ID:               uuid.NewString(),
		TicketTypeID:     intent.TargetID,
		BuyerName:        intent.BuyerName,
		BuyerPhone:       intent.BuyerPhone,
		AmountCents:      intent.AmountCents,
		PaymentReference: intent.ExternalReference,
		CreatedAt:        now,
	}
	if err := s.repo.CreateTicket(ctx, ticket); err != nil {
		return domain.CommittedCredit{}, err
	}
	return domain.CommittedCredit{Ticket: &ticket}, nil
}

func (s *AllocationService) findCredit(ctx context.Context, intent domain.PaymentIntent) (domain.CommittedCredit, error) {
	if intent.Kind == domain.KindVote {
		vote, err := s.repo.FindVoteByReference(ctx, intent.ExternalReference)
		if err != nil {
			return domain.CommittedCredit{}, err
		}
		if vote == nil {
			return domain.CommittedCredit{}, fmt.Errorf("intent %s succeeded but vote credit missing", intent.ExternalReference)
		}
		return domain.CommittedCredit{Vote: vote}, nil
	}

	ticket, err := s.repo.FindTicketByReference(ctx, intent.ExternalReference)
	if err != nil {
		return domain.CommittedCredit{}, err
	}
	if ticket == nil {
		return domain.CommittedCredit{}, fmt.Errorf("intent %s succeeded but ticket credit missing", intent.ExternalReference)
	}
	return domain.CommittedCredit{Ticket: ticket}, nil
}

func (s *AllocationService) reportConflict(ctx context.Context, reference string, attempted, current domain.IntentStatus) {
	if s.conflicts == nil {
		return
	}
	s.conflicts.ReportResolutionConflict(ctx, reference, attempted, current)
}

// ListExpiredPendingReferences exposes stale pending intents to the sweeper.
func (s *AllocationService) ListExpiredPendingReferences(ctx context.Context, olderThan time.Time, limit int) ([]string, error) {
	return s.repo.ListExpiredPendingReferences(ctx, olderThan, limit)
}

package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ransjnr/evote-sub001/internal/domain"
)

// fakeAllocationRepo is an in-memory AllocationRepository. It keys intents
// and credits by external reference, mirroring the unique constraints the
// real schema enforces.
type fakeAllocationRepo struct {
	intents     map[string]*domain.PaymentIntent
	intentOrder []string
	ticketTypes map[string]*domain.TicketType
	events      map[string]domain.Event
	votes       map[string]domain.Vote
	tickets     map[string]domain.Ticket
}

func newFakeAllocationRepo() *fakeAllocationRepo {
	return &fakeAllocationRepo{
		intents:     make(map[string]*domain.PaymentIntent),
		ticketTypes: make(map[string]*domain.TicketType),
		events:      make(map[string]domain.Event),
		votes:       make(map[string]domain.Vote),
		tickets:     make(map[string]domain.Ticket),
	}
}

func (f *fakeAllocationRepo) addTicketType(tt domain.TicketType) {
	f.ticketTypes[tt.ID] = &tt
}

func (f *fakeAllocationRepo) addNominee(nomineeID string, event domain.Event) {
	f.events[nomineeID] = event
}

func (f *fakeAllocationRepo) addIntent(intent domain.PaymentIntent) {
	f.intents[intent.ExternalReference] = &intent
	f.intentOrder = append(f.intentOrder, intent.ExternalReference)
}

func (f *fakeAllocationRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeAllocationRepo) FindIntentByReference(_ context.Context, reference string) (*domain.PaymentIntent, error) {
	intent, ok := f.intents[reference]
	if !ok {
		return nil, nil
	}
	cp := *intent
	return &cp, nil
}

func (f *fakeAllocationRepo) GetIntentByReferenceForUpdate(_ context.Context, reference string) (domain.PaymentIntent, error) {
	intent, ok := f.intents[reference]
	if !ok {
		return domain.PaymentIntent{}, domain.ErrIntentNotFound
	}
	return *intent, nil
}

func (f *fakeAllocationRepo) CreateIntent(_ context.Context, intent domain.PaymentIntent) error {
	if _, ok := f.intents[intent.ExternalReference]; ok {
		return domain.ErrDuplicateReference
	}
	f.addIntent(intent)
	return nil
}

func (f *fakeAllocationRepo) MarkIntentResolved(_ context.Context, reference string, status domain.IntentStatus, at time.Time) (bool, error) {
	intent, ok := f.intents[reference]
	if !ok || intent.Status != domain.IntentStatusPending {
		return false, nil
	}
	intent.Status = status
	intent.ResolvedAt = &at
	return true, nil
}

func (f *fakeAllocationRepo) ListExpiredPendingReferences(_ context.Context, olderThan time.Time, limit int) ([]string, error) {
	var refs []string
	for _, ref := range f.intentOrder {
		intent := f.intents[ref]
		if intent.Status != domain.IntentStatusPending || !intent.CreatedAt.Before(olderThan) {
			continue
		}
		refs = append(refs, ref)
		if len(refs) == limit {
			break
		}
	}
	return refs, nil
}

func (f *fakeAllocationRepo) GetEventByNominee(_ context.Context, nomineeID string) (domain.Event, error) {
	event, ok := f.events[nomineeID]
	if !ok {
		return domain.Event{}, domain.ErrNomineeNotFound
	}
	return event, nil
}

func (f *fakeAllocationRepo) GetTicketType(_ context.Context, ticketTypeID string) (domain.TicketType, error) {
	tt, ok := f.ticketTypes[ticketTypeID]
	if !ok {
		return domain.TicketType{}, domain.ErrTicketTypeNotFound
	}
	return *tt, nil
}

func (f *fakeAllocationRepo) ReserveCapacity(_ context.Context, ticketTypeID string, quantity int) error {
	tt, ok := f.ticketTypes[ticketTypeID]
	if !ok {
		return domain.ErrTicketTypeNotFound
	}
	if tt.Remaining() < quantity {
		return domain.ErrInsufficientCapacity
	}
	tt.Reserved += quantity
	return nil
}

func (f *fakeAllocationRepo) CommitCapacity(_ context.Context, ticketTypeID string, quantity int) error {
	tt, ok := f.ticketTypes[ticketTypeID]
	if !ok {
		return domain.ErrTicketTypeNotFound
	}
	if tt.Reserved < quantity {
		return fmt.Errorf("no reservation of %d on ticket type %s", quantity, ticketTypeID)
	}
	tt.Reserved -= quantity
	tt.Committed += quantity
	return nil
}

func (f *fakeAllocationRepo) ReleaseCapacity(_ context.Context, ticketTypeID string, quantity int) error {
	tt, ok := f.ticketTypes[ticketTypeID]
	if !ok {
		return domain.ErrTicketTypeNotFound
	}
	if tt.Reserved < quantity {
		return fmt.Errorf("no reservation of %d on ticket type %s", quantity, ticketTypeID)
	}
	tt.Reserved -= quantity
	return nil
}

func (f *fakeAllocationRepo) CreateVote(_ context.Context, vote domain.Vote) error {
	if _, ok := f.votes[vote.PaymentReference]; ok {
		return domain.ErrDuplicateReference
	}
	f.votes[vote.PaymentReference] = vote
	return nil
}

func (f *fakeAllocationRepo) CreateTicket(_ context.Context, ticket domain.Ticket) error {
	if _, ok := f.tickets[ticket.PaymentReference]; ok {
		return domain.ErrDuplicateReference
	}
	f.tickets[ticket.PaymentReference] = ticket
	return nil
}

func (f *fakeAllocationRepo) FindVoteByReference(_ context.Context, reference string) (*domain.Vote, error) {
	vote, ok := f.votes[reference]
	if !ok {
		return nil, nil
	}
	return &vote, nil
}

func (f *fakeAllocationRepo) FindTicketByReference(_ context.Context, reference string) (*domain.Ticket, error) {
	ticket, ok := f.tickets[reference]
	if !ok {
		return nil, nil
	}
	return &ticket, nil
}

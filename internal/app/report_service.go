package app

import (
	"context"

	"github.com/ransjnr/evote-sub001/internal/domain"
)

// NomineeVoteTotal is one row of the per-event vote standings, computed
// from committed votes only.
type NomineeVoteTotal struct {
	NomineeID   string
	NomineeName string
	Code        string
	Votes       int
}

// Revenue sums committed credits for an event, split by kind.
type Revenue struct {
	VoteCents   int64
	TicketCents int64
}

func (r Revenue) TotalCents() int64 {
	return r.VoteCents + r.TicketCents
}

// InventoryStatus is the dashboard view of a ticket type's capacity. It is
// display-only; allocation decisions never read it.
type InventoryStatus struct {
	TicketTypeID string
	Capacity     int
	Remaining    int
}

type ReportRepository interface {
	VoteTotalsByEvent(ctx context.Context, eventID string) ([]NomineeVoteTotal, error)
	RevenueByEvent(ctx context.Context, eventID string) (Revenue, error)
	GetTicketType(ctx context.Context, ticketTypeID string) (domain.TicketType, error)
}

// ReportService serves read-only projections. Every figure derives from
// committed state; pending intents and live reservations are invisible here.
type ReportService struct {
	repo ReportRepository
}

func NewReportService(repo ReportRepository) *ReportService {
	return &ReportService{repo: repo}
}

func (s *ReportService) VoteTotals(ctx context.Context, eventID string) ([]NomineeVoteTotal, error) {
	if eventID == "" {
		return nil, domain.ErrInvalidID
	}
	return s.repo.VoteTotalsByEvent(ctx, eventID)
}

func (s *ReportService) Revenue(ctx context.Context, eventID string) (Revenue, error) {
	if eventID == "" {
		return Revenue{}, domain.ErrInvalidID
	}
	return s.repo.RevenueByEvent(ctx, eventID)
}

func (s *ReportService) InventoryStatus(ctx context.Context, ticketTypeID string) (InventoryStatus, error) {
	if ticketTypeID == "" {
		return InventoryStatus{}, domain.ErrInvalidID
	}
	tt, err := s.repo.GetTicketType(ctx, ticketTypeID)
	if err != nil {
		return InventoryStatus{}, err
	}
	return InventoryStatus{
		TicketTypeID: tt.ID,
		Capacity:     tt.Capacity,
		Remaining:    tt.Remaining(),
	}, nil
}

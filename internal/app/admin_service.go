package app

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ransjnr/evote-sub001/internal/clock"
	"github.com/ransjnr/evote-sub001/internal/domain"
)

type AdminRepository interface {
	CreateEvent(ctx context.Context, event domain.Event) error
	ListEvents(ctx context.Context) ([]domain.Event, error)
	CreateTicketType(ctx context.Context, tt domain.TicketType) error
	ListTicketTypesByEvent(ctx context.Context, eventID string) ([]domain.TicketType, error)
	CreateDepartment(ctx context.Context, dept domain.Department) error
	ListDepartmentsByEvent(ctx context.Context, eventID string) ([]domain.Department, error)
	CreateNominee(ctx context.Context, nominee domain.Nominee) error
	ListNomineesByDepartment(ctx context.Context, departmentID string) ([]domain.Nominee, error)
	CheckInTicket(ctx context.Context, ticketID string, at time.Time) error
}

type AdminService struct {
	repo  AdminRepository
	codes *CodeService
	clock clock.Clock
}

func NewAdminService(repo AdminRepository, codes *CodeService, clk clock.Clock) *AdminService {
	return &AdminService{
		repo:  repo,
		codes: codes,
		clock: clk,
	}
}

type CreateEventInput struct {
	Name              string
	StartsAt          *time.Time
	VotePriceCents    int64
	MaxVotesPerIntent int
}

func (s *AdminService) CreateEvent(ctx context.Context, in CreateEventInput) (domain.Event, error) {
	if in.Name == "" {
		return domain.Event{}, domain.ErrEventNameRequired
	}
	if in.VotePriceCents < 0 {
		return domain.Event{}, domain.ErrInvalidAmount
	}
	if in.MaxVotesPerIntent < 0 {
		return domain.Event{}, domain.ErrInvalidQuantity
	}
	startsAt := s.clock.Now()
	if in.StartsAt != nil {
		startsAt = *in.StartsAt
	}

	event := domain.Event{
		ID:                uuid.NewString(),
		Name:              in.Name,
		StartsAt:          startsAt,
		VotePriceCents:    in.VotePriceCents,
		MaxVotesPerIntent: in.MaxVotesPerIntent,
	}

	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return domain.Event{}, err
	}
	return event, nil
}

func (s *AdminService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	return s.repo.ListEvents(ctx)
}

type CreateTicketTypeInput struct {
	EventID    string
	Name       string
	PriceCents int64
	Capacity   int
}

func (s *AdminService) CreateTicketType(ctx context.Context, in CreateTicketTypeInput) (domain.TicketType, error) {
	if in.EventID == "" {
		return domain.TicketType{}, domain.ErrInvalidID
	}
	if in.Name == "" {
		return domain.TicketType{}, domain.ErrNameRequired
	}
	if in.Capacity <= 0 {
		return domain.TicketType{}, domain.ErrInvalidCapacity
	}
	if in.PriceCents < 0 {
		return domain.TicketType{}, domain.ErrInvalidAmount
	}

	tt := domain.TicketType{
		ID:         uuid.NewString(),
		EventID:    in.EventID,
		Name:       in.Name,
		PriceCents: in.PriceCents,
		Capacity:   in.Capacity,
	}

	if err := s.repo.CreateTicketType(ctx, tt); err != nil {
		return domain.TicketType{}, err
	}
	return tt, nil
}

func (s *AdminService) ListTicketTypes(ctx context.Context, eventID string) ([]domain.TicketType, error) {
	if eventID == "" {
		return nil, domain.ErrInvalidID
	}
	return s.repo.ListTicketTypesByEvent(ctx, eventID)
}

type CreateDepartmentInput struct {
	EventID string
	Name    string
	Abbrev  string
}

func (s *AdminService) CreateDepartment(ctx context.Context, in CreateDepartmentInput) (domain.Department, error) {
	if in.EventID == "" {
		return domain.Department{}, domain.ErrInvalidID
	}
	if in.Name == "" {
		return domain.Department{}, domain.ErrNameRequired
	}
	abbrev := strings.ToUpper(strings.TrimSpace(in.Abbrev))
	if abbrev == "" {
		return domain.Department{}, domain.ErrAbbrevRequired
	}

	dept := domain.Department{
		ID:      uuid.NewString(),
		EventID: in.EventID,
		Name:    in.Name,
		Abbrev:  abbrev,
	}

	if err := s.repo.CreateDepartment(ctx, dept); err != nil {
		return domain.Department{}, err
	}
	return dept, nil
}

func (s *AdminService) ListDepartments(ctx context.Context, eventID string) ([]domain.Department, error) {
	if eventID == "" {
		return nil, domain.ErrInvalidID
	}
	return s.repo.ListDepartmentsByEvent(ctx, eventID)
}

type CreateNomineeInput struct {
	DepartmentID string
	Name         string
}

// createNomineeAttempts bounds the retry loop when a freshly allocated code
// collides with a pre-existing one (legacy data in the code namespace).
const createNomineeAttempts = 100

func (s *AdminService) CreateNominee(ctx context.Context, in CreateNomineeInput) (domain.Nominee, error) {
	if in.DepartmentID == "" {
		return domain.Nominee{}, domain.ErrInvalidID
	}
	if in.Name == "" {
		return domain.Nominee{}, domain.ErrNameRequired
	}

	for attempt := 0; attempt < createNomineeAttempts; attempt++ {
		code, err := s.codes.AllocateCode(ctx, in.DepartmentID)
		if err != nil {
			return domain.Nominee{}, err
		}

		nominee := domain.Nominee{
			ID:           uuid.NewString(),
			DepartmentID: in.DepartmentID,
			Name:         in.Name,
			Code:         code,
		}

		err = s.repo.CreateNominee(ctx, nominee)
		if err == domain.ErrCodeTaken {
			continue
		}
		if err != nil {
			return domain.Nominee{}, err
		}
		return nominee, nil
	}
	return domain.Nominee{}, domain.ErrCodeSpaceExhausted
}

func (s *AdminService) ListNominees(ctx context.Context, departmentID string) ([]domain.Nominee, error) {
	if departmentID == "" {
		return nil, domain.ErrInvalidID
	}
	return s.repo.ListNomineesByDepartment(ctx, departmentID)
}

func (s *AdminService) DeleteNominee(ctx context.Context, nomineeID string) error {
	return s.codes.DeleteNominee(ctx, nomineeID)
}

// CheckInTicket marks a ticket as used at the door. A second check-in for
// the same ticket fails with ErrTicketAlreadyCheckedIn.
func (s *AdminService) CheckInTicket(ctx context.Context, ticketID string) error {
	if ticketID == "" {
		return domain.ErrInvalidID
	}
	return s.repo.CheckInTicket(ctx, ticketID, s.clock.Now())
}

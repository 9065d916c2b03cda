package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ransjnr/evote-sub001/internal/app"
	"github.com/ransjnr/evote-sub001/internal/domain"
)

type fakeAdminService struct {
	event      domain.Event
	events     []domain.Event
	ticketType domain.TicketType
	department domain.Department
	nominee    domain.Nominee
	nominees   []domain.Nominee
	err        error

	deleted   []string
	checkedIn []string
}

func (f *fakeAdminService) CreateEvent(_ context.Context, _ app.CreateEventInput) (domain.Event, error) {
	return f.event, f.err
}

func (f *fakeAdminService) ListEvents(_ context.Context) ([]domain.Event, error) {
	return f.events, f.err
}

func (f *fakeAdminService) CreateTicketType(_ context.Context, _ app.CreateTicketTypeInput) (domain.TicketType, error) {
	return f.ticketType, f.err
}

func (f *fakeAdminService) ListTicketTypes(_ context.Context, _ string) ([]domain.TicketType, error) {
	return nil, f.err
}

func (f *fakeAdminService) CreateDepartment(_ context.Context, _ app.CreateDepartmentInput) (domain.Department, error) {
	return f.department, f.err
}

func (f *fakeAdminService) ListDepartments(_ context.Context, _ string) ([]domain.Department, error) {
	return nil, f.err
}

func (f *fakeAdminService) CreateNominee(_ context.Context, _ app.CreateNomineeInput) (domain.Nominee, error) {
	return f.nominee, f.err
}

func (f *fakeAdminService) ListNominees(_ context.Context, _ string) ([]domain.Nominee, error) {
	return f.nominees, f.err
}

func (f *fakeAdminService) DeleteNominee(_ context.Context, nomineeID string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, nomineeID)
	return nil
}

func (f *fakeAdminService) CheckInTicket(_ context.Context, ticketID string) error {
	if f.err != nil {
		return f.err
	}
	f.checkedIn = append(f.checkedIn, ticketID)
	return nil
}

func TestHandleAdminEvents(t *testing.T) {
	t.Parallel()

	t.Run("create", func(t *testing.T) {
		svc := &fakeAdminService{event: domain.Event{
			ID:             "event-1",
			Name:           "Tech Awards",
			StartsAt:       time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC),
			VotePriceCents: 100,
		}}
		rec := postJSON(t, HandleAdminEvents(svc), "/admin/events",
			`{"name":"Tech Awards","vote_price_cents":100}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp eventResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.ID != "event-1" || resp.VotePriceCents != 100 {
			t.Fatalf("unexpected response: %+v", resp)
		}
	})

	t.Run("create requires a name", func(t *testing.T) {
		rec := postJSON(t, HandleAdminEvents(&fakeAdminService{}), "/admin/events", `{}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("create rejects malformed starts_at", func(t *testing.T) {
		rec := postJSON(t, HandleAdminEvents(&fakeAdminService{}), "/admin/events",
			`{"name":"x","starts_at":"tomorrow"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("list", func(t *testing.T) {
		svc := &fakeAdminService{events: []domain.Event{{ID: "event-1", Name: "A"}, {ID: "event-2", Name: "B"}}}
		req := httptest.NewRequest(http.MethodGet, "/admin/events", nil)
		rec := httptest.NewRecorder()
		HandleAdminEvents(svc)(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var resp []eventResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if len(resp) != 2 {
			t.Fatalf("expected 2 events, got %d", len(resp))
		}
	})
}

func TestHandleAdminEventResources(t *testing.T) {
	t.Parallel()

	t.Run("create ticket type includes remaining", func(t *testing.T) {
		svc := &fakeAdminService{ticketType: domain.TicketType{
			ID: "tt-1", EventID: "event-1", Name: "VIP", PriceCents: 5000, Capacity: 100,
		}}
		rec := postJSON(t, HandleAdminEventResources(svc), "/admin/events/event-1/ticket-types",
			`{"name":"VIP","price_cents":5000,"capacity":100}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp ticketTypeResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.Remaining != 100 {
			t.Fatalf("expected remaining 100, got %d", resp.Remaining)
		}
	})

	t.Run("duplicate ticket type answers 409", func(t *testing.T) {
		svc := &fakeAdminService{err: domain.ErrTicketTypeExists}
		rec := postJSON(t, HandleAdminEventResources(svc), "/admin/events/event-1/ticket-types",
			`{"name":"VIP","price_cents":5000,"capacity":100}`)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("create department", func(t *testing.T) {
		svc := &fakeAdminService{department: domain.Department{
			ID: "dept-1", EventID: "event-1", Name: "Computer Science", Abbrev: "CS",
		}}
		rec := postJSON(t, HandleAdminEventResources(svc), "/admin/events/event-1/departments",
			`{"name":"Computer Science","abbrev":"CS"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("unknown event answers 404", func(t *testing.T) {
		svc := &fakeAdminService{err: domain.ErrEventNotFound}
		rec := postJSON(t, HandleAdminEventResources(svc), "/admin/events/event-x/departments",
			`{"name":"Computer Science","abbrev":"CS"}`)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("unknown sub-resource answers 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/events/event-1/sponsors", nil)
		rec := httptest.NewRecorder()
		HandleAdminEventResources(&fakeAdminService{})(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestHandleAdminDepartmentNominees(t *testing.T) {
	t.Parallel()

	t.Run("create returns the allocated code", func(t *testing.T) {
		svc := &fakeAdminService{nominee: domain.Nominee{
			ID: "nom-1", DepartmentID: "dept-1", Name: "Kofi Mensah", Code: "CS001",
		}}
		rec := postJSON(t, HandleAdminDepartmentNominees(svc), "/admin/departments/dept-1/nominees",
			`{"name":"Kofi Mensah"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp nomineeResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.Code != "CS001" {
			t.Fatalf("expected CS001, got %s", resp.Code)
		}
	})

	t.Run("code space exhausted answers 409", func(t *testing.T) {
		svc := &fakeAdminService{err: domain.ErrCodeSpaceExhausted}
		rec := postJSON(t, HandleAdminDepartmentNominees(svc), "/admin/departments/dept-1/nominees",
			`{"name":"x"}`)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("list", func(t *testing.T) {
		svc := &fakeAdminService{nominees: []domain.Nominee{
			{ID: "nom-1", Code: "CS001"},
			{ID: "nom-2", Code: "CS002"},
		}}
		req := httptest.NewRequest(http.MethodGet, "/admin/departments/dept-1/nominees", nil)
		rec := httptest.NewRecorder()
		HandleAdminDepartmentNominees(svc)(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var resp []nomineeResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if len(resp) != 2 {
			t.Fatalf("expected 2 nominees, got %d", len(resp))
		}
	})
}

func TestHandleAdminNomineeDelete(t *testing.T) {
	t.Parallel()

	t.Run("deletes", func(t *testing.T) {
		svc := &fakeAdminService{}
		req := httptest.NewRequest(http.MethodDelete, "/admin/nominees/nom-1", nil)
		rec := httptest.NewRecorder()
		HandleAdminNomineeDelete(svc)(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if len(svc.deleted) != 1 || svc.deleted[0] != "nom-1" {
			t.Fatalf("unexpected deletes: %v", svc.deleted)
		}
	})

	t.Run("dependent votes answer 409", func(t *testing.T) {
		svc := &fakeAdminService{err: domain.ErrHasDependentVotes}
		req := httptest.NewRequest(http.MethodDelete, "/admin/nominees/nom-1", nil)
		rec := httptest.NewRecorder()
		HandleAdminNomineeDelete(svc)(rec, req)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("method not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/nominees/nom-1", nil)
		rec := httptest.NewRecorder()
		HandleAdminNomineeDelete(&fakeAdminService{})(rec, req)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", rec.Code)
		}
	})
}

func TestHandleTicketCheckIn(t *testing.T) {
	t.Parallel()

	t.Run("checks in", func(t *testing.T) {
		svc := &fakeAdminService{}
		req := httptest.NewRequest(http.MethodPost, "/admin/tickets/ticket-1/checkin", nil)
		rec := httptest.NewRecorder()
		HandleTicketCheckIn(svc)(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(svc.checkedIn) != 1 || svc.checkedIn[0] != "ticket-1" {
			t.Fatalf("unexpected check-ins: %v", svc.checkedIn)
		}
	})

	t.Run("already checked in answers 409", func(t *testing.T) {
		svc := &fakeAdminService{err: domain.ErrTicketAlreadyCheckedIn}
		req := httptest.NewRequest(http.MethodPost, "/admin/tickets/ticket-1/checkin", nil)
		rec := httptest.NewRecorder()
		HandleTicketCheckIn(svc)(rec, req)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("unknown ticket answers 404", func(t *testing.T) {
		svc := &fakeAdminService{err: domain.ErrTicketNotFound}
		req := httptest.NewRequest(http.MethodPost, "/admin/tickets/ticket-x/checkin", nil)
		rec := httptest.NewRecorder()
		HandleTicketCheckIn(svc)(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

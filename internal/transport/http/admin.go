package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/ransjnr/evote-sub001/internal/app"
	"github.com/ransjnr/evote-sub001/internal/domain"
)

// AdminEventService is the minimal interface needed for admin event endpoints.
type AdminEventService interface {
	CreateEvent(ctx context.Context, in app.CreateEventInput) (domain.Event, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
}

// AdminCatalogService covers the per-event admin sub-resources.
type AdminCatalogService interface {
	CreateTicketType(ctx context.Context, in app.CreateTicketTypeInput) (domain.TicketType, error)
	ListTicketTypes(ctx context.Context, eventID string) ([]domain.TicketType, error)
	CreateDepartment(ctx context.Context, in app.CreateDepartmentInput) (domain.Department, error)
	ListDepartments(ctx context.Context, eventID string) ([]domain.Department, error)
}

// AdminNomineeService covers nominee creation, listing and deletion.
type AdminNomineeService interface {
	CreateNominee(ctx context.Context, in app.CreateNomineeInput) (domain.Nominee, error)
	ListNominees(ctx context.Context, departmentID string) ([]domain.Nominee, error)
	DeleteNominee(ctx context.Context, nomineeID string) error
}

// TicketCheckInService marks tickets used at the door.
type TicketCheckInService interface {
	CheckInTicket(ctx context.Context, ticketID string) error
}

// HandleAdminEvents returns an HTTP handler for admin event creation/listing.
func HandleAdminEvents(svc AdminEventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			events, err := svc.ListEvents(r.Context())
			if err != nil {
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				return
			}
			resp := make([]eventResponse, 0, len(events))
			for _, event := range events {
				resp = append(resp, newEventResponse(event))
			}
			writeJSON(w, http.StatusOK, resp)
		case http.MethodPost:
			var req createEventRequest
			if !decodeJSON(w, r, &req) {
				return
			}
			if req.Name == "" {
				writeError(w, http.StatusBadRequest, codeEventNameRequired, domain.ErrEventNameRequired.Error())
				return
			}

			var startsAt *time.Time
			if req.StartsAt != "" {
				parsed, err := time.Parse(time.RFC3339, req.StartsAt)
				if err != nil {
					writeError(w, http.StatusBadRequest, codeInvalidStartsAt, "invalid starts_at format")
					return
				}
				startsAt = &parsed
			}

			event, err := svc.CreateEvent(r.Context(), app.CreateEventInput{
				Name:              req.Name,
				StartsAt:          startsAt,
				VotePriceCents:    req.VotePriceCents,
				MaxVotesPerIntent: req.MaxVotesPerIntent,
			})
			if err != nil {
				switch err {
				case domain.ErrEventNameRequired:
					writeError(w, http.StatusBadRequest, codeEventNameRequired, err.Error())
				case domain.ErrInvalidAmount:
					writeError(w, http.StatusBadRequest, codeInvalidAmount, err.Error())
				case domain.ErrInvalidQuantity:
					writeError(w, http.StatusBadRequest, codeInvalidQuantity, err.Error())
				default:
					writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				}
				return
			}

			writeJSON(w, http.StatusCreated, newEventResponse(event))
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

// HandleAdminEventResources routes /admin/events/{id}/ticket-types and
// /admin/events/{id}/departments.
func HandleAdminEventResources(svc AdminCatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, resource, ok := parseAdminEventResourcePath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		switch resource {
		case "ticket-types":
			handleAdminTicketTypes(w, r, svc, eventID)
		case "departments":
			handleAdminDepartments(w, r, svc, eventID)
		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
		}
	}
}

func handleAdminTicketTypes(w http.ResponseWriter, r *http.Request, svc AdminCatalogService, eventID string) {
	switch r.Method {
	case http.MethodGet:
		types, err := svc.ListTicketTypes(r.Context(), eventID)
		if err != nil {
			writeAdminListError(w, err)
			return
		}
		resp := make([]ticketTypeResponse, 0, len(types))
		for _, tt := range types {
			resp = append(resp, newTicketTypeResponse(tt))
		}
		writeJSON(w, http.StatusOK, resp)
	case http.MethodPost:
		var req createTicketTypeRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		tt, err := svc.CreateTicketType(r.Context(), app.CreateTicketTypeInput{
			EventID:    eventID,
			Name:       req.Name,
			PriceCents: req.PriceCents,
			Capacity:   req.Capacity,
		})
		if err != nil {
			switch err {
			case domain.ErrNameRequired:
				writeError(w, http.StatusBadRequest, codeNameRequired, err.Error())
			case domain.ErrInvalidCapacity:
				writeError(w, http.StatusBadRequest, codeInvalidCapacity, err.Error())
			case domain.ErrInvalidAmount:
				writeError(w, http.StatusBadRequest, codeInvalidAmount, err.Error())
			case domain.ErrInvalidID:
				writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
			case domain.ErrEventNotFound:
				writeError(w, http.StatusNotFound, codeEventNotFound, err.Error())
			case domain.ErrTicketTypeExists:
				writeError(w, http.StatusConflict, codeTicketTypeExists, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}
		writeJSON(w, http.StatusCreated, newTicketTypeResponse(tt))
	default:
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
	}
}

func handleAdminDepartments(w http.ResponseWriter, r *http.Request, svc AdminCatalogService, eventID string) {
	switch r.Method {
	case http.MethodGet:
		depts, err := svc.ListDepartments(r.Context(), eventID)
		if err != nil {
			writeAdminListError(w, err)
			return
		}
		resp := make([]departmentResponse, 0, len(depts))
		for _, d := range depts {
			resp = append(resp, departmentResponse{ID: d.ID, EventID: d.EventID, Name: d.Name, Abbrev: d.Abbrev})
		}
		writeJSON(w, http.StatusOK, resp)
	case http.MethodPost:
		var req createDepartmentRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		dept, err := svc.CreateDepartment(r.Context(), app.CreateDepartmentInput{
			EventID: eventID,
			Name:    req.Name,
			Abbrev:  req.Abbrev,
		})
		if err != nil {
			switch err {
			case domain.ErrNameRequired:
				writeError(w, http.StatusBadRequest, codeNameRequired, err.Error())
			case domain.ErrAbbrevRequired:
				writeError(w, http.StatusBadRequest, codeAbbrevRequired, err.Error())
			case domain.ErrInvalidID:
				writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
			case domain.ErrEventNotFound:
				writeError(w, http.StatusNotFound, codeEventNotFound, err.Error())
			case domain.ErrDepartmentExists:
				writeError(w, http.StatusConflict, codeDepartmentExists, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}
		writeJSON(w, http.StatusCreated, departmentResponse{ID: dept.ID, EventID: dept.EventID, Name: dept.Name, Abbrev: dept.Abbrev})
	default:
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
	}
}

// HandleAdminDepartmentNominees routes /admin/departments/{id}/nominees.
func HandleAdminDepartmentNominees(svc AdminNomineeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		departmentID, ok := parseAdminDepartmentNomineesPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		switch r.Method {
		case http.MethodGet:
			nominees, err := svc.ListNominees(r.Context(), departmentID)
			if err != nil {
				switch err {
				case domain.ErrInvalidID:
					writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
				default:
					writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				}
				return
			}
			resp := make([]nomineeResponse, 0, len(nominees))
			for _, n := range nominees {
				resp = append(resp, nomineeResponse{ID: n.ID, DepartmentID: n.DepartmentID, Name: n.Name, Code: n.Code})
			}
			writeJSON(w, http.StatusOK, resp)
		case http.MethodPost:
			var req createNomineeRequest
			if !decodeJSON(w, r, &req) {
				return
			}

			nominee, err := svc.CreateNominee(r.Context(), app.CreateNomineeInput{
				DepartmentID: departmentID,
				Name:         req.Name,
			})
			if err != nil {
				switch err {
				case domain.ErrNameRequired:
					writeError(w, http.StatusBadRequest, codeNameRequired, err.Error())
				case domain.ErrInvalidID:
					writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
				case domain.ErrDepartmentNotFound:
					writeError(w, http.StatusNotFound, codeDepartmentNotFound, err.Error())
				case domain.ErrCodeSpaceExhausted:
					writeError(w, http.StatusConflict, codeCodeSpaceExhausted, err.Error())
				default:
					writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				}
				return
			}
			writeJSON(w, http.StatusCreated, nomineeResponse{ID: nominee.ID, DepartmentID: nominee.DepartmentID, Name: nominee.Name, Code: nominee.Code})
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

// HandleAdminNomineeDelete handles DELETE /admin/nominees/{id}. Deletion is
// refused while committed votes reference the nominee.
func HandleAdminNomineeDelete(svc AdminNomineeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		nomineeID, ok := parseSubResourcePath(r.URL.Path, "admin", "nominees")
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		if err := svc.DeleteNominee(r.Context(), nomineeID); err != nil {
			switch err {
			case domain.ErrInvalidID:
				writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
			case domain.ErrNomineeNotFound:
				writeError(w, http.StatusNotFound, codeNomineeNotFound, err.Error())
			case domain.ErrHasDependentVotes:
				writeError(w, http.StatusConflict, codeHasDependentVotes, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleTicketCheckIn handles POST /admin/tickets/{id}/checkin.
func HandleTicketCheckIn(svc TicketCheckInService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		ticketID, ok := parseTicketCheckInPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		if err := svc.CheckInTicket(r.Context(), ticketID); err != nil {
			switch err {
			case domain.ErrInvalidID:
				writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
			case domain.ErrTicketNotFound:
				writeError(w, http.StatusNotFound, codeTicketNotFound, err.Error())
			case domain.ErrTicketAlreadyCheckedIn:
				writeError(w, http.StatusConflict, codeTicketCheckedIn, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"ticket_id": ticketID, "status": "checked_in"})
	}
}

func writeAdminListError(w http.ResponseWriter, err error) {
	switch err {
	case domain.ErrInvalidID:
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case domain.ErrEventNotFound:
		writeError(w, http.StatusNotFound, codeEventNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

func parseAdminEventResourcePath(path string) (eventID, resource string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 4 {
		return "", "", false
	}
	if parts[0] != "admin" || parts[1] != "events" || parts[2] == "" || parts[3] == "" {
		return "", "", false
	}
	return parts[2], parts[3], true
}

func parseAdminDepartmentNomineesPath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 4 {
		return "", false
	}
	if parts[0] != "admin" || parts[1] != "departments" || parts[2] == "" || parts[3] != "nominees" {
		return "", false
	}
	return parts[2], true
}

func parseTicketCheckInPath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 4 {
		return "", false
	}
	if parts[0] != "admin" || parts[1] != "tickets" || parts[2] == "" || parts[3] != "checkin" {
		return "", false
	}
	return parts[2], true
}

func parseSubResourcePath(path, root, collection string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 3 {
		return "", false
	}
	if parts[0] != root || parts[1] != collection || parts[2] == "" {
		return "", false
	}
	return parts[2], true
}

type createEventRequest struct {
	Name              string `json:"name"`
	StartsAt          string `json:"starts_at"`
	VotePriceCents    int64  `json:"vote_price_cents"`
	MaxVotesPerIntent int    `json:"max_votes_per_intent"`
}

type eventResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	StartsAt          time.Time `json:"starts_at"`
	VotePriceCents    int64     `json:"vote_price_cents"`
	MaxVotesPerIntent int       `json:"max_votes_per_intent"`
}

func newEventResponse(event domain.Event) eventResponse {
	return eventResponse{
		ID:                event.ID,
		Name:              event.Name,
		StartsAt:          event.StartsAt,
		VotePriceCents:    event.VotePriceCents,
		MaxVotesPerIntent: event.MaxVotesPerIntent,
	}
}

type createTicketTypeRequest struct {
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Capacity   int    `json:"capacity"`
}

type ticketTypeResponse struct {
	ID         string `json:"id"`
	EventID    string `json:"event_id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Capacity   int    `json:"capacity"`
	Remaining  int    `json:"remaining"`
}

func newTicketTypeResponse(tt domain.TicketType) ticketTypeResponse {
	return ticketTypeResponse{
		ID:         tt.ID,
		EventID:    tt.EventID,
		Name:       tt.Name,
		PriceCents: tt.PriceCents,
		Capacity:   tt.Capacity,
		Remaining:  tt.Remaining(),
	}
}

type createDepartmentRequest struct {
	Name   string `json:"name"`
	Abbrev string `json:"abbrev"`
}

type departmentResponse struct {
	ID      string `json:"id"`
	EventID string `json:"event_id"`
	Name    string `json:"name"`
	Abbrev  string `json:"abbrev"`
}

type createNomineeRequest struct {
	Name string `json:"name"`
}

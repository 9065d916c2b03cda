package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/ransjnr/evote-sub001/internal/app"
	"github.com/ransjnr/evote-sub001/internal/domain"
)

// InventoryReader is the minimal interface for the dashboard capacity view.
type InventoryReader interface {
	InventoryStatus(ctx context.Context, ticketTypeID string) (app.InventoryStatus, error)
}

// HandleInventoryStatus returns an HTTP handler for
// GET /ticket-types/{id}/status. Display only: allocation decisions are
// made by the engine's conditional updates, never from this read.
func HandleInventoryStatus(svc InventoryReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		ticketTypeID, ok := parseInventoryStatusPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		status, err := svc.InventoryStatus(r.Context(), ticketTypeID)
		if err != nil {
			switch err {
			case domain.ErrInvalidID:
				writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
			case domain.ErrTicketTypeNotFound:
				writeError(w, http.StatusNotFound, codeTicketTypeNotFound, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		writeJSON(w, http.StatusOK, inventoryStatusResponse{
			TicketTypeID: status.TicketTypeID,
			Capacity:     status.Capacity,
			Remaining:    status.Remaining,
		})
	}
}

func parseInventoryStatusPath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 3 {
		return "", false
	}
	if parts[0] != "ticket-types" || parts[2] != "status" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

type inventoryStatusResponse struct {
	TicketTypeID string `json:"ticket_type_id"`
	Capacity     int    `json:"capacity"`
	Remaining    int    `json:"remaining"`
}

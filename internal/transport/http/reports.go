package http

import (
	"context"
	"net/http"

	"github.com/ransjnr/evote-sub001/internal/app"
	"github.com/ransjnr/evote-sub001/internal/domain"
)

// ReportReader is the minimal interface for the admin report endpoints.
type ReportReader interface {
	VoteTotals(ctx context.Context, eventID string) ([]app.NomineeVoteTotal, error)
	Revenue(ctx context.Context, eventID string) (app.Revenue, error)
}

// HandleVoteReport returns an HTTP handler for
// GET /admin/reports/votes?event_id=. Figures come from committed votes
// only; pending intents never appear here.
func HandleVoteReport(svc ReportReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		eventID := r.URL.Query().Get("event_id")
		totals, err := svc.VoteTotals(r.Context(), eventID)
		if err != nil {
			writeReportError(w, err)
			return
		}

		resp := make([]voteTotalResponse, 0, len(totals))
		for _, t := range totals {
			resp = append(resp, voteTotalResponse{
				NomineeID:   t.NomineeID,
				NomineeName: t.NomineeName,
				Code:        t.Code,
				Votes:       t.Votes,
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// HandleRevenueReport returns an HTTP handler for
// GET /admin/reports/revenue?event_id=.
func HandleRevenueReport(svc ReportReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		eventID := r.URL.Query().Get("event_id")
		rev, err := svc.Revenue(r.Context(), eventID)
		if err != nil {
			writeReportError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, revenueResponse{
			VoteCents:   rev.VoteCents,
			TicketCents: rev.TicketCents,
			TotalCents:  rev.TotalCents(),
		})
	}
}

func writeReportError(w http.ResponseWriter, err error) {
	switch err {
	case domain.ErrInvalidID:
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

type voteTotalResponse struct {
	NomineeID   string `json:"nominee_id"`
	NomineeName string `json:"nominee_name"`
	Code        string `json:"code"`
	Votes       int    `json:"votes"`
}

type revenueResponse struct {
	VoteCents   int64 `json:"vote_cents"`
	TicketCents int64 `json:"ticket_cents"`
	TotalCents  int64 `json:"total_cents"`
}

package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ransjnr/evote-sub001/internal/app"
	"github.com/ransjnr/evote-sub001/internal/domain"
)

type fakeInventoryReader struct {
	status app.InventoryStatus
	err    error
}

func (f *fakeInventoryReader) InventoryStatus(_ context.Context, _ string) (app.InventoryStatus, error) {
	if f.err != nil {
		return app.InventoryStatus{}, f.err
	}
	return f.status, nil
}

func TestHandleInventoryStatus(t *testing.T) {
	t.Parallel()

	t.Run("reports capacity and remaining", func(t *testing.T) {
		svc := &fakeInventoryReader{status: app.InventoryStatus{
			TicketTypeID: "tt-1",
			Capacity:     100,
			Remaining:    37,
		}}
		req := httptest.NewRequest(http.MethodGet, "/ticket-types/tt-1/status", nil)
		rec := httptest.NewRecorder()
		HandleInventoryStatus(svc)(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp inventoryStatusResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.Capacity != 100 || resp.Remaining != 37 {
			t.Fatalf("unexpected response: %+v", resp)
		}
	})

	t.Run("unknown ticket type answers 404", func(t *testing.T) {
		svc := &fakeInventoryReader{err: domain.ErrTicketTypeNotFound}
		req := httptest.NewRequest(http.MethodGet, "/ticket-types/tt-x/status", nil)
		rec := httptest.NewRecorder()
		HandleInventoryStatus(svc)(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("malformed path answers 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ticket-types//status", nil)
		rec := httptest.NewRecorder()
		HandleInventoryStatus(&fakeInventoryReader{})(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ransjnr/evote-sub001/internal/domain"
)

type fakeCodeResolver struct {
	nominee domain.Nominee
	err     error
	got     string
}

func (f *fakeCodeResolver) ResolveCode(_ context.Context, code string) (domain.Nominee, error) {
	f.got = code
	if f.err != nil {
		return domain.Nominee{}, f.err
	}
	return f.nominee, nil
}

func TestHandleNomineeByCode(t *testing.T) {
	t.Parallel()

	t.Run("resolves a code", func(t *testing.T) {
		svc := &fakeCodeResolver{nominee: domain.Nominee{
			ID:           "nom-1",
			DepartmentID: "dept-1",
			Name:         "Kofi Mensah",
			Code:         "CS001",
		}}
		req := httptest.NewRequest(http.MethodGet, "/nominees/code/CS001", nil)
		rec := httptest.NewRecorder()
		HandleNomineeByCode(svc)(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp nomineeResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.ID != "nom-1" || resp.Code != "CS001" {
			t.Fatalf("unexpected response: %+v", resp)
		}
		if svc.got != "CS001" {
			t.Fatalf("expected raw path code passed through, got %q", svc.got)
		}
	})

	t.Run("unknown code answers 404", func(t *testing.T) {
		svc := &fakeCodeResolver{err: domain.ErrNomineeNotFound}
		req := httptest.NewRequest(http.MethodGet, "/nominees/code/ZZ999", nil)
		rec := httptest.NewRecorder()
		HandleNomineeByCode(svc)(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("malformed path answers 404", func(t *testing.T) {
		for _, path := range []string{"/nominees/code", "/nominees/code/CS001/extra"} {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			rec := httptest.NewRecorder()
			HandleNomineeByCode(&fakeCodeResolver{})(rec, req)
			if rec.Code != http.StatusNotFound {
				t.Fatalf("path %s: expected 404, got %d", path, rec.Code)
			}
		}
	})

	t.Run("method not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/nominees/code/CS001", nil)
		rec := httptest.NewRecorder()
		HandleNomineeByCode(&fakeCodeResolver{})(rec, req)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", rec.Code)
		}
	})
}

package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/ransjnr/evote-sub001/internal/domain"
)

// CodeResolver is the minimal interface needed to look up a nominee by code.
type CodeResolver interface {
	ResolveCode(ctx context.Context, code string) (domain.Nominee, error)
}

// HandleNomineeByCode returns an HTTP handler for GET /nominees/code/{code},
// the lookup shared by the web and USSD entry points.
func HandleNomineeByCode(svc CodeResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		code, ok := parseNomineeCodePath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		nominee, err := svc.ResolveCode(r.Context(), code)
		if err != nil {
			switch err {
			case domain.ErrNomineeNotFound:
				writeError(w, http.StatusNotFound, codeNomineeNotFound, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		writeJSON(w, http.StatusOK, nomineeResponse{
			ID:           nominee.ID,
			DepartmentID: nominee.DepartmentID,
			Name:         nominee.Name,
			Code:         nominee.Code,
		})
	}
}

func parseNomineeCodePath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 3 {
		return "", false
	}
	if parts[0] != "nominees" || parts[1] != "code" || parts[2] == "" {
		return "", false
	}
	return parts[2], true
}

type nomineeResponse struct {
	ID           string `json:"id"`
	DepartmentID string `json:"department_id"`
	Name         string `json:"name"`
	Code         string `json:"code"`
}

package http

import (
	"encoding/json"
	"net/http"
)

const (
	codeMethodNotAllowed      = "method_not_allowed"
	codeNotFound              = "not_found"
	codeInvalidRequestBody    = "invalid_request_body"
	codeInvalidStartsAt       = "invalid_starts_at"
	codeInvalidID             = "invalid_id"
	codeEventNameRequired     = "event_name_required"
	codeNameRequired          = "name_required"
	codeAbbrevRequired        = "abbrev_required"
	codeInvalidQuantity       = "invalid_quantity"
	codeInvalidCapacity       = "invalid_capacity"
	codeInvalidAmount         = "invalid_amount"
	codeAmountMismatch        = "amount_mismatch"
	codeVoteLimitExceeded     = "vote_limit_exceeded"
	codeReferenceRequired     = "payment_reference_required"
	codeDuplicateReference    = "duplicate_payment_reference"
	codeResolutionConflict    = "resolution_conflict"
	codeInsufficientCapacity  = "insufficient_capacity"
	codeCodeSpaceExhausted    = "code_space_exhausted"
	codeHasDependentVotes     = "has_dependent_votes"
	codeEventNotFound         = "event_not_found"
	codeTicketTypeNotFound    = "ticket_type_not_found"
	codeDepartmentNotFound    = "department_not_found"
	codeNomineeNotFound       = "nominee_not_found"
	codeIntentNotFound        = "payment_intent_not_found"
	codeTicketNotFound        = "ticket_not_found"
	codeDepartmentExists      = "department_already_exists"
	codeTicketTypeExists      = "ticket_type_already_exists"
	codeTicketCheckedIn       = "ticket_already_checked_in"
	codeInvalidSignature      = "invalid_signature"
	codeInvalidWebhookPayload = "invalid_webhook_payload"
	codeForbidden             = "forbidden"
	codeInternalError         = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

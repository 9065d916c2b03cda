package http

import (
	"context"
	"net/http"
	"time"

	"github.com/ransjnr/evote-sub001/internal/app"
	"github.com/ransjnr/evote-sub001/internal/domain"
)

// PurchaseInitiator is the minimal interface needed to start a purchase.
type PurchaseInitiator interface {
	Initiate(ctx context.Context, in app.InitiatePurchaseInput) (domain.PaymentIntent, error)
}

// HandleInitiatePurchase returns an HTTP handler for checkout initiation.
// The caller supplies the provider-assigned payment reference; replaying the
// same reference with identical parameters returns the original intent.
func HandleInitiatePurchase(svc PurchaseInitiator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req initiatePurchaseRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if code, msg := req.validate(); code != "" {
			writeError(w, http.StatusBadRequest, code, msg)
			return
		}

		intent, err := svc.Initiate(r.Context(), app.InitiatePurchaseInput{
			Kind:              domain.PurchaseKind(req.Kind),
			TargetID:          req.TargetID,
			Quantity:          req.Quantity,
			AmountCents:       req.AmountCents,
			BuyerName:         req.BuyerName,
			BuyerPhone:        req.BuyerPhone,
			ExternalReference: req.Reference,
		})
		if err != nil {
			switch err {
			case domain.ErrInvalidQuantity:
				writeError(w, http.StatusBadRequest, codeInvalidQuantity, err.Error())
			case domain.ErrInvalidAmount:
				writeError(w, http.StatusBadRequest, codeInvalidAmount, err.Error())
			case domain.ErrReferenceRequired:
				writeError(w, http.StatusBadRequest, codeReferenceRequired, err.Error())
			case domain.ErrInvalidID:
				writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
			case domain.ErrAmountMismatch:
				writeError(w, http.StatusUnprocessableEntity, codeAmountMismatch, err.Error())
			case domain.ErrVoteLimitExceeded:
				writeError(w, http.StatusUnprocessableEntity, codeVoteLimitExceeded, err.Error())
			case domain.ErrNomineeNotFound:
				writeError(w, http.StatusNotFound, codeNomineeNotFound, err.Error())
			case domain.ErrTicketTypeNotFound:
				writeError(w, http.StatusNotFound, codeTicketTypeNotFound, err.Error())
			case domain.ErrDuplicateReference:
				writeError(w, http.StatusConflict, codeDuplicateReference, err.Error())
			case domain.ErrInsufficientCapacity:
				writeError(w, http.StatusConflict, codeInsufficientCapacity, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		resp := intentResponse{
			IntentID:    intent.ID,
			Reference:   intent.ExternalReference,
			Kind:        string(intent.Kind),
			Status:      string(intent.Status),
			Quantity:    intent.Quantity,
			AmountCents: intent.AmountCents,
			CreatedAt:   intent.CreatedAt,
		}
		writeJSON(w, http.StatusCreated, resp)
	}
}

type initiatePurchaseRequest struct {
	Kind        string `json:"kind"`
	TargetID    string `json:"target_id"`
	Quantity    int    `json:"quantity"`
	AmountCents int64  `json:"amount_cents"`
	BuyerName   string `json:"buyer_name"`
	BuyerPhone  string `json:"buyer_phone"`
	Reference   string `json:"reference"`
}

func (r initiatePurchaseRequest) validate() (code, msg string) {
	if r.Kind != string(domain.KindVote) && r.Kind != string(domain.KindTicket) {
		return codeInvalidRequestBody, "kind must be vote or ticket"
	}
	if r.TargetID == "" {
		return codeInvalidID, "target_id is required"
	}
	if r.Quantity <= 0 {
		return codeInvalidQuantity, domain.ErrInvalidQuantity.Error()
	}
	if r.AmountCents < 0 {
		return codeInvalidAmount, domain.ErrInvalidAmount.Error()
	}
	if r.Reference == "" {
		return codeReferenceRequired, domain.ErrReferenceRequired.Error()
	}
	return "", ""
}

type intentResponse struct {
	IntentID    string    `json:"intent_id"`
	Reference   string    `json:"reference"`
	Kind        string    `json:"kind"`
	Status      string    `json:"status"`
	Quantity    int       `json:"quantity"`
	AmountCents int64     `json:"amount_cents"`
	CreatedAt   time.Time `json:"created_at"`
}

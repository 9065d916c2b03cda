package http

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"github.com/ransjnr/evote-sub001/internal/app"
	"github.com/ransjnr/evote-sub001/internal/domain"
)

const signatureHeader = "X-Provider-Signature"

// maxWebhookBody bounds webhook payloads; provider callbacks are tiny.
const maxWebhookBody = 1 << 16

// PaymentResolver is the minimal interface needed to settle a payment.
type PaymentResolver interface {
	Confirm(ctx context.Context, reference string) (app.ConfirmResult, error)
	Deny(ctx context.Context, reference string) error
}

// HandlePaymentWebhook returns an HTTP handler for the payment provider's
// callback. The raw body must carry a valid HMAC-SHA256 hex signature in
// X-Provider-Signature; unverified calls never reach the engine. Replayed
// deliveries settle to the same outcome and answer 200.
func HandlePaymentWebhook(svc PaymentResolver, secret []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		if !verifySignature(secret, body, r.Header.Get(signatureHeader)) {
			writeError(w, http.StatusUnauthorized, codeInvalidSignature, "invalid webhook signature")
			return
		}

		var payload webhookPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidWebhookPayload, "invalid webhook payload")
			return
		}
		if payload.Reference == "" {
			writeError(w, http.StatusBadRequest, codeReferenceRequired, domain.ErrReferenceRequired.Error())
			return
		}

		switch payload.Status {
		case "success", "succeeded":
			res, err := svc.Confirm(r.Context(), payload.Reference)
			if err != nil {
				writeResolveError(w, err)
				return
			}
			status := http.StatusOK
			if res.Created {
				status = http.StatusCreated
			}
			writeJSON(w, status, webhookResponse{Reference: payload.Reference, Status: "succeeded"})
		case "failed", "abandoned":
			if err := svc.Deny(r.Context(), payload.Reference); err != nil {
				writeResolveError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, webhookResponse{Reference: payload.Reference, Status: "failed"})
		default:
			writeError(w, http.StatusBadRequest, codeInvalidWebhookPayload, "unknown provider status")
		}
	}
}

func writeResolveError(w http.ResponseWriter, err error) {
	switch err {
	case domain.ErrIntentNotFound:
		writeError(w, http.StatusNotFound, codeIntentNotFound, err.Error())
	case domain.ErrInconsistentResolution:
		writeError(w, http.StatusConflict, codeResolutionConflict, err.Error())
	case domain.ErrReferenceRequired:
		writeError(w, http.StatusBadRequest, codeReferenceRequired, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

// verifySignature compares the provider's HMAC-SHA256 hex signature of the
// raw body in constant time. An empty secret rejects everything: the engine
// must never act on unverified calls.
func verifySignature(secret, body []byte, signature string) bool {
	if len(secret) == 0 || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

type webhookPayload struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
}

type webhookResponse struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
}

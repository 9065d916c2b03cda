package domain

import "time"

type PurchaseKind string

const (
	KindVote   PurchaseKind = "vote"
	KindTicket PurchaseKind = "ticket"
)

type IntentStatus string

const (
	IntentStatusPending   IntentStatus = "pending"
	IntentStatusSucceeded IntentStatus = "succeeded"
	IntentStatusFailed    IntentStatus = "failed"
	IntentStatusExpired   IntentStatus = "expired"
)

// Resolved reports whether the status is terminal. Transitions out of
// pending happen exactly once and are never reversed.
func (s IntentStatus) Resolved() bool {
	return s == IntentStatusSucceeded || s == IntentStatusFailed || s == IntentStatusExpired
}

// PaymentIntent is one attempted purchase, keyed by the provider's
// external reference. The reference is the idempotency key for the whole
// allocation flow.
type PaymentIntent struct {
	ID                string
	ExternalReference string
	Kind              PurchaseKind
	TargetID          string
	Quantity          int
	AmountCents       int64
	BuyerName         string
	BuyerPhone        string
	Status            IntentStatus
	CreatedAt         time.Time
	ResolvedAt        *time.Time
}

package domain

import "time"

// Vote is the durable effect of a succeeded vote payment. PaymentReference
// is unique: duplicate confirmations can never credit a nominee twice.
type Vote struct {
	ID               string
	NomineeID        string
	Quantity         int
	AmountCents      int64
	PaymentReference string
	CreatedAt        time.Time
}

// Ticket is the durable effect of a succeeded ticket payment.
type Ticket struct {
	ID               string
	TicketTypeID     string
	BuyerName        string
	BuyerPhone       string
	AmountCents      int64
	PaymentReference string
	CheckedInAt      *time.Time
	CreatedAt        time.Time
}

// CommittedCredit is the outcome of a confirmed intent: exactly one of Vote
// or Ticket is set, matching the intent's kind.
type CommittedCredit struct {
	Vote   *Vote
	Ticket *Ticket
}

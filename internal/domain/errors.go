package domain

import "errors"

var (
	ErrEventNotFound          = errors.New("event not found")
	ErrTicketTypeNotFound     = errors.New("ticket type not found")
	ErrDepartmentNotFound     = errors.New("department not found")
	ErrNomineeNotFound        = errors.New("nominee not found")
	ErrIntentNotFound         = errors.New("payment intent not found")
	ErrTicketNotFound         = errors.New("ticket not found")
	ErrInsufficientCapacity   = errors.New("insufficient capacity")
	ErrInvalidQuantity        = errors.New("invalid quantity")
	ErrInvalidCapacity        = errors.New("invalid capacity")
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrAmountMismatch         = errors.New("amount does not match quantity and price")
	ErrVoteLimitExceeded      = errors.New("vote quantity exceeds per-transaction limit")
	ErrReferenceRequired      = errors.New("payment reference required")
	ErrDuplicateReference     = errors.New("duplicate payment reference")
	ErrInconsistentResolution = errors.New("conflicting payment resolution")
	ErrCodeSpaceExhausted     = errors.New("nominee code space exhausted")
	ErrCodeTaken              = errors.New("nominee code already taken")
	ErrHasDependentVotes      = errors.New("nominee has committed votes")
	ErrTicketAlreadyCheckedIn = errors.New("ticket already checked in")
	ErrEventNameRequired      = errors.New("event name required")
	ErrNameRequired           = errors.New("name required")
	ErrAbbrevRequired         = errors.New("department abbreviation required")
	ErrDepartmentExists       = errors.New("department already exists")
	ErrTicketTypeExists       = errors.New("ticket type already exists")
	ErrInvalidID              = errors.New("invalid id")
)

package domain

import "time"

// Event represents one awards/ticketing event.
type Event struct {
	ID       string
	Name     string
	StartsAt time.Time
	// VotePriceCents is the unit price of a single vote for this event.
	VotePriceCents int64
	// MaxVotesPerIntent caps the vote quantity of a single purchase.
	// Zero disables the cap.
	MaxVotesPerIntent int
}

package domain

// TicketType is one sellable ticket category with finite capacity.
// Committed counts tickets issued to succeeded payments; Reserved counts
// tickets tentatively held by pending payments. committed + reserved never
// exceeds Capacity.
type TicketType struct {
	ID         string
	EventID    string
	Name       string
	PriceCents int64
	Capacity   int
	Committed  int
	Reserved   int
}

// Remaining is the capacity still available to new reservations.
func (t TicketType) Remaining() int {
	return t.Capacity - t.Committed - t.Reserved
}

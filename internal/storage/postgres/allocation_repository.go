package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ransjnr/evote-sub001/internal/domain"
)

// AllocationRepository backs the allocation engine. Capacity movement and
// intent resolution are single conditional UPDATEs, so concurrent writers
// are rejected by the store instead of racing through read-then-write gaps.
type AllocationRepository struct {
	pool *pgxpool.Pool
}

func NewAllocationRepository(pool *pgxpool.Pool) *AllocationRepository {
	return &AllocationRepository{pool: pool}
}

func (r *AllocationRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

const intentColumns = `id, external_reference, kind, target_id, quantity, amount_cents, buyer_name, buyer_phone, status, created_at, resolved_at`

func scanIntent(row pgx.Row) (domain.PaymentIntent, error) {
	var in domain.PaymentIntent
	err := row.Scan(
		&in.ID,
		&in.ExternalReference,
		&in.Kind,
		&in.TargetID,
		&in.Quantity,
		&in.AmountCents,
		&in.BuyerName,
		&in.BuyerPhone,
		&in.Status,
		&in.CreatedAt,
		&in.ResolvedAt,
	)
	return in, err
}

func (r *AllocationRepository) FindIntentByReference(ctx context.Context, reference string) (*domain.PaymentIntent, error) {
	query := `SELECT ` + intentColumns + ` FROM payment_intents WHERE external_reference = $1`
	in, err := scanIntent(r.queryRow(ctx, query, reference))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find intent by reference: %w", err)
	}
	return &in, nil
}

func (r *AllocationRepository) GetIntentByReferenceForUpdate(ctx context.Context, reference string) (domain.PaymentIntent, error) {
	query := `SELECT ` + intentColumns + ` FROM payment_intents WHERE external_reference = $1 FOR UPDATE`
	in, err := scanIntent(r.queryRow(ctx, query, reference))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.PaymentIntent{}, domain.ErrIntentNotFound
		}
		return domain.PaymentIntent{}, fmt.Errorf("get intent for update: %w", err)
	}
	return in, nil
}

func (r *AllocationRepository) CreateIntent(ctx context.Context, intent domain.PaymentIntent) error {
	const stmt = `
INSERT INTO payment_intents (id, external_reference, kind, target_id, quantity, amount_cents, buyer_name, buyer_phone, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.exec(ctx, stmt,
		intent.ID,
		intent.ExternalReference,
		intent.Kind,
		intent.TargetID,
		intent.Quantity,
		intent.AmountCents,
		intent.BuyerName,
		intent.BuyerPhone,
		intent.Status,
		intent.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateReference
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create intent: %w", err)
	}
	return nil
}

// MarkIntentResolved transitions an intent out of pending exactly once. The
// status guard in the WHERE clause is the resolve-once primitive: the losing
// writer of a race sees zero rows affected.
func (r *AllocationRepository) MarkIntentResolved(ctx context.Context, reference string, status domain.IntentStatus, at time.Time) (bool, error) {
	const stmt = `
UPDATE payment_intents
SET status = $2, resolved_at = $3
WHERE external_reference = $1 AND status = 'pending'`

	tag, err := r.exec(ctx, stmt, reference, status, at)
	if err != nil {
		return false, fmt.Errorf("mark intent resolved: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *AllocationRepository) ListExpiredPendingReferences(ctx context.Context, olderThan time.Time, limit int) ([]string, error) {
	const query = `
SELECT external_reference
FROM payment_intents
WHERE status = 'pending' AND created_at < $1
ORDER BY created_at ASC
LIMIT $2`

	rows, err := r.query(ctx, query, olderThan, limit)
	if err != nil {
		return nil, fmt.Errorf("list expired pending: %w", err)
	}
	defer rows.Close()

	var refs []string
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, fmt.Errorf("scan reference: %w", err)
		}
		refs = append(refs, ref)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate references: %w", rows.Err())
	}
	return refs, nil
}

func (r *AllocationRepository) GetEventByNominee(ctx context.Context, nomineeID string) (domain.Event, error) {
	const query = `
SELECT e.id, e.name, e.starts_at, e.vote_price_cents, e.max_votes_per_intent
FROM events e
JOIN departments d ON d.event_id = e.id
JOIN nominees n ON n.department_id = d.id
WHERE n.id = $1`

	var e domain.Event
	err := r.queryRow(ctx, query, nomineeID).
		Scan(&e.ID, &e.Name, &e.StartsAt, &e.VotePriceCents, &e.MaxVotesPerIntent)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Event{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Event{}, domain.ErrNomineeNotFound
		}
		return domain.Event{}, fmt.Errorf("get event by nominee: %w", err)
	}
	return e, nil
}

func (r *AllocationRepository) GetTicketType(ctx context.Context, ticketTypeID string) (domain.TicketType, error) {
	const query = `
SELECT id, event_id, name, price_cents, capacity, committed, reserved
FROM ticket_types
WHERE id = $1`

	var tt domain.TicketType
	err := r.queryRow(ctx, query, ticketTypeID).
		Scan(&tt.ID, &tt.EventID, &tt.Name, &tt.PriceCents, &tt.Capacity, &tt.Committed, &tt.Reserved)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.TicketType{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.TicketType{}, domain.ErrTicketTypeNotFound
		}
		return domain.TicketType{}, fmt.Errorf("get ticket type: %w", err)
	}
	return tt, nil
}

// ReserveCapacity is the compare-and-increment at the heart of the engine:
// the remaining-capacity check and the reserved increment happen in one
// UPDATE, so two buyers cannot both take the last ticket.
func (r *AllocationRepository) ReserveCapacity(ctx context.Context, ticketTypeID string, quantity int) error {
	const stmt = `
UPDATE ticket_types
SET reserved = reserved + $2
WHERE id = $1 AND capacity - committed - reserved >= $2`

	tag, err := r.exec(ctx, stmt, ticketTypeID, quantity)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("reserve capacity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		exists, err := r.ticketTypeExists(ctx, ticketTypeID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrTicketTypeNotFound
		}
		return domain.ErrInsufficientCapacity
	}
	return nil
}

// CommitCapacity moves quantity from reserved to committed. The reserved
// guard keeps the counters consistent even if a caller retries a commit the
// intent transition already rejected.
func (r *AllocationRepository) CommitCapacity(ctx context.Context, ticketTypeID string, quantity int) error {
	const stmt = `
UPDATE ticket_types
SET reserved = reserved - $2, committed = committed + $2
WHERE id = $1 AND reserved >= $2`

	tag, err := r.exec(ctx, stmt, ticketTypeID, quantity)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("commit capacity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("commit capacity: no reservation of %d on ticket type %s", quantity, ticketTypeID)
	}
	return nil
}

func (r *AllocationRepository) ReleaseCapacity(ctx context.Context, ticketTypeID string, quantity int) error {
	const stmt = `
UPDATE ticket_types
SET reserved = reserved - $2
WHERE id = $1 AND reserved >= $2`

	tag, err := r.exec(ctx, stmt, ticketTypeID, quantity)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("release capacity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("release capacity: no reservation of %d on ticket type %s", quantity, ticketTypeID)
	}
	return nil
}

func (r *AllocationRepository) CreateVote(ctx context.Context, vote domain.Vote) error {
	const stmt = `
INSERT INTO votes (id, nominee_id, quantity, amount_cents, payment_reference, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.exec(ctx, stmt,
		vote.ID,
		vote.NomineeID,
		vote.Quantity,
		vote.AmountCents,
		vote.PaymentReference,
		vote.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateReference
		}
		return fmt.Errorf("create vote: %w", err)
	}
	return nil
}

func (r *AllocationRepository) CreateTicket(ctx context.Context, ticket domain.Ticket) error {
	const stmt = `
INSERT INTO tickets (id, ticket_type_id, buyer_name, buyer_phone, amount_cents, payment_reference, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.exec(ctx, stmt,
		ticket.ID,
		ticket.TicketTypeID,
		ticket.BuyerName,
		ticket.BuyerPhone,
		ticket.AmountCents,
		ticket.PaymentReference,
		ticket.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateReference
		}
		return fmt.Errorf("create ticket: %w", err)
	}
	return nil
}

func (r *AllocationRepository) FindVoteByReference(ctx context.Context, reference string) (*domain.Vote, error) {
	const query = `
SELECT id, nominee_id, quantity, amount_cents, payment_reference, created_at
FROM votes
WHERE payment_reference = $1`

	var v domain.Vote
	err := r.queryRow(ctx, query, reference).
		Scan(&v.ID, &v.NomineeID, &v.Quantity, &v.AmountCents, &v.PaymentReference, &v.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find vote by reference: %w", err)
	}
	return &v, nil
}

func (r *AllocationRepository) FindTicketByReference(ctx context.Context, reference string) (*domain.Ticket, error) {
	const query = `
SELECT id, ticket_type_id, buyer_name, buyer_phone, amount_cents, payment_reference, checked_in_at, created_at
FROM tickets
WHERE payment_reference = $1`

	var t domain.Ticket
	err := r.queryRow(ctx, query, reference).
		Scan(&t.ID, &t.TicketTypeID, &t.BuyerName, &t.BuyerPhone, &t.AmountCents, &t.PaymentReference, &t.CheckedInAt, &t.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find ticket by reference: %w", err)
	}
	return &t, nil
}

func (r *AllocationRepository) ticketTypeExists(ctx context.Context, ticketTypeID string) (bool, error) {
	var exists bool
	err := r.queryRow(ctx, `SELECT EXISTS (SELECT 1 FROM ticket_types WHERE id = $1)`, ticketTypeID).Scan(&exists)
	if err != nil {
		if isInvalidUUID(err) {
			return false, domain.ErrInvalidID
		}
		return false, fmt.Errorf("check ticket type: %w", err)
	}
	return exists, nil
}

func (r *AllocationRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *AllocationRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

func (r *AllocationRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

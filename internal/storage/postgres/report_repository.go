package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ransjnr/evote-sub001/internal/app"
	"github.com/ransjnr/evote-sub001/internal/domain"
)

// ReportRepository reads committed state only: votes and tickets tables,
// never pending intents or reserved counters.
type ReportRepository struct {
	pool *pgxpool.Pool
}

func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

func (r *ReportRepository) VoteTotalsByEvent(ctx context.Context, eventID string) ([]app.NomineeVoteTotal, error) {
	const query = `
SELECT n.id, n.name, n.code, COALESCE(SUM(v.quantity), 0)
FROM nominees n
JOIN departments d ON d.id = n.department_id
LEFT JOIN votes v ON v.nominee_id = n.id
WHERE d.event_id = $1
GROUP BY n.id, n.name, n.code
ORDER BY 4 DESC, n.code ASC`

	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("vote totals: %w", err)
	}
	defer rows.Close()

	var totals []app.NomineeVoteTotal
	for rows.Next() {
		var t app.NomineeVoteTotal
		if err := rows.Scan(&t.NomineeID, &t.NomineeName, &t.Code, &t.Votes); err != nil {
			return nil, fmt.Errorf("scan vote total: %w", err)
		}
		totals = append(totals, t)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate vote totals: %w", rows.Err())
	}
	return totals, nil
}

func (r *ReportRepository) RevenueByEvent(ctx context.Context, eventID string) (app.Revenue, error) {
	const voteQuery = `
SELECT COALESCE(SUM(v.amount_cents), 0)
FROM votes v
JOIN nominees n ON n.id = v.nominee_id
JOIN departments d ON d.id = n.department_id
WHERE d.event_id = $1`

	const ticketQuery = `
SELECT COALESCE(SUM(t.amount_cents), 0)
FROM tickets t
JOIN ticket_types tt ON tt.id = t.ticket_type_id
WHERE tt.event_id = $1`

	var rev app.Revenue
	if err := r.pool.QueryRow(ctx, voteQuery, eventID).Scan(&rev.VoteCents); err != nil {
		if isInvalidUUID(err) {
			return app.Revenue{}, domain.ErrInvalidID
		}
		return app.Revenue{}, fmt.Errorf("vote revenue: %w", err)
	}
	if err := r.pool.QueryRow(ctx, ticketQuery, eventID).Scan(&rev.TicketCents); err != nil {
		return app.Revenue{}, fmt.Errorf("ticket revenue: %w", err)
	}
	return rev, nil
}

func (r *ReportRepository) GetTicketType(ctx context.Context, ticketTypeID string) (domain.TicketType, error) {
	const query = `
SELECT id, event_id, name, price_cents, capacity, committed, reserved
FROM ticket_types
WHERE id = $1`

	var tt domain.TicketType
	err := r.pool.QueryRow(ctx, query, ticketTypeID).
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

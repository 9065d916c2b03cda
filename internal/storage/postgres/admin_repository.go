package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ransjnr/evote-sub001/internal/domain"
)

type AdminRepository struct {
	pool *pgxpool.Pool
}

func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

func (r *AdminRepository) CreateEvent(ctx context.Context, event domain.Event) error {
	const stmt = `
INSERT INTO events (id, name, starts_at, vote_price_cents, max_votes_per_intent)
VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, stmt,
		event.ID, event.Name, event.StartsAt, event.VotePriceCents, event.MaxVotesPerIntent)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (r *AdminRepository) ListEvents(ctx context.Context) ([]domain.Event, error) {
	const query = `
SELECT id, name, starts_at, vote_price_cents, max_votes_per_intent
FROM events
ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var event domain.Event
		if err := rows.Scan(&event.ID, &event.Name, &event.StartsAt, &event.VotePriceCents, &event.MaxVotesPerIntent); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, event)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate events: %w", rows.Err())
	}
	return events, nil
}

func (r *AdminRepository) CreateTicketType(ctx context.Context, tt domain.TicketType) error {
	const stmt = `
INSERT INTO ticket_types (id, event_id, name, price_cents, capacity)
VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, stmt, tt.ID, tt.EventID, tt.Name, tt.PriceCents, tt.Capacity)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		if isUniqueViolation(err) {
			return domain.ErrTicketTypeExists
		}
		if isForeignKeyViolation(err) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("create ticket type: %w", err)
	}
	return nil
}

func (r *AdminRepository) ListTicketTypesByEvent(ctx context.Context, eventID string) ([]domain.TicketType, error) {
	if err := r.requireEvent(ctx, eventID); err != nil {
		return nil, err
	}

	const query = `
SELECT id, event_id, name, price_cents, capacity, committed, reserved
FROM ticket_types
WHERE event_id = $1
ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("list ticket types: %w", err)
	}
	defer rows.Close()

	var types []domain.TicketType
	for rows.Next() {
		var tt domain.TicketType
		if err := rows.Scan(&tt.ID, &tt.EventID, &tt.Name, &tt.PriceCents, &tt.Capacity, &tt.Committed, &tt.Reserved); err != nil {
			return nil, fmt.Errorf("scan ticket type: %w", err)
		}
		types = append(types, tt)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate ticket types: %w", rows.Err())
	}
	return types, nil
}

func (r *AdminRepository) CreateDepartment(ctx context.Context, dept domain.Department) error {
	const stmt = `
INSERT INTO departments (id, event_id, name, abbrev)
VALUES ($1, $2, $3, $4)`

	_, err := r.pool.Exec(ctx, stmt, dept.ID, dept.EventID, dept.Name, dept.Abbrev)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		if isUniqueViolation(err) {
			return domain.ErrDepartmentExists
		}
		if isForeignKeyViolation(err) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("create department: %w", err)
	}
	return nil
}

func (r *AdminRepository) ListDepartmentsByEvent(ctx context.Context, eventID string) ([]domain.Department, error) {
	if err := r.requireEvent(ctx, eventID); err != nil {
		return nil, err
	}

	const query = `
SELECT id, event_id, name, abbrev, code_seq
FROM departments
WHERE event_id = $1
ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()

	var depts []domain.Department
	for rows.Next() {
		var d domain.Department
		if err := rows.Scan(&d.ID, &d.EventID, &d.Name, &d.Abbrev, &d.CodeSeq); err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		depts = append(depts, d)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate departments: %w", rows.Err())
	}
	return depts, nil
}

func (r *AdminRepository) CreateNominee(ctx context.Context, nominee domain.Nominee) error {
	const stmt = `
INSERT INTO nominees (id, department_id, name, code)
VALUES ($1, $2, $3, $4)`

	_, err := r.pool.Exec(ctx, stmt, nominee.ID, nominee.DepartmentID, nominee.Name, nominee.Code)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		if isUniqueViolation(err) {
			return domain.ErrCodeTaken
		}
		if isForeignKeyViolation(err) {
			return domain.ErrDepartmentNotFound
		}
		return fmt.Errorf("create nominee: %w", err)
	}
	return nil
}

func (r *AdminRepository) ListNomineesByDepartment(ctx context.Context, departmentID string) ([]domain.Nominee, error) {
	const query = `
SELECT id, department_id, name, code
FROM nominees
WHERE department_id = $1
ORDER BY code ASC`

	rows, err := r.pool.Query(ctx, query, departmentID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list nominees: %w", err)
	}
	defer rows.Close()

	var nominees []domain.Nominee
	for rows.Next() {
		var n domain.Nominee
		if err := rows.Scan(&n.ID, &n.DepartmentID, &n.Name, &n.Code); err != nil {
			return nil, fmt.Errorf("scan nominee: %w", err)
		}
		nominees = append(nominees, n)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate nominees: %w", rows.Err())
	}
	return nominees, nil
}

// CheckInTicket stamps the check-in time once; the NULL guard makes a
// repeated check-in visible as a conflict instead of overwriting the stamp.
func (r *AdminRepository) CheckInTicket(ctx context.Context, ticketID string, at time.Time) error {
	const stmt = `
UPDATE tickets
SET checked_in_at = $2
WHERE id = $1 AND checked_in_at IS NULL`

	tag, err := r.pool.Exec(ctx, stmt, ticketID, at)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("check in ticket: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tickets WHERE id = $1)`, ticketID).Scan(&exists); err != nil {
			return fmt.Errorf("check ticket: %w", err)
		}
		if !exists {
			return domain.ErrTicketNotFound
		}
		return domain.ErrTicketAlreadyCheckedIn
	}
	return nil
}

func (r *AdminRepository) requireEvent(ctx context.Context, eventID string) error {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, eventID).Scan(&exists); err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("check event: %w", err)
	}
	if !exists {
		return domain.ErrEventNotFound
	}
	return nil
}

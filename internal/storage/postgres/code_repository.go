package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ransjnr/evote-sub001/internal/domain"
)

type CodeRepository struct {
	pool *pgxpool.Pool
}

func NewCodeRepository(pool *pgxpool.Pool) *CodeRepository {
	return &CodeRepository{pool: pool}
}

func (r *CodeRepository) GetDepartment(ctx context.Context, departmentID string) (domain.Department, error) {
	const query = `
SELECT id, event_id, name, abbrev, code_seq
FROM departments
WHERE id = $1`

	var d domain.Department
	err := r.pool.QueryRow(ctx, query, departmentID).
		Scan(&d.ID, &d.EventID, &d.Name, &d.Abbrev, &d.CodeSeq)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Department{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Department{}, domain.ErrDepartmentNotFound
		}
		return domain.Department{}, fmt.Errorf("get department: %w", err)
	}
	return d, nil
}

// NextCodeSeq increments the department's code counter in a single
// conditional UPDATE, so concurrent nominee creations get distinct
// sequence numbers without scanning existing codes.
func (r *CodeRepository) NextCodeSeq(ctx context.Context, departmentID string, max int) (int, error) {
	const stmt = `
UPDATE departments
SET code_seq = code_seq + 1
WHERE id = $1 AND code_seq < $2
RETURNING code_seq`

	var seq int
	err := r.pool.QueryRow(ctx, stmt, departmentID, max).Scan(&seq)
	if err != nil {
		if isInvalidUUID(err) {
			return 0, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			exists, exErr := r.departmentExists(ctx, departmentID)
			if exErr != nil {
				return 0, exErr
			}
			if !exists {
				return 0, domain.ErrDepartmentNotFound
			}
			return 0, domain.ErrCodeSpaceExhausted
		}
		return 0, fmt.Errorf("next code seq: %w", err)
	}
	return seq, nil
}

func (r *CodeRepository) FindNomineeByCode(ctx context.Context, code string) (*domain.Nominee, error) {
	const query = `
SELECT id, department_id, name, code
FROM nominees
WHERE code = $1`

	var n domain.Nominee
	err := r.pool.QueryRow(ctx, query, code).
		Scan(&n.ID, &n.DepartmentID, &n.Name, &n.Code)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find nominee by code: %w", err)
	}
	return &n, nil
}

func (r *CodeRepository) SumVotesByNominee(ctx context.Context, nomineeID string) (int, error) {
	const query = `SELECT COALESCE(SUM(quantity), 0) FROM votes WHERE nominee_id = $1`

	var total int
	if err := r.pool.QueryRow(ctx, query, nomineeID).Scan(&total); err != nil {
		if isInvalidUUID(err) {
			return 0, domain.ErrInvalidID
		}
		return 0, fmt.Errorf("sum votes by nominee: %w", err)
	}
	return total, nil
}

func (r *CodeRepository) DeleteNominee(ctx context.Context, nomineeID string) error {
	const stmt = `DELETE FROM nominees WHERE id = $1`

	tag, err := r.pool.Exec(ctx, stmt, nomineeID)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		// votes reference nominees without cascade; the FK is the
		// store-level guard behind the vote-count check.
		if isForeignKeyViolation(err) {
			return domain.ErrHasDependentVotes
		}
		return fmt.Errorf("delete nominee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNomineeNotFound
	}
	return nil
}

func (r *CodeRepository) departmentExists(ctx context.Context, departmentID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM departments WHERE id = $1)`, departmentID).Scan(&exists)
	if err != nil {
		if isInvalidUUID(err) {
			return false, domain.ErrInvalidID
		}
		return false, fmt.Errorf("check department: %w", err)
	}
	return exists, nil
}

package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/ransjnr/evote-sub001/internal/domain"
)

// codeSeqMax bounds the 3-digit sequence of a department's code space.
const codeSeqMax = 999

type CodeRepository interface {
	GetDepartment(ctx context.Context, departmentID string) (domain.Department, error)
	// NextCodeSeq atomically increments and returns the department's code
	// counter, failing with ErrCodeSpaceExhausted once max is reached.
	NextCodeSeq(ctx context.Context, departmentID string, max int) (int, error)
	FindNomineeByCode(ctx context.Context, code string) (*domain.Nominee, error)
	SumVotesByNominee(ctx context.Context, nomineeID string) (int, error)
	DeleteNominee(ctx context.Context, nomineeID string) error
}

// CodeService owns nominee codes: allocation within a department namespace
// and resolution for the web and USSD entry points.
type CodeService struct {
	repo CodeRepository
}

func NewCodeService(repo CodeRepository) *CodeService {
	return &CodeService{repo: repo}
}

// AllocateCode produces the next code for a department, e.g. CS003 for the
// third nominee of a department abbreviated CS. The sequence lives in an
// atomic per-department counter, so concurrent allocations never collide.
func (s *CodeService) AllocateCode(ctx context.Context, departmentID string) (string, error) {
	dept, err := s.repo.GetDepartment(ctx, departmentID)
	if err != nil {
		return "", err
	}
	seq, err := s.repo.NextCodeSeq(ctx, departmentID, codeSeqMax)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%03d", strings.ToUpper(dept.Abbrev), seq), nil
}

// ResolveCode maps a short code to its nominee. Codes are matched
// case-insensitively and with surrounding whitespace ignored, so USSD and
// web input resolve identically.
func (s *CodeService) ResolveCode(ctx context.Context, code string) (domain.Nominee, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return domain.Nominee{}, domain.ErrNomineeNotFound
	}
	nominee, err := s.repo.FindNomineeByCode(ctx, normalized)
	if err != nil {
		return domain.Nominee{}, err
	}
	if nominee == nil {
		return domain.Nominee{}, domain.ErrNomineeNotFound
	}
	return *nominee, nil
}

// DeleteNominee removes a nominee unless committed votes reference it.
// Deleting a voted-for nominee would retroactively lose vote attribution.
func (s *CodeService) DeleteNominee(ctx context.Context, nomineeID string) error {
	if nomineeID == "" {
		return domain.ErrInvalidID
	}
	votes, err := s.repo.SumVotesByNominee(ctx, nomineeID)
	if err != nil {
		return err
	}
	if votes > 0 {
		return domain.ErrHasDependentVotes
	}
	return s.repo.DeleteNominee(ctx, nomineeID)
}
